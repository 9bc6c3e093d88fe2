package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fasopay/fasopay_backend/internal/core/ports/services"
	"github.com/fasopay/fasopay_backend/internal/dto"
	"github.com/fasopay/fasopay_backend/internal/middleware"
)

// transactionHandler handles HTTP requests related to ledger operations.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterTransactionRoutes registers routes related to transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &transactionHandler{ledgerService: ledgerService}

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/transfer", h.transfer)
		transactions.GET("/history/:accountID", h.history)
	}
}

// transfer godoc
// @Summary Transfer funds between two accounts
// @Description Atomically moves funds between two same-currency accounts
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.SuccessResponse{data=dto.TransferResponse}
// @Failure 422 {object} dto.ErrorResponse "Validation error, blocked account or insufficient funds"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Lock wait timed out"
// @Security BearerAuth
// @Router /transactions/transfer [post]
func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	result, err := h.ledgerService.Transfer(c.Request.Context(), req, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Transfer completed successfully", dto.ToTransferResponse(result))
}

// history godoc
// @Summary List an account's transaction history
// @Description Lists transactions where the account is sender or receiver, newest first
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   page query int false "Page number" default(1)
// @Param   per_page query int false "Page size" default(10)
// @Success 200 {object} dto.SuccessResponse{data=[]dto.TransactionResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions/history/{accountID} [get]
func (h *transactionHandler) history(c *gin.Context) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	var params dto.HistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindingError(c, err)
		return
	}
	page, perPage := dto.NormalizePage(params.Page, params.PerPage)

	txns, total, err := h.ledgerService.History(c.Request.Context(), c.Param("accountID"), page, perPage, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, dto.ToTransactionResponses(txns), page, total, perPage)
}
