package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fasopay/fasopay_backend/internal/core/ports/services"
	"github.com/fasopay/fasopay_backend/internal/dto"
	"github.com/fasopay/fasopay_backend/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := &accountHandler{accountService: accountService, ledgerService: ledgerService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.GET("/:accountID/reconcile", h.reconcile)
		accounts.POST("/:accountID/block", h.blockAccount)
		accounts.POST("/:accountID/unblock", h.unblockAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
	}
}

// createAccount godoc
// @Summary Open a new account
// @Description Opens an account for the caller, optionally funded by an initial deposit
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.SuccessResponse{data=dto.CreatedAccountResponse}
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	account, initialTxn, err := h.ledgerService.OpenAccountWithDeposit(c.Request.Context(), req, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := dto.CreatedAccountResponse{Account: dto.ToAccountResponse(account)}
	if initialTxn != nil {
		txnResp := dto.ToTransactionResponse(initialTxn)
		payload.InitialTransaction = &txnResp
	}
	respondSuccess(c, http.StatusCreated, "Account created successfully", payload)
}

// listAccounts godoc
// @Summary List the caller's accounts
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.SuccessResponse{data=[]dto.AccountResponse}
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", dto.ToAccountResponses(accounts))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.AccountResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", dto.ToAccountResponse(account))
}

// getBalance godoc
// @Summary Get an account's balance
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.BalanceResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	balance, currency, err := h.accountService.GetBalance(c.Request.Context(), c.Param("accountID"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", dto.BalanceResponse{Balance: balance, Currency: currency})
}

// reconcile godoc
// @Summary Audit an account's stored balance against its history
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.ReconcileResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/reconcile [get]
func (h *accountHandler) reconcile(c *gin.Context) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	report, err := h.accountService.Reconcile(c.Request.Context(), c.Param("accountID"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", report)
}

// blockAccount godoc
// @Summary Block an account
// @Description Blocks an account so it can no longer send or receive funds. Idempotent.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   body body dto.BlockAccountRequest false "Block reason"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/block [post]
func (h *accountHandler) blockAccount(c *gin.Context) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	var req dto.BlockAccountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}

	if err := h.accountService.BlockAccount(c.Request.Context(), c.Param("accountID"), req.Reason, caller); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Account blocked successfully", nil)
}

// unblockAccount godoc
// @Summary Unblock an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/unblock [post]
func (h *accountHandler) unblockAccount(c *gin.Context) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	if err := h.accountService.UnblockAccount(c.Request.Context(), c.Param("accountID"), caller); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Account unblocked successfully", nil)
}

// deleteAccount godoc
// @Summary Soft delete an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	caller, ok := middleware.GetCallerFromCtx(c.Request.Context())
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	if err := h.accountService.SoftDeleteAccount(c.Request.Context(), c.Param("accountID"), caller); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Account deleted successfully", nil)
}
