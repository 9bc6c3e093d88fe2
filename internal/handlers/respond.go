package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fasopay/fasopay_backend/internal/apperrors"
	"github.com/fasopay/fasopay_backend/internal/dto"
	"github.com/fasopay/fasopay_backend/internal/middleware"
)

// Machine-readable error codes of the API envelope.
const (
	codeValidationError   = "VALIDATION_ERROR"
	codeInsufficientFunds = "INSUFFICIENT_FUNDS"
	codeAccountBlocked    = "ACCOUNT_BLOCKED"
	codeInvalidCode       = "INVALID_CODE"
	codeNotFound          = "NOT_FOUND"
	codeUnauthorized      = "UNAUTHORIZED"
	codeConflict          = "CONFLICT"
	codeLockTimeout       = "LOCK_TIMEOUT"
	codeInternalError     = "INTERNAL_ERROR"
)

// respondSuccess writes the uniform success envelope.
func respondSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, dto.SuccessResponse{Success: true, Message: message, Data: data})
}

// respondPage writes the success envelope with pagination metadata.
func respondPage(c *gin.Context, data any, page int, total int64, perPage int) {
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    &dto.PaginationMeta{CurrentPage: page, Total: total, PerPage: perPage},
	})
}

// respondError maps a service error onto the uniform error envelope. The
// internal error text is logged but never sent to the caller for 5xx.
func respondError(c *gin.Context, err error) {
	if ife, ok := apperrors.IsInsufficientFunds(err); ok {
		writeError(c, http.StatusUnprocessableEntity, codeInsufficientFunds, "Insufficient funds for this operation", map[string]any{
			"available": ife.Available.StringFixed(2),
			"requested": ife.Requested.StringFixed(2),
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		writeError(c, http.StatusUnprocessableEntity, codeValidationError, err.Error(), nil)
	case errors.Is(err, apperrors.ErrInvalidCode):
		writeError(c, http.StatusUnprocessableEntity, codeInvalidCode, "The secret code does not match the sender account", nil)
	case errors.Is(err, apperrors.ErrAccountBlocked):
		writeError(c, http.StatusUnprocessableEntity, codeAccountBlocked, "Account is blocked or suspended", nil)
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(c, http.StatusNotFound, codeNotFound, "Resource not found", nil)
	case errors.Is(err, apperrors.ErrForbidden):
		writeError(c, http.StatusForbidden, codeUnauthorized, "You are not allowed to perform this action", nil)
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		writeError(c, http.StatusConflict, codeConflict, "The operation conflicts with the current state", nil)
	case errors.Is(err, apperrors.ErrLockTimeout):
		writeError(c, http.StatusServiceUnavailable, codeLockTimeout, "The operation timed out waiting for a busy account, please retry", nil)
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Unhandled service error", slog.String("error", err.Error()))
		writeError(c, http.StatusInternalServerError, codeInternalError, "An internal error occurred", nil)
	}
}

// respondBindingError reports malformed request payloads.
func respondBindingError(c *gin.Context, err error) {
	writeError(c, http.StatusUnprocessableEntity, codeValidationError, "Invalid request format: "+err.Error(), nil)
}

// errUnauthenticated is returned when a handler runs without an
// authenticated caller in context.
func errUnauthenticated() error {
	return apperrors.ErrForbidden
}

func writeError(c *gin.Context, status int, code, message string, details map[string]any) {
	c.JSON(status, dto.ErrorResponse{
		Success: false,
		Error:   dto.ErrorDetail{Code: code, Message: message, Details: details},
	})
}
