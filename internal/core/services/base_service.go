package services

import (
	"context"
	"log/slog"

	"github.com/fasopay/fasopay_backend/internal/apperrors"
	"github.com/fasopay/fasopay_backend/internal/core/domain"
	"github.com/fasopay/fasopay_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// AuthorizeAccountAccess verifies that the caller may read the given account.
// Admins may read any account, clients only their own.
func (s *BaseService) AuthorizeAccountAccess(ctx context.Context, caller domain.OwnerRef, account *domain.Account) error {
	if caller.IsAdmin() || caller.Owns(account) {
		return nil
	}
	s.LogDebug(ctx, "Account access denied",
		slog.String("caller_id", caller.ID),
		slog.String("account_id", account.AccountID))
	return apperrors.ErrForbidden
}
