package services

import (
	"context"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
	"github.com/fasopay/fasopay_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account, enforcing ownership: non-admin
	// callers may only read their own accounts.
	GetAccountByID(ctx context.Context, accountID string, caller domain.OwnerRef) (*domain.Account, error)

	// ListAccounts retrieves all live accounts owned by the caller.
	ListAccounts(ctx context.Context, caller domain.OwnerRef) ([]domain.Account, error)

	// GetBalance returns the maintained balance and currency of an account.
	GetBalance(ctx context.Context, accountID string, caller domain.OwnerRef) (decimal.Decimal, string, error)
}

// AccountAdminSvc defines administrative state changes on accounts.
type AccountAdminSvc interface {
	// BlockAccount transitions an account to BLOCKED. Idempotent.
	BlockAccount(ctx context.Context, accountID string, reason string, caller domain.OwnerRef) error

	// UnblockAccount transitions an account back to ACTIVE. Idempotent.
	UnblockAccount(ctx context.Context, accountID string, caller domain.OwnerRef) error

	// SoftDeleteAccount logically removes an account. Admin only.
	SoftDeleteAccount(ctx context.Context, accountID string, caller domain.OwnerRef) error
}

// AccountAuditSvc defines integrity auditing over maintained balances.
type AccountAuditSvc interface {
	// Reconcile independently recomputes the balance from completed
	// transaction history and compares it with the stored running balance.
	Reconcile(ctx context.Context, accountID string, caller domain.OwnerRef) (*dto.ReconcileResponse, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountAdminSvc
	AccountAuditSvc
}
