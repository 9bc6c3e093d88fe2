package repositories

import (
	"context"
	"time"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	// Soft-deleted accounts are treated as not found.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByOwner retrieves all live accounts for an owning identity.
	ListAccountsByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. A unique collision on the
	// generated account number yields apperrors.ErrDuplicate so the caller
	// can regenerate and retry.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SetAccountStatus performs an administrative status change. Setting the
	// current status again is a no-op success.
	SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, reason string, userID string, now time.Time) error

	// SoftDeleteAccount marks an account as logically deleted while
	// retaining the row for audit.
	SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountLocker defines the pessimistic-lock operations used by the ledger
// engine. Both methods are only meaningful on a unit-of-work-bound
// repository: the row lock is held until the enclosing transaction ends.
type AccountLocker interface {
	// FindAccountByIDForUpdate fetches an account acquiring an exclusive row
	// lock that blocks other lock acquirers until the unit of work commits
	// or rolls back. A bounded lock wait yields apperrors.ErrLockTimeout.
	FindAccountByIDForUpdate(ctx context.Context, accountID string) (*domain.Account, error)

	// ApplyBalanceDelta adjusts the maintained balance by a signed amount.
	// The caller must already hold the row lock. A delta that would drive
	// the balance negative yields apperrors.ErrInvariantViolation.
	ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error
}

// AccountRepository combines all account repository capabilities.
type AccountRepository interface {
	AccountReader
	AccountWriter
	AccountLocker
}
