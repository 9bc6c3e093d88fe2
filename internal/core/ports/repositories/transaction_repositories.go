package repositories

import (
	"context"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionWriter defines the append-only write path of the ledger.
type TransactionWriter interface {
	// SaveTransaction persists a transaction record. The engine only ever
	// writes COMPLETED records with executed_at set. A unique collision on
	// the generated reference yields apperrors.ErrDuplicate so the caller
	// can regenerate and retry. Records are never updated or deleted
	// through this interface once written.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionReader defines read operations over the ledger.
type TransactionReader interface {
	// FindTransactionByReference retrieves a transaction by its unique
	// human-presentable reference.
	FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error)

	// ListTransactionsByAccount returns transactions where the account is
	// sender OR receiver, newest first, with offset pagination, plus the
	// total count of matching rows. pageSize is expected pre-clamped by the
	// service to [1,100].
	ListTransactionsByAccount(ctx context.Context, accountID string, page int, pageSize int) ([]domain.Transaction, int64, error)

	// SumCompletedByAccount recomputes the signed sum of all completed,
	// non-deleted transactions for an account (receiver positive, sender
	// negative including fee). Used for reconciliation, not the hot path.
	SumCompletedByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// TransactionRepository combines ledger read and write capabilities.
type TransactionRepository interface {
	TransactionReader
	TransactionWriter
}
