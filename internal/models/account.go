package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the database representation of a ledger account.
type Account struct {
	AccountID      string          `db:"account_id"`
	AccountNumber  string          `db:"account_number"`
	OwnerKind      string          `db:"owner_kind"`
	OwnerID        string          `db:"owner_id"`
	Kind           string          `db:"kind"`
	CurrencyCode   string          `db:"currency_code"`
	Balance        decimal.Decimal `db:"balance"`
	Status         string          `db:"status"`
	SecretCodeHash string          `db:"secret_code_hash"`
	BlockReason    string          `db:"block_reason"` // Nullable
	DeletedAt      *time.Time      `db:"deleted_at"`   // Nullable soft delete marker
	AuditFields
}
