package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a ledger record.
// Rows are append-only from the engine's perspective; completed rows are
// never updated.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	Reference         string          `db:"reference"`
	Type              string          `db:"type"`
	Amount            decimal.Decimal `db:"amount"`
	CurrencyCode      string          `db:"currency_code"`
	SenderAccountID   *string         `db:"sender_account_id"`   // Nullable
	ReceiverAccountID *string         `db:"receiver_account_id"` // Nullable
	Fee               decimal.Decimal `db:"fee"`
	Status            string          `db:"status"`
	ExecutedAt        *time.Time      `db:"executed_at"` // Nullable
	Memo              string          `db:"memo"`        // Nullable
	DeletedAt         *time.Time      `db:"deleted_at"`  // Nullable
	AuditFields
}
