package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// TransactionStatus is the lifecycle status of a transaction record.
// The ledger engine validates before persisting, so only COMPLETED rows are
// ever written for successful operations; failed attempts leave no row.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
	TxnCancelled TransactionStatus = "CANCELLED"
)

// Transaction is an immutable ledger record referencing zero, one or two
// accounts. Once status is COMPLETED no field may change; corrections require
// a new compensating transaction.
type Transaction struct {
	TransactionID     string            `json:"transactionID"` // Primary key (UUID)
	Reference         string            `json:"reference"`     // Unique, human-presentable, immutable
	Type              TransactionType   `json:"type"`
	Amount            decimal.Decimal   `json:"amount"` // Strictly positive, scale 2
	CurrencyCode      string            `json:"currencyCode"`
	SenderAccountID   *string           `json:"senderAccountID,omitempty"`   // Absent for pure deposits
	ReceiverAccountID *string           `json:"receiverAccountID,omitempty"` // Absent for pure withdrawals
	Fee               decimal.Decimal   `json:"fee"`                         // Reserved, zero from the engine
	Status            TransactionStatus `json:"status"`
	ExecutedAt        *time.Time        `json:"executedAt,omitempty"` // Set when status becomes COMPLETED
	Memo              string            `json:"memo,omitempty"`
	DeletedAt         *time.Time        `json:"deletedAt,omitempty"`
	AuditFields
}

// SignedAmountFor returns the effect of this transaction on the given
// account's balance: positive when the account receives, negative when it
// sends (fee included on the sending side). Zero for unrelated accounts or
// non-completed records.
func (t *Transaction) SignedAmountFor(accountID string) decimal.Decimal {
	if t.Status != TxnCompleted {
		return decimal.Zero
	}
	if t.ReceiverAccountID != nil && *t.ReceiverAccountID == accountID {
		return t.Amount
	}
	if t.SenderAccountID != nil && *t.SenderAccountID == accountID {
		return t.Amount.Add(t.Fee).Neg()
	}
	return decimal.Zero
}
