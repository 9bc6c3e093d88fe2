package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind defines the product type of an account.
type AccountKind string

const (
	Checking   AccountKind = "CHECKING"
	Savings    AccountKind = "SAVINGS"
	Enterprise AccountKind = "ENTERPRISE"
	Joint      AccountKind = "JOINT"
)

// ValidAccountKind reports whether k is one of the recognised account kinds.
func ValidAccountKind(k AccountKind) bool {
	switch k {
	case Checking, Savings, Enterprise, Joint:
		return true
	}
	return false
}

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountBlocked   AccountStatus = "BLOCKED"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// ValidAccountStatus reports whether s is a recognised account status.
func ValidAccountStatus(s AccountStatus) bool {
	switch s {
	case AccountActive, AccountBlocked, AccountSuspended:
		return true
	}
	return false
}

// Account represents a monetary account within the ledger core.
// Balance is the maintained running balance; it equals the signed sum of all
// completed transactions referencing the account and must never go negative.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	AccountNumber string          `json:"accountNumber"` // Unique, human-presentable, never reused
	Owner         OwnerRef        `json:"owner"`         // Back-reference to the owning identity
	Kind          AccountKind     `json:"kind"`
	CurrencyCode  string          `json:"currencyCode"` // 3-letter code, immutable after creation
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	// SecretCodeHash is the bcrypt hash of the owner's debit authorization
	// code. Never serialized.
	SecretCodeHash string     `json:"-"`
	BlockReason    string     `json:"blockReason,omitempty"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"` // Soft delete marker
	AuditFields
}

// IsActive reports whether the account accepts debit/credit operations.
func (a *Account) IsActive() bool {
	return a.Status == AccountActive && a.DeletedAt == nil
}
