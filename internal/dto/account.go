package dto

import (
	"time"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account,
// optionally funded by an initial deposit.
type CreateAccountRequest struct {
	Kind           domain.AccountKind `json:"kind" binding:"required,account_kind"`
	CurrencyCode   string             `json:"currency" binding:"required,currency_code"`
	InitialBalance decimal.Decimal    `json:"initial_balance"` // Optional, must be >= 0
	// SecretCode is the four digit code the owner will present to
	// authorize debits from the account. Stored hashed, never returned.
	SecretCode string `json:"secret_code" binding:"required,len=4,numeric"`
	// OwnerClientID lets an administrator open an account on behalf of a
	// client. Ignored for non-admin callers.
	OwnerClientID string `json:"owner_client_id,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"id"`
	AccountNumber string               `json:"account_number"`
	Owner         domain.OwnerRef      `json:"owner"`
	Kind          domain.AccountKind   `json:"kind"`
	CurrencyCode  string               `json:"currency"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.AccountStatus `json:"status"`
	BlockReason   string               `json:"block_reason,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		Owner:         acc.Owner,
		Kind:          acc.Kind,
		CurrencyCode:  acc.CurrencyCode,
		Balance:       acc.Balance,
		Status:        acc.Status,
		BlockReason:   acc.BlockReason,
		CreatedAt:     acc.CreatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// CreatedAccountResponse pairs a freshly opened account with its initial
// deposit transaction, when one was recorded.
type CreatedAccountResponse struct {
	Account            AccountResponse      `json:"account"`
	InitialTransaction *TransactionResponse `json:"initial_transaction,omitempty"`
}

// BalanceResponse is the payload of the balance endpoint.
type BalanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// BlockAccountRequest carries the optional reason for blocking an account.
type BlockAccountRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// ReconcileResponse reports a balance integrity audit for one account.
type ReconcileResponse struct {
	AccountID string          `json:"account_id"`
	Stored    decimal.Decimal `json:"stored_balance"`
	Derived   decimal.Decimal `json:"derived_balance"`
	Match     bool            `json:"match"`
}
