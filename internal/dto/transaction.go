package dto

import (
	"time"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest defines the data needed to move funds between two
// same-currency accounts.
type TransferRequest struct {
	SenderAccountID   string          `json:"sender_account_id" binding:"required,uuid"`
	ReceiverAccountID string          `json:"receiver_account_id" binding:"required,uuid"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode      string          `json:"currency" binding:"required,currency_code"`
	// SecretCode authorizes the debit. Required for account owners,
	// ignored for administrator calls.
	SecretCode string `json:"secret_code,omitempty"`
	Memo       string `json:"memo" binding:"max=255"`
}

// TransactionResponse defines the data returned for a ledger record.
type TransactionResponse struct {
	TransactionID     string                   `json:"id"`
	Reference         string                   `json:"reference"`
	Type              domain.TransactionType   `json:"type"`
	Amount            decimal.Decimal          `json:"amount"`
	CurrencyCode      string                   `json:"currency"`
	SenderAccountID   *string                  `json:"sender_account_id,omitempty"`
	ReceiverAccountID *string                  `json:"receiver_account_id,omitempty"`
	Fee               decimal.Decimal          `json:"fee"`
	Status            domain.TransactionStatus `json:"status"`
	ExecutedAt        *time.Time               `json:"executed_at,omitempty"`
	Memo              string                   `json:"memo,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		Reference:         txn.Reference,
		Type:              txn.Type,
		Amount:            txn.Amount,
		CurrencyCode:      txn.CurrencyCode,
		SenderAccountID:   txn.SenderAccountID,
		ReceiverAccountID: txn.ReceiverAccountID,
		Fee:               txn.Fee,
		Status:            txn.Status,
		ExecutedAt:        txn.ExecutedAt,
		Memo:              txn.Memo,
		CreatedAt:         txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// TransferResult is the ledger engine's output for a committed transfer:
// the recorded transaction plus both refreshed balances.
type TransferResult struct {
	Transaction     domain.Transaction
	SenderBalance   decimal.Decimal
	ReceiverBalance decimal.Decimal
}

// TransferResponse is the transport shape of a committed transfer.
type TransferResponse struct {
	Transaction        TransactionResponse `json:"transaction"`
	NewSenderBalance   decimal.Decimal     `json:"new_sender_balance"`
	NewReceiverBalance decimal.Decimal     `json:"new_receiver_balance"`
}

// ToTransferResponse converts an engine TransferResult.
func ToTransferResponse(res *TransferResult) TransferResponse {
	return TransferResponse{
		Transaction:        ToTransactionResponse(&res.Transaction),
		NewSenderBalance:   res.SenderBalance,
		NewReceiverBalance: res.ReceiverBalance,
	}
}

// HistoryParams are the query parameters of the history endpoint.
type HistoryParams struct {
	Page    int `form:"page,default=1"`
	PerPage int `form:"per_page,default=10"`
}
