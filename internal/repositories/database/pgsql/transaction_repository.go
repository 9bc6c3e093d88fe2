package pgsql

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
	portsrepo "github.com/fasopay/fasopay_backend/internal/core/ports/repositories"
	"github.com/fasopay/fasopay_backend/internal/models"
)

type PgxTransactionRepository struct {
	db DBTX
}

// newPgxTransactionRepository creates a new repository for ledger records
// bound to a pool or to an open transaction.
func newPgxTransactionRepository(db DBTX) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{db: db}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepository
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		Reference:         d.Reference,
		Type:              string(d.Type),
		Amount:            d.Amount,
		CurrencyCode:      d.CurrencyCode,
		SenderAccountID:   d.SenderAccountID,
		ReceiverAccountID: d.ReceiverAccountID,
		Fee:               d.Fee,
		Status:            string(d.Status),
		ExecutedAt:        d.ExecutedAt,
		Memo:              d.Memo,
		DeletedAt:         d.DeletedAt,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		Reference:         m.Reference,
		Type:              domain.TransactionType(m.Type),
		Amount:            m.Amount,
		CurrencyCode:      m.CurrencyCode,
		SenderAccountID:   m.SenderAccountID,
		ReceiverAccountID: m.ReceiverAccountID,
		Fee:               m.Fee,
		Status:            domain.TransactionStatus(m.Status),
		ExecutedAt:        m.ExecutedAt,
		Memo:              m.Memo,
		DeletedAt:         m.DeletedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const transactionColumns = `transaction_id, reference, type, amount, currency_code, sender_account_id, receiver_account_id, fee, status, executed_at, memo, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row interface{ Scan(dest ...any) error }) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Reference,
		&m.Type,
		&m.Amount,
		&m.CurrencyCode,
		&m.SenderAccountID,
		&m.ReceiverAccountID,
		&m.Fee,
		&m.Status,
		&m.ExecutedAt,
		&m.Memo,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	txn := toDomainTransaction(m)
	return &txn, nil
}

// SaveTransaction inserts a ledger record. Records are append-only; no
// update path exists in this repository.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := toModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.Exec(ctx, query,
		m.TransactionID,
		m.Reference,
		m.Type,
		m.Amount,
		m.CurrencyCode,
		m.SenderAccountID,
		m.ReceiverAccountID,
		m.Fee,
		m.Status,
		m.ExecutedAt,
		m.Memo,
		m.DeletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// FindTransactionByReference retrieves a transaction by its unique
// human-presentable reference.
func (r *PgxTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1 AND deleted_at IS NULL`
	return scanTransaction(r.db.QueryRow(ctx, query, reference))
}

// ListTransactionsByAccount returns transactions where the account is
// sender or receiver, newest first, plus the total count of matching rows.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, page int, pageSize int) ([]domain.Transaction, int64, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM transactions
		WHERE (sender_account_id = $1 OR receiver_account_id = $1) AND deleted_at IS NULL
	`
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (sender_account_id = $1 OR receiver_account_id = $1) AND deleted_at IS NULL
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $2 OFFSET $3
	`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(ctx, query, accountID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, total, nil
}

// SumCompletedByAccount recomputes the signed balance contribution of all
// completed, non-deleted transactions for an account. Credits count the
// amount; debits count amount plus fee.
func (r *PgxTransactionRepository) SumCompletedByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN receiver_account_id = $1 THEN amount
				WHEN sender_account_id = $1 THEN -(amount + fee)
				ELSE 0
			END
		), 0)
		FROM transactions
		WHERE (sender_account_id = $1 OR receiver_account_id = $1)
			AND status = $2 AND deleted_at IS NULL
	`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountID, string(domain.TxnCompleted)).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum completed transactions: %w", err)
	}
	return sum, nil
}
