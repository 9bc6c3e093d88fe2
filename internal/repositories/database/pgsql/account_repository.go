package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fasopay/fasopay_backend/internal/apperrors"
	"github.com/fasopay/fasopay_backend/internal/core/domain"
	portsrepo "github.com/fasopay/fasopay_backend/internal/core/ports/repositories"
	"github.com/fasopay/fasopay_backend/internal/models"
)

type PgxAccountRepository struct {
	db DBTX
}

// newPgxAccountRepository creates a new repository for account data bound
// to a pool or to an open transaction.
func newPgxAccountRepository(db DBTX) portsrepo.AccountRepository {
	return &PgxAccountRepository{db: db}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		AccountNumber:  d.AccountNumber,
		OwnerKind:      string(d.Owner.Kind),
		OwnerID:        d.Owner.ID,
		Kind:           string(d.Kind),
		CurrencyCode:   d.CurrencyCode,
		Balance:        d.Balance,
		Status:         string(d.Status),
		SecretCodeHash: d.SecretCodeHash,
		BlockReason:    d.BlockReason,
		DeletedAt:      d.DeletedAt,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		AccountNumber:  m.AccountNumber,
		Owner:          domain.OwnerRef{Kind: domain.OwnerKind(m.OwnerKind), ID: m.OwnerID},
		Kind:           domain.AccountKind(m.Kind),
		CurrencyCode:   m.CurrencyCode,
		Balance:        m.Balance,
		Status:         domain.AccountStatus(m.Status),
		SecretCodeHash: m.SecretCodeHash,
		BlockReason:    m.BlockReason,
		DeletedAt:      m.DeletedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const accountColumns = `account_id, account_number, owner_kind, owner_id, kind, currency_code, balance, status, secret_code_hash, block_reason, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.AccountNumber,
		&m.OwnerKind,
		&m.OwnerID,
		&m.Kind,
		&m.CurrencyCode,
		&m.Balance,
		&m.Status,
		&m.SecretCodeHash,
		&m.BlockReason,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// SaveAccount inserts a new account row.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.AccountNumber,
		m.OwnerKind,
		m.OwnerID,
		m.Kind,
		m.CurrencyCode,
		m.Balance,
		m.Status,
		m.SecretCodeHash,
		m.BlockReason,
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
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// FindAccountByID retrieves a live account by ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND deleted_at IS NULL`
	return scanAccount(r.db.QueryRow(ctx, query, accountID))
}

// FindAccountByIDForUpdate retrieves a live account acquiring an exclusive
// row lock. Must run inside a transaction; the lock is held until commit
// or rollback.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND deleted_at IS NULL FOR UPDATE`
	return scanAccount(r.db.QueryRow(ctx, query, accountID))
}

// ListAccountsByOwner retrieves all live accounts for an owning identity,
// newest first.
func (r *PgxAccountRepository) ListAccountsByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_kind = $1 AND owner_id = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, string(owner.Kind), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by owner: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ApplyBalanceDelta adjusts the maintained balance by a signed amount. The
// WHERE guard rejects any mutation that would drive the balance negative;
// zero affected rows on a live account is an invariant violation because
// the service layer already verified funds under the row lock.
func (r *PgxAccountRepository) ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND deleted_at IS NULL AND balance + $2 >= 0
	`
	tag, err := r.db.Exec(ctx, query, accountID, delta, now, userID)
	if err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance delta %s on account %s affected no rows: %w",
			delta.StringFixed(2), accountID, apperrors.ErrInvariantViolation)
	}
	return nil
}

// SetAccountStatus performs an administrative status change. Updating to
// the current status is a no-op success, which makes block and unblock
// idempotent.
func (r *PgxAccountRepository) SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, reason string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2, block_reason = $3, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, accountID, string(status), reason, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteAccount marks an account as logically deleted. The row is kept
// for audit and referential integrity of historical transactions.
func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to soft delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
