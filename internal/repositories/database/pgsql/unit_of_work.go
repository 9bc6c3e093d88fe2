package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/fasopay/fasopay_backend/internal/core/ports/repositories"
)

// pgxUnitOfWork hands out repositories bound to one open transaction.
type pgxUnitOfWork struct {
	accounts     portsrepo.AccountRepository
	transactions portsrepo.TransactionRepository
}

func (u *pgxUnitOfWork) Accounts() portsrepo.AccountRepository {
	return u.accounts
}

func (u *pgxUnitOfWork) Transactions() portsrepo.TransactionRepository {
	return u.transactions
}

// PgxUnitOfWorkManager runs callbacks inside a Postgres transaction with a
// bounded row lock wait.
// txBeginner is the subset of pgxpool.Pool the manager needs to open
// transactions.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PgxUnitOfWorkManager struct {
	pool          txBeginner
	lockTimeoutMS int
}

var _ portsrepo.UnitOfWorkManager = (*PgxUnitOfWorkManager)(nil)

// NewPgxUnitOfWorkManager creates a unit of work manager. lockTimeoutMS
// bounds how long a FOR UPDATE inside the unit may wait for a row lock
// before failing with apperrors.ErrLockTimeout; zero disables the bound.
func NewPgxUnitOfWorkManager(pool *pgxpool.Pool, lockTimeoutMS int) *PgxUnitOfWorkManager {
	return &PgxUnitOfWorkManager{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// WithinTx begins a transaction, runs fn with transaction-bound
// repositories, commits when fn returns nil and rolls back otherwise.
func (m *PgxUnitOfWorkManager) WithinTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); !rollbackErrBenign(rbErr) {
			slog.Error("Failed to rollback transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if m.lockTimeoutMS > 0 {
		// SET LOCAL scopes the timeout to this transaction. The value
		// cannot be a bind parameter, so it is formatted from the trusted
		// config integer.
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeoutMS)); err != nil {
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	uow := &pgxUnitOfWork{
		accounts:     newPgxAccountRepository(tx),
		transactions: newPgxTransactionRepository(tx),
	}

	if err := fn(ctx, uow); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapPgError(err))
	}
	return nil
}

// rollbackErrBenign reports whether a deferred rollback failed for an
// expected reason. pgx returns ErrTxClosed once the transaction has been
// committed; the database/sql sentinel covers stdlib-driven transactions.
func rollbackErrBenign(err error) bool {
	return err == nil ||
		errors.Is(err, pgx.ErrTxClosed) ||
		errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, context.Canceled)
}
