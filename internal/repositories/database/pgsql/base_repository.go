package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fasopay/fasopay_backend/internal/apperrors"
)

// Postgres error codes mapped to the application error taxonomy.
const (
	pgCodeUniqueViolation = "23505"
	pgCodeCheckViolation  = "23514"
	pgCodeLockNotAvail    = "55P03"
)

// DBTX is the minimal query surface shared by *pgxpool.Pool and pgx.Tx.
// Repositories bind to it so the same implementation serves both direct
// pool access and unit-of-work-bound transactional access.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// mapPgError translates pgx and Postgres driver errors into the
// application error taxonomy. Unmapped errors pass through unchanged.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return apperrors.ErrDuplicate
		case pgCodeCheckViolation:
			return apperrors.ErrInvariantViolation
		case pgCodeLockNotAvail:
			return apperrors.ErrLockTimeout
		}
	}
	return err
}
