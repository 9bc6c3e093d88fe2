package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/fasopay/fasopay_backend/internal/core/ports/repositories"
)

// RepositoryProvider bundles the pool-bound repositories and the unit of
// work manager that produces transaction-bound ones.
type RepositoryProvider struct {
	AccountRepo     portsrepo.AccountRepository
	TransactionRepo portsrepo.TransactionRepository
	UnitOfWork      portsrepo.UnitOfWorkManager
}

// NewRepositoryProvider wires the Postgres repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeoutMS int) RepositoryProvider {
	return RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		UnitOfWork:      NewPgxUnitOfWorkManager(dbPool, lockTimeoutMS),
	}
}
