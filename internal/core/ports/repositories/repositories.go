package repositories

import "context"

// UnitOfWork exposes repositories bound to one atomic, isolated unit of
// work. Every read and write performed through them commits or rolls back
// together; row locks taken via AccountLocker are held until the unit ends.
type UnitOfWork interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
}

// UnitOfWorkManager begins a durable transaction, runs fn inside it, commits
// when fn returns nil and rolls back on any error. It replaces ambient
// framework-managed transactions with an explicit contract, independent of
// the storage backend.
type UnitOfWorkManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
