package services

import (
	"context"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
	"github.com/fasopay/fasopay_backend/internal/dto"
)

// LedgerSvcFacade is the ledger transaction engine: the only component
// allowed to mutate account balances, always inside one atomic unit of work.
type LedgerSvcFacade interface {
	// OpenAccountWithDeposit creates an account and, when initialBalance is
	// positive, records a completed deposit crediting it. Returns the
	// account and the initial transaction (nil when unfunded).
	OpenAccountWithDeposit(ctx context.Context, req dto.CreateAccountRequest, caller domain.OwnerRef) (*domain.Account, *domain.Transaction, error)

	// Transfer atomically moves funds between two same-currency accounts,
	// acquiring row locks in canonical order. On success it returns the
	// recorded transaction plus both refreshed balances; on any failure no
	// state changes and no ledger row is written.
	Transfer(ctx context.Context, req dto.TransferRequest, caller domain.OwnerRef) (*dto.TransferResult, error)

	// History lists transactions where the account is sender or receiver,
	// newest first, with the total count for pagination metadata.
	History(ctx context.Context, accountID string, page int, pageSize int, caller domain.OwnerRef) ([]domain.Transaction, int64, error)
}

// ServiceContainer groups the service facades handed to route registration.
type ServiceContainer struct {
	Account AccountSvcFacade
	Ledger  LedgerSvcFacade
}
