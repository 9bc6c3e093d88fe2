package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fasopay/fasopay_backend/internal/apperrors"
	"github.com/fasopay/fasopay_backend/internal/core/domain"
	portsrepo "github.com/fasopay/fasopay_backend/internal/core/ports/repositories"
	portssvc "github.com/fasopay/fasopay_backend/internal/core/ports/services"
	"github.com/fasopay/fasopay_backend/internal/dto"
)

// accountService covers account reads and administrative state changes.
// It never touches balances; that is the ledger engine's job.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	uowm        portsrepo.UnitOfWorkManager
	clock       func() time.Time
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// NewAccountService creates the account service.
func NewAccountService(accountRepo portsrepo.AccountRepository, uowm portsrepo.UnitOfWorkManager) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		uowm:        uowm,
		clock:       time.Now,
	}
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string, caller domain.OwnerRef) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeAccountAccess(ctx, caller, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, caller domain.OwnerRef) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByOwner(ctx, caller)
}

func (s *accountService) GetBalance(ctx context.Context, accountID string, caller domain.OwnerRef) (decimal.Decimal, string, error) {
	account, err := s.GetAccountByID(ctx, accountID, caller)
	if err != nil {
		return decimal.Zero, "", err
	}
	return account.Balance, account.CurrencyCode, nil
}

// BlockAccount transitions an account to BLOCKED. Blocking an already
// blocked account succeeds without change.
func (s *accountService) BlockAccount(ctx context.Context, accountID string, reason string, caller domain.OwnerRef) error {
	if !caller.IsAdmin() {
		return apperrors.ErrForbidden
	}
	if err := s.accountRepo.SetAccountStatus(ctx, accountID, domain.AccountBlocked, reason, caller.ID, s.clock()); err != nil {
		s.LogError(ctx, err, "Failed to block account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account blocked", slog.String("account_id", accountID), slog.String("reason", reason))
	return nil
}

// UnblockAccount transitions an account back to ACTIVE. Idempotent.
func (s *accountService) UnblockAccount(ctx context.Context, accountID string, caller domain.OwnerRef) error {
	if !caller.IsAdmin() {
		return apperrors.ErrForbidden
	}
	if err := s.accountRepo.SetAccountStatus(ctx, accountID, domain.AccountActive, "", caller.ID, s.clock()); err != nil {
		s.LogError(ctx, err, "Failed to unblock account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account unblocked", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) SoftDeleteAccount(ctx context.Context, accountID string, caller domain.OwnerRef) error {
	if !caller.IsAdmin() {
		return apperrors.ErrForbidden
	}
	if err := s.accountRepo.SoftDeleteAccount(ctx, accountID, caller.ID, s.clock()); err != nil {
		s.LogError(ctx, err, "Failed to soft delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account soft deleted", slog.String("account_id", accountID))
	return nil
}

// Reconcile recomputes the balance from the completed transaction history
// and compares it with the stored running balance. The account row is
// locked for the duration so the comparison sees a consistent snapshot.
func (s *accountService) Reconcile(ctx context.Context, accountID string, caller domain.OwnerRef) (*dto.ReconcileResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	var report *dto.ReconcileResponse
	err := s.uowm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		account, err := uow.Accounts().FindAccountByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		derived, err := uow.Transactions().SumCompletedByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		report = &dto.ReconcileResponse{
			AccountID: accountID,
			Stored:    account.Balance,
			Derived:   derived,
			Match:     account.Balance.Equal(derived),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !report.Match {
		s.LogError(ctx, apperrors.ErrInvariantViolation, "Balance reconciliation mismatch",
			slog.String("account_id", accountID),
			slog.String("stored", report.Stored.StringFixed(2)),
			slog.String("derived", report.Derived.StringFixed(2)))
	}
	return report, nil
}
