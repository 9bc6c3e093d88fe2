package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fasopay/fasopay_backend/internal/apperrors"
	"github.com/fasopay/fasopay_backend/internal/core/domain"
	portsrepo "github.com/fasopay/fasopay_backend/internal/core/ports/repositories"
	portssvc "github.com/fasopay/fasopay_backend/internal/core/ports/services"
	"github.com/fasopay/fasopay_backend/internal/dto"
	"github.com/fasopay/fasopay_backend/internal/utils"
	"github.com/fasopay/fasopay_backend/internal/utils/refgen"
)

const (
	accountNumberPrefix = "CPT"
	transferRefPrefix   = "TRX"
	depositRefPrefix    = "DEP"

	// maxRefRetries bounds regeneration attempts after a unique collision
	// on a generated account number or transaction reference.
	maxRefRetries = 5
)

// ledgerService is the transaction engine. It is the only component that
// mutates account balances, and it does so exclusively inside a unit of
// work with exclusive row locks held on every touched account.
type ledgerService struct {
	BaseService
	uowm   portsrepo.UnitOfWorkManager
	refGen refgen.Generator
	clock  func() time.Time
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// NewLedgerService creates the ledger engine.
func NewLedgerService(uowm portsrepo.UnitOfWorkManager, refGen refgen.Generator) portssvc.LedgerSvcFacade {
	return &ledgerService{
		uowm:   uowm,
		refGen: refGen,
		clock:  time.Now,
	}
}

// OpenAccountWithDeposit creates an account and, when the request carries a
// positive initial balance, records a completed deposit crediting it. Both
// writes share one unit of work: a failed deposit leaves no account behind.
func (s *ledgerService) OpenAccountWithDeposit(ctx context.Context, req dto.CreateAccountRequest, caller domain.OwnerRef) (*domain.Account, *domain.Transaction, error) {
	if !domain.ValidAccountKind(req.Kind) {
		return nil, nil, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, req.Kind)
	}
	if err := validateCurrency(req.CurrencyCode); err != nil {
		return nil, nil, err
	}
	if req.InitialBalance.IsNegative() {
		return nil, nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrValidation)
	}
	if req.InitialBalance.Exponent() < -2 {
		return nil, nil, fmt.Errorf("%w: initial balance must have at most 2 decimal places", apperrors.ErrValidation)
	}

	owner, err := resolveOwner(req, caller)
	if err != nil {
		return nil, nil, err
	}

	secretHash, err := utils.HashSecretCode(req.SecretCode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash secret code: %w", err)
	}

	now := s.clock()
	var createdAccount *domain.Account
	var initialTxn *domain.Transaction

	err = s.uowm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		account := domain.Account{
			AccountID:      uuid.NewString(),
			Owner:          owner,
			Kind:           req.Kind,
			CurrencyCode:   req.CurrencyCode,
			Balance:        decimal.Zero,
			Status:         domain.AccountActive,
			SecretCodeHash: secretHash,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     caller.ID,
				LastUpdatedAt: now,
				LastUpdatedBy: caller.ID,
			},
		}

		if err := s.saveWithRefRetry(ctx, accountNumberPrefix, now, func(ref string) error {
			account.AccountNumber = ref
			return uow.Accounts().SaveAccount(ctx, account)
		}); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}

		if req.InitialBalance.IsPositive() {
			txn, err := s.recordCompleted(ctx, uow, domain.Transaction{
				TransactionID:     uuid.NewString(),
				Type:              domain.Deposit,
				Amount:            req.InitialBalance,
				CurrencyCode:      req.CurrencyCode,
				ReceiverAccountID: &account.AccountID,
				Fee:               decimal.Zero,
				Memo:              "Initial deposit",
			}, depositRefPrefix, caller.ID, now)
			if err != nil {
				return err
			}
			if err := uow.Accounts().ApplyBalanceDelta(ctx, account.AccountID, req.InitialBalance, caller.ID, now); err != nil {
				return fmt.Errorf("failed to credit initial deposit: %w", err)
			}
			account.Balance = req.InitialBalance
			initialTxn = txn
		}

		createdAccount = &account
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to open account", slog.String("owner_id", owner.ID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Account opened",
		slog.String("account_id", createdAccount.AccountID),
		slog.String("account_number", createdAccount.AccountNumber),
		slog.String("owner_id", owner.ID))
	return createdAccount, initialTxn, nil
}

// Transfer atomically moves funds between two same-currency accounts. Locks
// are acquired in ascending account ID order so two opposite transfers
// between the same pair can never deadlock. No ledger row is written for a
// failed attempt.
func (s *ledgerService) Transfer(ctx context.Context, req dto.TransferRequest, caller domain.OwnerRef) (*dto.TransferResult, error) {
	if req.SenderAccountID == req.ReceiverAccountID {
		return nil, fmt.Errorf("%w: sender and receiver accounts must differ", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.Amount.Exponent() < -2 {
		return nil, fmt.Errorf("%w: amount must have at most 2 decimal places", apperrors.ErrValidation)
	}
	if err := validateCurrency(req.CurrencyCode); err != nil {
		return nil, err
	}

	now := s.clock()
	var result *dto.TransferResult

	err := s.uowm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		sender, receiver, err := s.lockPair(ctx, uow, req.SenderAccountID, req.ReceiverAccountID)
		if err != nil {
			return err
		}

		if !caller.IsAdmin() {
			if !caller.Owns(sender) {
				return apperrors.ErrForbidden
			}
			if !utils.CheckSecretCodeHash(req.SecretCode, sender.SecretCodeHash) {
				return apperrors.ErrInvalidCode
			}
		}
		if !sender.IsActive() {
			return fmt.Errorf("sender account %s: %w", sender.AccountID, apperrors.ErrAccountBlocked)
		}
		if !receiver.IsActive() {
			return fmt.Errorf("receiver account %s: %w", receiver.AccountID, apperrors.ErrAccountBlocked)
		}
		if sender.CurrencyCode != receiver.CurrencyCode || sender.CurrencyCode != req.CurrencyCode {
			return fmt.Errorf("%w: currency mismatch between accounts and request", apperrors.ErrValidation)
		}

		fee := decimal.Zero
		debit := req.Amount.Add(fee)
		if sender.Balance.LessThan(debit) {
			return apperrors.NewInsufficientFundsError(sender.Balance, debit)
		}

		txn, err := s.recordCompleted(ctx, uow, domain.Transaction{
			TransactionID:     uuid.NewString(),
			Type:              domain.Transfer,
			Amount:            req.Amount,
			CurrencyCode:      req.CurrencyCode,
			SenderAccountID:   &sender.AccountID,
			ReceiverAccountID: &receiver.AccountID,
			Fee:               fee,
			Memo:              req.Memo,
		}, transferRefPrefix, caller.ID, now)
		if err != nil {
			return err
		}

		if err := uow.Accounts().ApplyBalanceDelta(ctx, sender.AccountID, debit.Neg(), caller.ID, now); err != nil {
			return fmt.Errorf("failed to debit sender: %w", err)
		}
		if err := uow.Accounts().ApplyBalanceDelta(ctx, receiver.AccountID, req.Amount, caller.ID, now); err != nil {
			return fmt.Errorf("failed to credit receiver: %w", err)
		}

		result = &dto.TransferResult{
			Transaction:     *txn,
			SenderBalance:   sender.Balance.Sub(debit),
			ReceiverBalance: receiver.Balance.Add(req.Amount),
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Transfer failed",
			slog.String("sender_account_id", req.SenderAccountID),
			slog.String("receiver_account_id", req.ReceiverAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("reference", result.Transaction.Reference),
		slog.String("sender_account_id", req.SenderAccountID),
		slog.String("receiver_account_id", req.ReceiverAccountID),
		slog.String("amount", req.Amount.StringFixed(2)))
	return result, nil
}

// History lists transactions where the account appears as sender or
// receiver, newest first. Non-admin callers may only read their own
// accounts.
func (s *ledgerService) History(ctx context.Context, accountID string, page int, pageSize int, caller domain.OwnerRef) ([]domain.Transaction, int64, error) {
	page, pageSize = dto.NormalizePage(page, pageSize)

	var txns []domain.Transaction
	var total int64

	err := s.uowm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		account, err := uow.Accounts().FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if err := s.AuthorizeAccountAccess(ctx, caller, account); err != nil {
			return err
		}
		txns, total, err = uow.Transactions().ListTransactionsByAccount(ctx, accountID, page, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// lockPair acquires exclusive row locks on both accounts in ascending
// account ID order, then returns them mapped back to sender and receiver.
func (s *ledgerService) lockPair(ctx context.Context, uow portsrepo.UnitOfWork, senderID, receiverID string) (sender, receiver *domain.Account, err error) {
	firstID, secondID := senderID, receiverID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := uow.Accounts().FindAccountByIDForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, fmt.Errorf("account %s: %w", firstID, err)
	}
	second, err := uow.Accounts().FindAccountByIDForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, fmt.Errorf("account %s: %w", secondID, err)
	}

	if first.AccountID == senderID {
		return first, second, nil
	}
	return second, first, nil
}

// recordCompleted persists a completed ledger row, regenerating the
// reference on a unique-constraint collision.
func (s *ledgerService) recordCompleted(ctx context.Context, uow portsrepo.UnitOfWork, txn domain.Transaction, refPrefix string, userID string, now time.Time) (*domain.Transaction, error) {
	txn.Status = domain.TxnCompleted
	txn.ExecutedAt = &now
	txn.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := s.saveWithRefRetry(ctx, refPrefix, now, func(ref string) error {
		txn.Reference = ref
		return uow.Transactions().SaveTransaction(ctx, txn)
	}); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return &txn, nil
}

// saveWithRefRetry generates a reference and invokes save, regenerating on
// ErrDuplicate up to maxRefRetries times.
func (s *ledgerService) saveWithRefRetry(ctx context.Context, prefix string, now time.Time, save func(ref string) error) error {
	var lastErr error
	for attempt := 0; attempt < maxRefRetries; attempt++ {
		ref, err := s.refGen.Generate(prefix, now)
		if err != nil {
			return err
		}
		err = save(ref)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
		s.LogDebug(ctx, "Reference collision, regenerating", slog.String("reference", ref))
		lastErr = err
	}
	return fmt.Errorf("exhausted reference generation attempts: %w", lastErr)
}

// resolveOwner determines who the new account belongs to. Clients always
// open accounts for themselves; admins must name the client.
func resolveOwner(req dto.CreateAccountRequest, caller domain.OwnerRef) (domain.OwnerRef, error) {
	if !caller.IsAdmin() {
		return caller, nil
	}
	if req.OwnerClientID == "" {
		return domain.OwnerRef{}, fmt.Errorf("%w: owner_client_id is required when an administrator opens an account", apperrors.ErrValidation)
	}
	return domain.OwnerRef{Kind: domain.OwnerClient, ID: req.OwnerClientID}, nil
}

// validateCurrency checks the ISO-4217 shape of a currency code.
func validateCurrency(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter ISO code", apperrors.ErrValidation)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: currency must be a 3-letter uppercase ISO code", apperrors.ErrValidation)
		}
	}
	return nil
}
