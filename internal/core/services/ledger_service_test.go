package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/fasopay/fasopay_backend/internal/apperrors"
	"github.com/fasopay/fasopay_backend/internal/core/domain"
	portsrepo "github.com/fasopay/fasopay_backend/internal/core/ports/repositories"
	portssvc "github.com/fasopay/fasopay_backend/internal/core/ports/services"
	"github.com/fasopay/fasopay_backend/internal/core/services"
	"github.com/fasopay/fasopay_backend/internal/dto"
	"github.com/fasopay/fasopay_backend/internal/utils/refgen"
)

const testSecretCode = "1234"

// testSecretHash is hashed once at min cost to keep the suite fast.
var testSecretHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(testSecretCode), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByIDForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Account, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, delta, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, reason string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, reason, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, page int, pageSize int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) SumCompletedByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// stubUnitOfWork hands the mocks out as transaction-bound repositories.
type stubUnitOfWork struct {
	accounts     portsrepo.AccountRepository
	transactions portsrepo.TransactionRepository
}

func (u *stubUnitOfWork) Accounts() portsrepo.AccountRepository {
	return u.accounts
}

func (u *stubUnitOfWork) Transactions() portsrepo.TransactionRepository {
	return u.transactions
}

// stubUoWManager runs the callback synchronously and counts invocations.
type stubUoWManager struct {
	uow     portsrepo.UnitOfWork
	entered int
}

func (m *stubUoWManager) WithinTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	m.entered++
	return fn(ctx, m.uow)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	uowm            *stubUoWManager
	service         portssvc.LedgerSvcFacade
	client          domain.OwnerRef
	admin           domain.OwnerRef
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.uowm = &stubUoWManager{uow: &stubUnitOfWork{
		accounts:     suite.mockAccountRepo,
		transactions: suite.mockTxnRepo,
	}}
	suite.service = services.NewLedgerService(suite.uowm, refgen.NewSequenceGenerator(1))
	suite.client = domain.OwnerRef{Kind: domain.OwnerClient, ID: uuid.NewString()}
	suite.admin = domain.OwnerRef{Kind: domain.OwnerAdmin, ID: uuid.NewString()}
}

func (suite *LedgerServiceTestSuite) activeAccount(id string, owner domain.OwnerRef, balance string) *domain.Account {
	return &domain.Account{
		AccountID:      id,
		AccountNumber:  "CPT-20260829-000001",
		Owner:          owner,
		Kind:           domain.Checking,
		CurrencyCode:   "XOF",
		Balance:        decimal.RequireFromString(balance),
		Status:         domain.AccountActive,
		SecretCodeHash: testSecretHash,
	}
}

// --- Open account ---

func (suite *LedgerServiceTestSuite) TestOpenAccount_SuccessWithoutDeposit() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Kind: domain.Checking, CurrencyCode: "XOF", SecretCode: testSecretCode}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, initialTxn, err := suite.service.OpenAccountWithDeposit(ctx, req, suite.client)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), initialTxn)
	assert.True(suite.T(), strings.HasPrefix(account.AccountNumber, "CPT-"))
	assert.Equal(suite.T(), suite.client, account.Owner)
	assert.Equal(suite.T(), domain.AccountActive, account.Status)
	assert.True(suite.T(), account.Balance.IsZero())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestOpenAccount_SuccessWithInitialDeposit() {
	ctx := context.Background()
	amount := decimal.RequireFromString("250.50")
	req := dto.CreateAccountRequest{Kind: domain.Savings, CurrencyCode: "XOF", InitialBalance: amount, SecretCode: testSecretCode}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.Deposit &&
			txn.Status == domain.TxnCompleted &&
			txn.SenderAccountID == nil &&
			txn.ReceiverAccountID != nil &&
			txn.Amount.Equal(amount) &&
			strings.HasPrefix(txn.Reference, "DEP-")
	})).Return(nil).Once()
	suite.mockAccountRepo.On("ApplyBalanceDelta", ctx, mock.AnythingOfType("string"), amount, suite.client.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	account, initialTxn, err := suite.service.OpenAccountWithDeposit(ctx, req, suite.client)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), initialTxn)
	assert.True(suite.T(), account.Balance.Equal(amount))
	assert.NotNil(suite.T(), initialTxn.ExecutedAt)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestOpenAccount_RetriesOnNumberCollision() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Kind: domain.Checking, CurrencyCode: "XOF", SecretCode: testSecretCode}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Twice()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, _, err := suite.service.OpenAccountWithDeposit(ctx, req, suite.client)

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), account.AccountNumber)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "SaveAccount", 3)
}

func (suite *LedgerServiceTestSuite) TestOpenAccount_FailsAfterExhaustedRetries() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Kind: domain.Checking, CurrencyCode: "XOF", SecretCode: testSecretCode}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate)

	_, _, err := suite.service.OpenAccountWithDeposit(ctx, req, suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "SaveAccount", 5)
}

func (suite *LedgerServiceTestSuite) TestOpenAccount_RejectsUnknownKind() {
	_, _, err := suite.service.OpenAccountWithDeposit(context.Background(), dto.CreateAccountRequest{
		Kind:         domain.AccountKind("OFFSHORE"),
		CurrencyCode: "XOF",
	}, suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	assert.Zero(suite.T(), suite.uowm.entered)
}

func (suite *LedgerServiceTestSuite) TestOpenAccount_RejectsNegativeInitialBalance() {
	_, _, err := suite.service.OpenAccountWithDeposit(context.Background(), dto.CreateAccountRequest{
		Kind:           domain.Checking,
		CurrencyCode:   "XOF",
		InitialBalance: decimal.RequireFromString("-1"),
	}, suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	assert.Zero(suite.T(), suite.uowm.entered)
}

func (suite *LedgerServiceTestSuite) TestOpenAccount_RejectsMalformedCurrency() {
	for _, currency := range []string{"", "XO", "xof", "FRANC"} {
		_, _, err := suite.service.OpenAccountWithDeposit(context.Background(), dto.CreateAccountRequest{
			Kind:         domain.Checking,
			CurrencyCode: currency,
		}, suite.client)
		assert.ErrorIs(suite.T(), err, apperrors.ErrValidation, "currency %q", currency)
	}
	assert.Zero(suite.T(), suite.uowm.entered)
}

func (suite *LedgerServiceTestSuite) TestOpenAccount_AdminOpensForClient() {
	ctx := context.Background()
	clientID := uuid.NewString()
	req := dto.CreateAccountRequest{Kind: domain.Enterprise, CurrencyCode: "XOF", SecretCode: testSecretCode, OwnerClientID: clientID}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Owner.Kind == domain.OwnerClient && acc.Owner.ID == clientID
	})).Return(nil).Once()

	account, _, err := suite.service.OpenAccountWithDeposit(ctx, req, suite.admin)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), clientID, account.Owner.ID)
	assert.Equal(suite.T(), suite.admin.ID, account.CreatedBy)
}

func (suite *LedgerServiceTestSuite) TestOpenAccount_AdminMustNameClient() {
	_, _, err := suite.service.OpenAccountWithDeposit(context.Background(), dto.CreateAccountRequest{
		Kind:         domain.Checking,
		CurrencyCode: "XOF",
	}, suite.admin)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

// --- Transfer ---

func (suite *LedgerServiceTestSuite) transferRequest(senderID, receiverID, amount string) dto.TransferRequest {
	return dto.TransferRequest{
		SenderAccountID:   senderID,
		ReceiverAccountID: receiverID,
		Amount:            decimal.RequireFromString(amount),
		CurrencyCode:      "XOF",
		SecretCode:        testSecretCode,
	}
}

func (suite *LedgerServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	sender := suite.activeAccount(senderID, suite.client, "100.00")
	receiver := suite.activeAccount(receiverID, domain.OwnerRef{Kind: domain.OwnerClient, ID: uuid.NewString()}, "20.00")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.Transfer &&
			txn.Status == domain.TxnCompleted &&
			*txn.SenderAccountID == senderID &&
			*txn.ReceiverAccountID == receiverID &&
			strings.HasPrefix(txn.Reference, "TRX-")
	})).Return(nil).Once()
	suite.mockAccountRepo.On("ApplyBalanceDelta", ctx, senderID, decimal.RequireFromString("-30"), suite.client.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountRepo.On("ApplyBalanceDelta", ctx, receiverID, decimal.RequireFromString("30"), suite.client.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "30"), suite.client)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.SenderBalance.Equal(decimal.RequireFromString("70")))
	assert.True(suite.T(), result.ReceiverBalance.Equal(decimal.RequireFromString("50")))
	assert.Equal(suite.T(), domain.TxnCompleted, result.Transaction.Status)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_LocksInAscendingIDOrder() {
	ctx := context.Background()
	// Sender sorts after receiver, so the receiver must be locked first.
	senderID := "ffffffff-0000-0000-0000-000000000009"
	receiverID := "00000000-0000-0000-0000-000000000001"
	sender := suite.activeAccount(senderID, suite.client, "100.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("ApplyBalanceDelta", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "10"), suite.client)
	assert.NoError(suite.T(), err)

	var lockedIDs []string
	for _, call := range suite.mockAccountRepo.Calls {
		if call.Method == "FindAccountByIDForUpdate" {
			lockedIDs = append(lockedIDs, call.Arguments.String(1))
		}
	}
	assert.Equal(suite.T(), []string{receiverID, senderID}, lockedIDs)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsSameAccount() {
	id := uuid.NewString()
	_, err := suite.service.Transfer(context.Background(), suite.transferRequest(id, id, "10"), suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	assert.Zero(suite.T(), suite.uowm.entered)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsNonPositiveAmount() {
	for _, amount := range []string{"0", "-5"} {
		_, err := suite.service.Transfer(context.Background(), suite.transferRequest(uuid.NewString(), uuid.NewString(), amount), suite.client)
		assert.ErrorIs(suite.T(), err, apperrors.ErrValidation, "amount %s", amount)
	}
	assert.Zero(suite.T(), suite.uowm.entered)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsSubCentPrecision() {
	_, err := suite.service.Transfer(context.Background(), suite.transferRequest(uuid.NewString(), uuid.NewString(), "10.001"), suite.client)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestTransfer_SenderNotFound() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "10"), suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_BlockedAccount() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	sender := suite.activeAccount(senderID, suite.client, "100.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")
	receiver.Status = domain.AccountBlocked

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()

	_, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "10"), suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrAccountBlocked)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "ApplyBalanceDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_CurrencyMismatch() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	sender := suite.activeAccount(senderID, suite.client, "100.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")
	receiver.CurrencyCode = "EUR"

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()

	_, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "10"), suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientFunds() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	sender := suite.activeAccount(senderID, suite.client, "25.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()

	_, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "30"), suite.client)

	ife, ok := apperrors.IsInsufficientFunds(err)
	assert.True(suite.T(), ok)
	assert.True(suite.T(), ife.Available.Equal(decimal.RequireFromString("25")))
	assert.True(suite.T(), ife.Requested.Equal(decimal.RequireFromString("30")))
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ForbiddenWhenCallerDoesNotOwnSender() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	otherClient := domain.OwnerRef{Kind: domain.OwnerClient, ID: uuid.NewString()}
	sender := suite.activeAccount(senderID, otherClient, "100.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()

	_, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "10"), suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsWrongSecretCode() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	sender := suite.activeAccount(senderID, suite.client, "100.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()

	req := suite.transferRequest(senderID, receiverID, "10")
	req.SecretCode = "9999"
	_, err := suite.service.Transfer(ctx, req, suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCode)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_AdminMayMoveAnyFunds() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	sender := suite.activeAccount(senderID, suite.client, "100.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("ApplyBalanceDelta", ctx, mock.Anything, mock.Anything, suite.admin.ID, mock.Anything).Return(nil).Twice()

	// Admins act without the owner's secret code.
	req := suite.transferRequest(senderID, receiverID, "10")
	req.SecretCode = ""
	_, err := suite.service.Transfer(ctx, req, suite.admin)

	assert.NoError(suite.T(), err)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RetriesOnReferenceCollision() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	sender := suite.activeAccount(senderID, suite.client, "100.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("ApplyBalanceDelta", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "10"), suite.client)

	assert.NoError(suite.T(), err)
	suite.mockTxnRepo.AssertNumberOfCalls(suite.T(), "SaveTransaction", 2)
}

func (suite *LedgerServiceTestSuite) TestTransfer_DeltaFailureAbortsUnitOfWork() {
	ctx := context.Background()
	senderID := "aaaaaaaa-0000-0000-0000-000000000001"
	receiverID := "bbbbbbbb-0000-0000-0000-000000000002"
	sender := suite.activeAccount(senderID, suite.client, "100.00")
	receiver := suite.activeAccount(receiverID, suite.client, "0.00")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, senderID).Return(sender, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, receiverID).Return(receiver, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("ApplyBalanceDelta", ctx, senderID, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrInvariantViolation).Once()

	result, err := suite.service.Transfer(ctx, suite.transferRequest(senderID, receiverID, "10"), suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvariantViolation)
	assert.Nil(suite.T(), result)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "ApplyBalanceDelta", ctx, receiverID, mock.Anything, mock.Anything, mock.Anything)
}

// --- History ---

func (suite *LedgerServiceTestSuite) TestHistory_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := suite.activeAccount(accountID, suite.client, "10.00")
	txns := []domain.Transaction{{TransactionID: uuid.NewString()}, {TransactionID: uuid.NewString()}}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByAccount", ctx, accountID, 2, 10).Return(txns, int64(12), nil).Once()

	got, total, err := suite.service.History(ctx, accountID, 2, 10, suite.client)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), got, 2)
	assert.Equal(suite.T(), int64(12), total)
}

func (suite *LedgerServiceTestSuite) TestHistory_ClampsPageSize() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := suite.activeAccount(accountID, suite.client, "10.00")

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByAccount", ctx, accountID, 1, 100).Return([]domain.Transaction{}, int64(0), nil).Once()

	_, _, err := suite.service.History(ctx, accountID, 0, 1000, suite.client)

	assert.NoError(suite.T(), err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestHistory_ForbiddenForNonOwner() {
	ctx := context.Background()
	accountID := uuid.NewString()
	otherClient := domain.OwnerRef{Kind: domain.OwnerClient, ID: uuid.NewString()}
	account := suite.activeAccount(accountID, otherClient, "10.00")

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	_, _, err := suite.service.History(ctx, accountID, 1, 10, suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestHistory_AccountNotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.History(ctx, accountID, 1, 10, suite.client)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
