package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found
// (including soft-deleted accounts and transactions).
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates a unique constraint collision, e.g. a generated
// account number or transaction reference that already exists. The ledger
// engine resolves these internally by regenerating; they are not surfaced.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation conflicts with the resource's state.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidCode indicates the debit authorization code presented for a
// transfer does not match the sender account's code.
var ErrInvalidCode = errors.New("invalid secret code")

// ErrAccountBlocked indicates a debit/credit was attempted on an account
// whose status is not ACTIVE.
var ErrAccountBlocked = errors.New("account is not active")

// ErrInvariantViolation indicates a balance mutation would break a ledger
// invariant (negative balance). It must never trigger when the lock
// discipline is followed and is logged as a severe internal fault.
var ErrInvariantViolation = errors.New("ledger invariant violation")

// ErrLockTimeout indicates a row lock could not be acquired within the
// configured bound.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// InsufficientFundsError is returned when a debit would exceed the sender's
// available balance. It carries both amounts for caller display.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

// NewInsufficientFundsError builds an InsufficientFundsError from the
// sender's available balance and the requested debit amount.
func NewInsufficientFundsError(available, requested decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{Available: available, Requested: requested}
}

// IsInsufficientFunds reports whether err is (or wraps) an
// InsufficientFundsError, returning the typed error when it is.
func IsInsufficientFunds(err error) (*InsufficientFundsError, bool) {
	var ife *InsufficientFundsError
	if errors.As(err, &ife) {
		return ife, true
	}
	return nil, false
}
