package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateAccount   = errors.New("duplicate_account")
	ErrUnknownAccount     = errors.New("unknown_account")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrInvalidProfile     = errors.New("invalid_profile")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrAmountOutOfRange   = errors.New("amount_out_of_range")
	ErrStorageUnavailable = errors.New("storage_unavailable")
)

// InsufficientFundsError carries the amount the caller tried to take and the balance at the
// time of the check.
type InsufficientFundsError struct {
	Attempted decimal.Decimal
	Balance   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: attempted %s, balance %s", ErrInsufficientFunds, e.Attempted.StringFixed(2), e.Balance.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// Unavailable wraps a backend failure so callers can match ErrStorageUnavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
