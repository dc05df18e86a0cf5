package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest magnitude a balance or a single delta may hold. It matches the
// NUMERIC(18,2) columns of the PostgreSQL schema and stays inside int64 cents for sqlite.
var MaxAmount = decimal.RequireFromString("9999999999999999.99")

// InRange reports whether |d| fits in the storage columns.
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// ValidateNewAccount applies the checks every backend shares before inserting an account.
func ValidateNewAccount(in NewAccount) error {
	if strings.TrimSpace(in.Username) == "" || in.CredentialHash == "" || strings.TrimSpace(in.Profile.Email) == "" {
		return ErrInvalidProfile
	}
	if in.InitialBalance.IsNegative() {
		return ErrInvalidProfile
	}
	if !InRange(in.InitialBalance) {
		return ErrAmountOutOfRange
	}
	return nil
}

// Settle computes the balance after d is applied to balance. A delta fails only when the
// resulting balance would be negative or would not fit in MaxAmount.
func Settle(balance decimal.Decimal, d Delta) (decimal.Decimal, error) {
	if !InRange(d.Amount) {
		return balance, ErrAmountOutOfRange
	}
	next := balance.Add(d.Amount)
	if next.IsNegative() {
		return balance, &InsufficientFundsError{Attempted: d.Amount.Neg(), Balance: balance}
	}
	if !InRange(next) {
		return balance, ErrAmountOutOfRange
	}
	return next, nil
}

func ValidateDelta(d Delta) error {
	if !d.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
