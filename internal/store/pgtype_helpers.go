package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"roulette-ledger/internal/ledger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"

	categoryCheck = "transactions_category_check"
)

// SQLSTATE classes that describe the server or the connection rather than the request.
var unavailableClasses = []string{
	"08", // connection exception
	"40", // transaction rollback
	"53", // insufficient resources
	"57", // operator intervention
	"58", // system error
}

// mapError turns driver errors into ledger errors.
//
// Server-reported errors with a ledger meaning map to the matching sentinel. Errors in the
// classes listed in unavailableClasses, and anything that is not a PgError at all, wrap
// ErrStorageUnavailable. Every other PgError is a fault in the query itself and comes back
// annotated with its SQLSTATE, matching no ledger sentinel.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.ErrUnknownAccount
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ledger.Unavailable(err)
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ledger.ErrDuplicateAccount
	case pgForeignKeyViolation:
		return ledger.ErrUnknownAccount
	case pgNumericOutOfRange:
		return ledger.ErrAmountOutOfRange
	case pgCheckViolation:
		if pgErr.ConstraintName == categoryCheck {
			return ledger.ErrInvalidCategory
		}
		return fmt.Errorf("%w: %s", ledger.ErrInsufficientFunds, pgErr.ConstraintName)
	}
	if slices.Contains(unavailableClasses, pgErr.Code[:min(2, len(pgErr.Code))]) {
		return ledger.Unavailable(err)
	}
	return fmt.Errorf("postgres %s: %w", pgErr.Code, err)
}

func textParam(v string) pgtype.Text {
	if v == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: v, Valid: true}
}

func dateParam(v time.Time) pgtype.Date {
	if v.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: v, Valid: true}
}

func dateVal(v pgtype.Date) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return v.Time
}

// Amounts travel as text to keep NUMERIC precision without a driver extension.
func decimalVal(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}
