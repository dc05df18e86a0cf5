package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"roulette-ledger/internal/ledger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ledger.ErrUnknownAccount},
		{"unique", &pgconn.PgError{Code: "23505"}, ledger.ErrDuplicateAccount},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ledger.ErrUnknownAccount},
		{"numeric overflow", &pgconn.PgError{Code: "22003"}, ledger.ErrAmountOutOfRange},
		{"balance check", &pgconn.PgError{Code: "23514", ConstraintName: "accounts_balance_check"}, ledger.ErrInsufficientFunds},
		{"category check", &pgconn.PgError{Code: "23514", ConstraintName: "transactions_category_check"}, ledger.ErrInvalidCategory},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, ledger.ErrStorageUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, ledger.ErrStorageUnavailable},
		{"dial failure", errors.New("connection refused"), ledger.ErrStorageUnavailable},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), context.Canceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapError(tc.in); !errors.Is(got, tc.want) {
				t.Fatalf("mapError(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMapErrorKeepsQueryFaults(t *testing.T) {
	in := &pgconn.PgError{Code: "42703", Message: "column does not exist"}
	got := mapError(in)
	var pgErr *pgconn.PgError
	if !errors.As(got, &pgErr) || pgErr.Code != "42703" {
		t.Fatalf("expected the PgError to stay reachable, got %v", got)
	}
	for _, sentinel := range []error{ledger.ErrStorageUnavailable, ledger.ErrInsufficientFunds, ledger.ErrUnknownAccount} {
		if errors.Is(got, sentinel) {
			t.Fatalf("query fault should not match %v", sentinel)
		}
	}
}
