package store_test

import (
	"context"
	"errors"
	"testing"

	"roulette-ledger/internal/ledger"
	"roulette-ledger/internal/ledger/ledgertest"
	"roulette-ledger/internal/testutil"
)

func TestStoreBootstrapPing(t *testing.T) {
	st := testutil.OpenTestStore(t)
	if err := st.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestStoreConformance(t *testing.T) {
	ledgertest.Run(t, func(t *testing.T) ledger.Store {
		return testutil.OpenTestStore(t)
	})
}

func TestBalanceCheckConstraint(t *testing.T) {
	st := testutil.OpenTestStore(t)
	ctx := context.Background()
	ledgertest.MustAccount(t, st, "carol", 5)

	_, err := st.Pool.Exec(ctx, `UPDATE accounts SET balance = -1 WHERE username = 'carol'`)
	if err == nil {
		t.Fatalf("expected check constraint violation")
	}
	bal, err := st.GetBalance(ctx, "carol")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if bal.StringFixed(2) != "5.00" {
		t.Fatalf("expected 5.00, got %s", bal.StringFixed(2))
	}
}

func TestClosedPoolIsUnavailable(t *testing.T) {
	st := testutil.OpenTestStore(t)
	ctx := context.Background()
	ledgertest.MustAccount(t, st, "dave", 1)
	st.Close()

	if _, err := st.GetBalance(ctx, "dave"); !errors.Is(err, ledger.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}
