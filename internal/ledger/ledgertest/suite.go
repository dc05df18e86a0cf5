// Package ledgertest holds the behaviour every ledger.Store backend must share.
package ledgertest

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"roulette-ledger/internal/ledger"

	"github.com/shopspring/decimal"
)

// Factory returns an empty store. The suite closes it when each subtest ends.
type Factory func(t *testing.T) ledger.Store

func Run(t *testing.T, open Factory) {
	cases := []struct {
		name string
		fn   func(*testing.T, ledger.Store)
	}{
		{"CreateAccountRejectsDuplicateAndNegative", testCreateAccount},
		{"UnknownAccount", testUnknownAccount},
		{"BalanceEqualsInitialPlusCommittedDeltas", testBalanceInvariant},
		{"RejectedDeltaLeavesStateUntouched", testRejectedDelta},
		{"WinningDeltaMayExceedPriorBalance", testWinAboveBalance},
		{"AmountsStayWithinStorageRange", testAmountCap},
		{"InvalidCategoryRejected", testInvalidCategory},
		{"ListTransactionsSnapshotIsRestartable", testSnapshot},
		{"ConcurrentDeltasDoNotLoseUpdates", testConcurrentDeltas},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := open(t)
			defer st.Close()
			tc.fn(t, st)
		})
	}
}

func MustAccount(t *testing.T, st ledger.Store, username string, initial int64) {
	t.Helper()
	_, err := st.CreateAccount(context.Background(), ledger.NewAccount{
		Username:       username,
		CredentialHash: "hash",
		Profile:        ledger.Profile{Email: username + "@example.com"},
		InitialBalance: decimal.NewFromInt(initial),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
}

func Collect(t *testing.T, st ledger.Store, username string) []ledger.Transaction {
	t.Helper()
	seq, err := st.ListTransactions(context.Background(), username)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	return slices.Collect(seq)
}

func apply(t *testing.T, st ledger.Store, username string, amount int64) {
	t.Helper()
	if _, err := st.ApplyDelta(context.Background(), ledger.Delta{Username: username, Amount: decimal.NewFromInt(amount)}); err != nil {
		t.Fatalf("apply %d: %v", amount, err)
	}
}

func testCreateAccount(t *testing.T, st ledger.Store) {
	ctx := context.Background()
	MustAccount(t, st, "alice", 0)

	_, err := st.CreateAccount(ctx, ledger.NewAccount{
		Username: "alice", CredentialHash: "h", Profile: ledger.Profile{Email: "a@b.c"},
	})
	if !errors.Is(err, ledger.ErrDuplicateAccount) {
		t.Fatalf("expected duplicate_account, got %v", err)
	}
	_, err = st.CreateAccount(ctx, ledger.NewAccount{
		Username: "bob", CredentialHash: "h", Profile: ledger.Profile{Email: "b@b.c"},
		InitialBalance: decimal.NewFromInt(-1),
	})
	if !errors.Is(err, ledger.ErrInvalidProfile) {
		t.Fatalf("expected invalid_profile, got %v", err)
	}
	acct, err := st.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if acct.Profile.Email != "alice@example.com" || acct.CredentialHash != "hash" || !acct.Balance.IsZero() {
		t.Fatalf("unexpected account %+v", acct)
	}
}

func testUnknownAccount(t *testing.T, st ledger.Store) {
	ctx := context.Background()
	if _, err := st.ApplyDelta(ctx, ledger.Delta{Username: "ghost", Amount: decimal.NewFromInt(5)}); !errors.Is(err, ledger.ErrUnknownAccount) {
		t.Fatalf("apply delta: expected unknown_account, got %v", err)
	}
	if _, err := st.GetBalance(ctx, "ghost"); !errors.Is(err, ledger.ErrUnknownAccount) {
		t.Fatalf("get balance: expected unknown_account, got %v", err)
	}
	if _, err := st.GetAccount(ctx, "ghost"); !errors.Is(err, ledger.ErrUnknownAccount) {
		t.Fatalf("get account: expected unknown_account, got %v", err)
	}
	if _, err := st.ListTransactions(ctx, "ghost"); !errors.Is(err, ledger.ErrUnknownAccount) {
		t.Fatalf("list transactions: expected unknown_account, got %v", err)
	}
}

func testBalanceInvariant(t *testing.T, st ledger.Store) {
	ctx := context.Background()
	MustAccount(t, st, "alice", 100)

	deltas := []string{"-30", "50.25", "-200", "-120.25", "10", "-10", "1000", "-1000"}
	want := decimal.NewFromInt(100)
	for _, raw := range deltas {
		amount := decimal.RequireFromString(raw)
		tx, err := st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: amount})
		if err == nil {
			want = want.Add(amount)
			if !tx.BalanceAfter.Equal(want) {
				t.Fatalf("balance_after = %s, want %s", tx.BalanceAfter, want)
			}
			if !tx.Amount.Equal(amount) || tx.ID == "" {
				t.Fatalf("unexpected transaction %+v", tx)
			}
		} else if !errors.Is(err, ledger.ErrInsufficientFunds) {
			t.Fatalf("unexpected error for delta %s: %v", raw, err)
		}
		bal, err := st.GetBalance(ctx, "alice")
		if err != nil {
			t.Fatalf("get balance: %v", err)
		}
		if !bal.Equal(want) {
			t.Fatalf("after delta %s balance = %s, want %s", raw, bal, want)
		}
		if bal.IsNegative() {
			t.Fatalf("balance went negative: %s", bal)
		}
	}
}

func testRejectedDelta(t *testing.T, st ledger.Store) {
	ctx := context.Background()
	MustAccount(t, st, "alice", 5)
	apply(t, st, "alice", 3)

	before, _ := st.GetAccount(ctx, "alice")
	beforeTxs := Collect(t, st, "alice")

	_, err := st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.NewFromInt(-9)})
	var insufficient *ledger.InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if !insufficient.Attempted.Equal(decimal.NewFromInt(9)) || !insufficient.Balance.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("unexpected error quantities: %+v", insufficient)
	}

	after, _ := st.GetAccount(ctx, "alice")
	afterTxs := Collect(t, st, "alice")
	if after.Balance.StringFixed(2) != before.Balance.StringFixed(2) {
		t.Fatalf("balance changed: %s -> %s", before.Balance, after.Balance)
	}
	if len(afterTxs) != len(beforeTxs) {
		t.Fatalf("transaction count changed: %d -> %d", len(beforeTxs), len(afterTxs))
	}
	for i := range beforeTxs {
		if beforeTxs[i].ID != afterTxs[i].ID || !beforeTxs[i].Amount.Equal(afterTxs[i].Amount) {
			t.Fatalf("transaction %d changed", i)
		}
	}
}

func testWinAboveBalance(t *testing.T, st ledger.Store) {
	ctx := context.Background()
	MustAccount(t, st, "alice", 5)

	// A winning settlement commits even when the wager exceeded the balance.
	tx, err := st.ApplyDelta(ctx, ledger.Delta{
		Username: "alice",
		Amount:   decimal.NewFromInt(20),
		Category: ledger.CategoryHighLow,
	})
	if err != nil {
		t.Fatalf("winning delta should commit: %v", err)
	}
	if tx.Category != ledger.CategoryHighLow || !tx.BalanceAfter.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	_, err = st.ApplyDelta(ctx, ledger.Delta{
		Username: "alice",
		Amount:   decimal.NewFromInt(-30),
		Category: ledger.CategoryHighLow,
	})
	var insufficient *ledger.InsufficientFundsError
	if !errors.As(err, &insufficient) || !insufficient.Attempted.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected losing delta rejection, got %v", err)
	}
	if n := len(Collect(t, st, "alice")); n != 1 {
		t.Fatalf("expected one transaction, got %d", n)
	}
}

func testAmountCap(t *testing.T, st ledger.Store) {
	ctx := context.Background()

	_, err := st.CreateAccount(ctx, ledger.NewAccount{
		Username:       "whale",
		CredentialHash: "hash",
		Profile:        ledger.Profile{Email: "whale@example.com"},
		InitialBalance: ledger.MaxAmount.Add(decimal.NewFromInt(1)),
	})
	if !errors.Is(err, ledger.ErrAmountOutOfRange) {
		t.Fatalf("expected amount_out_of_range for initial balance, got %v", err)
	}

	MustAccount(t, st, "alice", 5)
	_, err = st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.RequireFromString("200000000000000000")})
	if !errors.Is(err, ledger.ErrAmountOutOfRange) {
		t.Fatalf("expected amount_out_of_range for oversized delta, got %v", err)
	}

	top := ledger.MaxAmount.Sub(decimal.NewFromInt(5))
	tx, err := st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: top})
	if err != nil {
		t.Fatalf("delta up to the cap should commit: %v", err)
	}
	if !tx.BalanceAfter.Equal(ledger.MaxAmount) {
		t.Fatalf("balance after = %s, want %s", tx.BalanceAfter, ledger.MaxAmount)
	}

	_, err = st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.RequireFromString("0.01")})
	if !errors.Is(err, ledger.ErrAmountOutOfRange) {
		t.Fatalf("expected amount_out_of_range past the cap, got %v", err)
	}
	bal, err := st.GetBalance(ctx, "alice")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !bal.Equal(ledger.MaxAmount) {
		t.Fatalf("balance = %s, want %s", bal, ledger.MaxAmount)
	}
	if n := len(Collect(t, st, "alice")); n != 1 {
		t.Fatalf("expected one transaction, got %d", n)
	}
}

func testInvalidCategory(t *testing.T, st ledger.Store) {
	MustAccount(t, st, "alice", 5)
	_, err := st.ApplyDelta(context.Background(), ledger.Delta{Username: "alice", Amount: decimal.NewFromInt(1), Category: "keno"})
	if !errors.Is(err, ledger.ErrInvalidCategory) {
		t.Fatalf("expected invalid_category, got %v", err)
	}
}

func testSnapshot(t *testing.T, st ledger.Store) {
	ctx := context.Background()
	MustAccount(t, st, "alice", 0)
	for _, d := range []int64{10, 20, -5} {
		apply(t, st, "alice", d)
	}
	seq, err := st.ListTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	apply(t, st, "alice", 1)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("snapshot should hold 3 records, got %d and %d", len(first), len(second))
	}
	wantAmounts := []int64{10, 20, -5}
	for i, tx := range first {
		if !tx.Amount.Equal(decimal.NewFromInt(wantAmounts[i])) || tx.Username != "alice" {
			t.Fatalf("record %d = %+v, want amount %d", i, tx, wantAmounts[i])
		}
	}
	if n := len(Collect(t, st, "alice")); n != 4 {
		t.Fatalf("fresh listing should hold 4 records, got %d", n)
	}
}

func testConcurrentDeltas(t *testing.T, st ledger.Store) {
	ctx := context.Background()
	MustAccount(t, st, "alice", 0)
	MustAccount(t, st, "bob", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.NewFromInt(1)})
		}()
		go func() {
			defer wg.Done()
			_, _ = st.ApplyDelta(ctx, ledger.Delta{Username: "bob", Amount: decimal.NewFromInt(-30)})
		}()
	}
	wg.Wait()

	bal, _ := st.GetBalance(ctx, "alice")
	if !bal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("alice balance = %s, want 50", bal)
	}
	bobBal, _ := st.GetBalance(ctx, "bob")
	bobTxs := len(Collect(t, st, "bob"))
	if bobTxs != 33 || !bobBal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("bob: balance %s after %d debits, want 10 after 33", bobBal, bobTxs)
	}
}
