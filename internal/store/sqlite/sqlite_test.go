package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"roulette-ledger/internal/ledger"
	"roulette-ledger/internal/ledger/ledgertest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) ledger.Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	return st
}

func TestStoreConformance(t *testing.T) {
	ledgertest.Run(t, openTemp)
}

func TestReopenKeepsLedger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	st, err := Open(ctx, path)
	require.NoError(t, err)
	birth := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	_, err = st.CreateAccount(ctx, ledger.NewAccount{
		Username:       "alice",
		CredentialHash: "hash",
		Profile:        ledger.Profile{Email: "alice@example.com", Forename: "Alice", BirthDate: birth},
	})
	require.NoError(t, err)
	_, err = st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.RequireFromString("12.34")})
	require.NoError(t, err)
	st.Close()

	st, err = Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	acc, err := st.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "12.34", acc.Balance.StringFixed(2))
	assert.True(t, acc.Profile.BirthDate.Equal(birth))
	assert.Equal(t, "Alice", acc.Profile.Forename)
	assert.Len(t, ledgertest.Collect(t, st, "alice"), 1)
}

func TestApplyDeltaWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	st := New(db)
	ctx := context.Background()

	t.Run("winning bet above balance commits", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance_cents FROM accounts WHERE username = ?`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(500))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET balance_cents = ? WHERE username = ?`)).
			WithArgs(int64(2500), "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "alice", int64(2000), sqlmock.AnyArg(), int64(2500), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := st.ApplyDelta(ctx, ledger.Delta{
			Username: "alice",
			Amount:   decimal.NewFromInt(20),
			Category: ledger.CategoryHighLow,
		})
		require.NoError(t, err)
		assert.Equal(t, "25.00", tx.BalanceAfter.StringFixed(2))
		assert.Equal(t, ledger.CategoryHighLow, tx.Category)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("oversized delta never reaches the driver", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance_cents FROM accounts WHERE username = ?`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(1500))
		mock.ExpectRollback()

		_, err := st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.RequireFromString("200000000000000000")})
		assert.ErrorIs(t, err, ledger.ErrAmountOutOfRange)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("check constraint is insufficient funds", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance_cents FROM accounts WHERE username = ?`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(1500))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET balance_cents = ? WHERE username = ?`)).
			WithArgs(int64(500), "alice").
			WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck})
		mock.ExpectRollback()

		_, err := st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.NewFromInt(-10)})
		assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
		assert.NotErrorIs(t, err, ledger.ErrStorageUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient funds rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance_cents FROM accounts WHERE username = ?`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(300))
		mock.ExpectRollback()

		_, err := st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.NewFromInt(-4)})
		var insufficient *ledger.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "4.00", insufficient.Attempted.StringFixed(2))
		assert.Equal(t, "3.00", insufficient.Balance.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance_cents FROM accounts WHERE username = ?`)).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}))
		mock.ExpectRollback()

		_, err := st.ApplyDelta(ctx, ledger.Delta{Username: "ghost", Amount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ledger.ErrUnknownAccount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure is unavailable", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("disk I/O error"))

		_, err := st.ApplyDelta(ctx, ledger.Delta{Username: "alice", Amount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ledger.ErrStorageUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBalanceWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	st := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance_cents FROM accounts WHERE username = ?`)).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(1999))

	bal, err := st.GetBalance(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "19.99", bal.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactionsWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	st := New(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Format(timeLayout)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM accounts WHERE username = ?`)).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, username, amount_cents, category, balance_after_cents, created_at").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "amount_cents", "category", "balance_after_cents", "created_at"}).
			AddRow("01A", "bob", 1000, nil, 1000, created).
			AddRow("01B", "bob", -200, "high-low", 800, created))
	mock.ExpectCommit()

	seq, err := st.ListTransactions(context.Background(), "bob")
	require.NoError(t, err)
	var got []ledger.Transaction
	for tx := range seq {
		got = append(got, tx)
	}
	require.Len(t, got, 2)
	assert.Equal(t, ledger.CategoryNone, got[0].Category)
	assert.Equal(t, ledger.CategoryHighLow, got[1].Category)
	assert.Equal(t, "-2.00", got[1].Amount.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCentsAtTheCap(t *testing.T) {
	assert.Equal(t, int64(999999999999999999), toCents(ledger.MaxAmount))
	assert.True(t, fromCents(toCents(ledger.MaxAmount)).Equal(ledger.MaxAmount))
}
