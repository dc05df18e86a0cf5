package store

import (
	"context"
	"iter"
	"slices"

	"roulette-ledger/internal/ledger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ApplyDelta locks the account row for the duration of the transaction, so concurrent
// deltas for one username serialize on the row lock.
func (s *Store) ApplyDelta(ctx context.Context, d ledger.Delta) (*ledger.Transaction, error) {
	if err := ledger.ValidateDelta(d); err != nil {
		return nil, err
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback(ctx)

	var raw string
	if err := tx.QueryRow(ctx, `SELECT balance::text FROM accounts WHERE username = $1 FOR UPDATE`, d.Username).Scan(&raw); err != nil {
		return nil, mapError(err)
	}
	bal, err := decimalVal(raw)
	if err != nil {
		return nil, err
	}
	next, err := ledger.Settle(bal, d)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1::numeric WHERE username = $2`, next.StringFixed(2), d.Username); err != nil {
		return nil, mapError(err)
	}
	out := ledger.Transaction{
		ID:           ledger.NewID(),
		Username:     d.Username,
		Amount:       d.Amount,
		Category:     d.Category,
		BalanceAfter: next,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (id, username, amount, category, balance_after)
		VALUES ($1, $2, $3::numeric, $4, $5::numeric)
		RETURNING created_at`,
		out.ID, d.Username, d.Amount.StringFixed(2), textParam(string(d.Category)), next.StringFixed(2),
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// ListTransactions reads the account row and its history in one repeatable-read
// transaction, so the returned records are a consistent snapshot.
func (s *Store) ListTransactions(ctx context.Context, username string) (iter.Seq[ledger.Transaction], error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists); err != nil {
		return nil, mapError(err)
	}
	if !exists {
		return nil, ledger.ErrUnknownAccount
	}
	rows, err := tx.Query(ctx, `
		SELECT id, username, amount::text, category, balance_after::text, created_at
		FROM transactions
		WHERE username = $1
		ORDER BY seq`, username)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var (
			t        ledger.Transaction
			amount   string
			balance  string
			category pgtype.Text
		)
		if err := rows.Scan(&t.ID, &t.Username, &amount, &category, &balance, &t.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		if t.Amount, err = decimalVal(amount); err != nil {
			return nil, err
		}
		if t.BalanceAfter, err = decimalVal(balance); err != nil {
			return nil, err
		}
		t.Category = ledger.Category(category.String)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return slices.Values(out), nil
}
