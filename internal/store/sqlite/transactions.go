package sqlite

import (
	"context"
	"database/sql"
	"iter"
	"slices"
	"time"

	"roulette-ledger/internal/ledger"
)

func (s *Store) ApplyDelta(ctx context.Context, d ledger.Delta) (*ledger.Transaction, error) {
	if err := ledger.ValidateDelta(d); err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback()

	var cents int64
	if err := tx.QueryRowContext(ctx, `SELECT balance_cents FROM accounts WHERE username = ?`, d.Username).Scan(&cents); err != nil {
		return nil, mapError(err)
	}
	next, err := ledger.Settle(fromCents(cents), d)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance_cents = ? WHERE username = ?`, toCents(next), d.Username); err != nil {
		return nil, mapError(err)
	}
	out := ledger.Transaction{
		ID:           ledger.NewID(),
		Username:     d.Username,
		Amount:       d.Amount,
		Category:     d.Category,
		BalanceAfter: next,
		CreatedAt:    s.now(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, username, amount_cents, category, balance_after_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		out.ID, d.Username, toCents(d.Amount), nullCategory(d.Category), toCents(next), out.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, mapError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (s *Store) ListTransactions(ctx context.Context, username string) (iter.Seq[ledger.Transaction], error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE username = ?`, username).Scan(&exists); err != nil {
		return nil, mapError(err)
	}
	if exists == 0 {
		return nil, ledger.ErrUnknownAccount
	}
	rows, err := tx.QueryContext(ctx, `
		SELECT id, username, amount_cents, category, balance_after_cents, created_at
		FROM transactions
		WHERE username = ?
		ORDER BY seq`, username)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var (
			t        ledger.Transaction
			amount   int64
			balance  int64
			category sql.NullString
			created  string
		)
		if err := rows.Scan(&t.ID, &t.Username, &amount, &category, &balance, &created); err != nil {
			return nil, mapError(err)
		}
		if t.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, err
		}
		t.Amount = fromCents(amount)
		t.BalanceAfter = fromCents(balance)
		t.Category = ledger.Category(category.String)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapError(err)
	}
	return slices.Values(out), nil
}

func nullCategory(c ledger.Category) sql.NullString {
	return sql.NullString{String: string(c), Valid: c != ledger.CategoryNone}
}
