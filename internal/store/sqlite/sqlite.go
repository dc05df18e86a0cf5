// Package sqlite is the embedded single-file ledger backend.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"roulette-ledger/internal/ledger"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schemaDDL string

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

// Store keeps every account in one sqlite file. A single open connection serializes
// writers, which is what gives ApplyDelta its per-account atomicity.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ledger.Store = (*Store)(nil)

// Open creates or opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	st := New(db)
	if err := st.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

// New wraps an already opened handle without touching the schema.
func New(db *sql.DB) *Store {
	db.SetMaxOpenConns(1)
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return ledger.Unavailable(err)
	}
	return nil
}

func (s *Store) Close() {
	_ = s.db.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrUnknownAccount
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return ledger.ErrDuplicateAccount
		case sqlite3.ErrConstraintForeignKey:
			return ledger.ErrUnknownAccount
		case sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: %v", ledger.ErrInsufficientFunds, err)
		}
		return fmt.Errorf("sqlite constraint %d: %w", sqErr.ExtendedCode, err)
	}
	return ledger.Unavailable(err)
}

// toCents assumes d already passed ledger.InRange; MaxAmount in cents fits in int64.
func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}
