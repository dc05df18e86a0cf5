package sqlite

import (
	"context"
	"time"

	"roulette-ledger/internal/ledger"

	"github.com/shopspring/decimal"
)

const accountColumns = `username, credential_hash, email, forename, surname, birth_date, balance_cents, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*ledger.Account, error) {
	var (
		a       ledger.Account
		birth   string
		cents   int64
		created string
	)
	if err := row.Scan(&a.Username, &a.CredentialHash, &a.Profile.Email, &a.Profile.Forename, &a.Profile.Surname, &birth, &cents, &created); err != nil {
		return nil, mapError(err)
	}
	var err error
	if a.Profile.BirthDate, err = parseDate(birth); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, err
	}
	a.Balance = fromCents(cents)
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, in ledger.NewAccount) (*ledger.Account, error) {
	if err := ledger.ValidateNewAccount(in); err != nil {
		return nil, err
	}
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (username, credential_hash, email, forename, surname, birth_date, balance_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Username, in.CredentialHash, in.Profile.Email, in.Profile.Forename, in.Profile.Surname,
		formatDate(in.Profile.BirthDate), toCents(in.InitialBalance), now.Format(timeLayout),
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &ledger.Account{
		Username:       in.Username,
		CredentialHash: in.CredentialHash,
		Profile:        in.Profile,
		Balance:        fromCents(toCents(in.InitialBalance)),
		CreatedAt:      now,
	}, nil
}

func (s *Store) GetAccount(ctx context.Context, username string) (*ledger.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

func (s *Store) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	var cents int64
	if err := s.db.QueryRowContext(ctx, `SELECT balance_cents FROM accounts WHERE username = ?`, username).Scan(&cents); err != nil {
		return decimal.Zero, mapError(err)
	}
	return fromCents(cents), nil
}
