package store

import (
	"context"

	"roulette-ledger/internal/ledger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const accountColumns = `username, credential_hash, email, forename, surname, birth_date, balance::text, created_at`

func scanAccount(row pgx.Row) (*ledger.Account, error) {
	var (
		a       ledger.Account
		birth   pgtype.Date
		balance string
	)
	if err := row.Scan(&a.Username, &a.CredentialHash, &a.Profile.Email, &a.Profile.Forename, &a.Profile.Surname, &birth, &balance, &a.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	bal, err := decimalVal(balance)
	if err != nil {
		return nil, err
	}
	a.Profile.BirthDate = dateVal(birth)
	a.Balance = bal
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, in ledger.NewAccount) (*ledger.Account, error) {
	if err := ledger.ValidateNewAccount(in); err != nil {
		return nil, err
	}
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO accounts (username, credential_hash, email, forename, surname, birth_date, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric)
		RETURNING `+accountColumns,
		in.Username, in.CredentialHash, in.Profile.Email, in.Profile.Forename, in.Profile.Surname,
		dateParam(in.Profile.BirthDate), in.InitialBalance.StringFixed(2),
	)
	return scanAccount(row)
}

func (s *Store) GetAccount(ctx context.Context, username string) (*ledger.Account, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	return scanAccount(row)
}

func (s *Store) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	var balance string
	if err := s.Pool.QueryRow(ctx, `SELECT balance::text FROM accounts WHERE username = $1`, username).Scan(&balance); err != nil {
		return decimal.Zero, mapError(err)
	}
	return decimalVal(balance)
}
