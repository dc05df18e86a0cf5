// Package account orchestrates the ledger store and the bet resolver: it is the entry point
// transports call for registration, bets, credit adjustments and history.
package account

import (
	"context"
	"errors"
	"slices"
	"strings"

	"roulette-ledger/internal/auth"
	"roulette-ledger/internal/history"
	"roulette-ledger/internal/ledger"
	"roulette-ledger/internal/roulette"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const birthDateLayout = "2006-01-02"

type Service struct {
	store          ledger.Store
	wheel          roulette.Wheel
	hashParams     auth.Argon2Params
	startingCredit decimal.Decimal
}

type Option func(*Service)

// WithHashParams overrides the argon2id cost used for new credentials.
func WithHashParams(p auth.Argon2Params) Option {
	return func(s *Service) { s.hashParams = p }
}

// WithStartingBalance credits every new account with amount at registration.
func WithStartingBalance(amount decimal.Decimal) Option {
	return func(s *Service) { s.startingCredit = amount }
}

func NewService(st ledger.Store, wheel roulette.Wheel, opts ...Option) *Service {
	s := &Service{store: st, wheel: wheel, hashParams: auth.DefaultArgon2Params}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*AccountView, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, ErrInvalidRequest
	}
	hash, err := auth.HashPassword(in.Password, s.hashParams)
	if err != nil {
		return nil, err
	}
	acct, err := s.store.CreateAccount(ctx, ledger.NewAccount{
		Username:       username,
		CredentialHash: hash,
		Profile: ledger.Profile{
			Email:     strings.TrimSpace(in.Email),
			Forename:  strings.TrimSpace(in.Forename),
			Surname:   strings.TrimSpace(in.Surname),
			BirthDate: in.BirthDate,
		},
		InitialBalance: s.startingCredit,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("username", username).Msg("account registered")
	return viewOf(acct), nil
}

// VerifyCredential reports whether password matches the stored credential. Attempt
// counting and lockout are left to the caller.
func (s *Service) VerifyCredential(ctx context.Context, username, password string) (bool, error) {
	acct, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return false, err
	}
	return auth.VerifyPassword(password, acct.CredentialHash)
}

func (s *Service) Account(ctx context.Context, username string) (*AccountView, error) {
	acct, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	return viewOf(acct), nil
}

func (s *Service) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	return s.store.GetBalance(ctx, username)
}

// PlaceBet validates the wager and choice, spins the wheel once and settles the bet in a
// single ledger delta. The wager must be covered by the balance at settlement time.
func (s *Service) PlaceBet(ctx context.Context, in PlaceBetInput) (*BetResult, error) {
	variant, err := roulette.ParseVariant(in.Variant)
	if err != nil {
		return nil, err
	}
	wager, err := roulette.ValidateWager(in.Wager)
	if err != nil {
		return nil, err
	}
	choice, err := roulette.ParseChoice(variant, in.Choice)
	if err != nil {
		return nil, err
	}

	bet := roulette.Bet{Variant: variant, Wager: wager, Choice: choice}
	outcome := s.wheel.Spin()
	settlement := roulette.Resolve(bet, outcome)

	tx, err := s.store.ApplyDelta(ctx, ledger.Delta{
		Username: in.Username,
		Amount:   settlement.Amount,
		Category: variant.Category(),
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			log.Debug().Str("username", in.Username).Str("wager", wager.String()).Msg("bet rejected: insufficient funds")
		}
		return nil, err
	}
	log.Info().
		Str("username", in.Username).
		Str("variant", string(variant)).
		Str("choice", choice.String()).
		Int("outcome", outcome).
		Bool("won", settlement.Won).
		Str("settlement", settlement.Amount.String()).
		Str("balance", tx.BalanceAfter.String()).
		Msg("bet settled")
	return &BetResult{
		Variant:     string(variant),
		Choice:      choice.String(),
		Wager:       wager,
		Outcome:     outcome,
		Won:         settlement.Won,
		Settlement:  settlement.Amount,
		Balance:     tx.BalanceAfter,
		Transaction: tx,
	}, nil
}

func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(raw))); d {
	case Deposit, Withdraw:
		return d, nil
	default:
		return "", ErrInvalidDirection
	}
}

// AdjustCredit records a manual deposit or withdrawal. A withdrawal larger than the balance
// fails with an InsufficientFundsError and changes nothing.
func (s *Service) AdjustCredit(ctx context.Context, in AdjustCreditInput) (*CreditResult, error) {
	amount, err := roulette.ValidateWager(in.Amount)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	delta := amount
	switch in.Direction {
	case Deposit:
	case Withdraw:
		delta = amount.Neg()
	default:
		return nil, ErrInvalidDirection
	}
	tx, err := s.store.ApplyDelta(ctx, ledger.Delta{Username: in.Username, Amount: delta})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("username", in.Username).
		Str("direction", string(in.Direction)).
		Str("amount", amount.String()).
		Str("balance", tx.BalanceAfter.String()).
		Msg("credit adjusted")
	return &CreditResult{Direction: in.Direction, Amount: amount, Balance: tx.BalanceAfter, Transaction: tx}, nil
}

// GetHistory reads one snapshot of the account's transactions, then filters and sorts it.
func (s *Service) GetHistory(ctx context.Context, username string, q HistoryQuery) (*HistoryResponse, error) {
	seq, err := s.store.ListTransactions(ctx, username)
	if err != nil {
		return nil, err
	}
	items := history.Filter(slices.Collect(seq), q.Filter)
	items = history.SortByAmount(items, q.Sort)
	return &HistoryResponse{Items: items, Total: len(items)}, nil
}

func viewOf(acct *ledger.Account) *AccountView {
	v := &AccountView{
		Username:  acct.Username,
		Email:     acct.Profile.Email,
		Forename:  acct.Profile.Forename,
		Surname:   acct.Profile.Surname,
		Balance:   acct.Balance,
		CreatedAt: acct.CreatedAt,
	}
	if !acct.Profile.BirthDate.IsZero() {
		v.BirthDate = acct.Profile.BirthDate.Format(birthDateLayout)
	}
	return v
}
