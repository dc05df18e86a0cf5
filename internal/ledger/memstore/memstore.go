// Package memstore is an in-process ledger.Store. Each account carries its own mutex so
// deltas against one username are serialized while different accounts proceed in parallel.
package memstore

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"roulette-ledger/internal/ledger"

	"github.com/shopspring/decimal"
)

type entry struct {
	mu      sync.Mutex
	account ledger.Account
	txs     []ledger.Transaction
}

type Store struct {
	mu       sync.RWMutex
	accounts map[string]*entry
	now      func() time.Time
}

func New() *Store {
	return &Store{accounts: make(map[string]*entry), now: time.Now}
}

// WithClock replaces the timestamp source; tests use it to produce tied timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) lookup(username string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.accounts[username]
	s.mu.RUnlock()
	if !ok {
		return nil, ledger.ErrUnknownAccount
	}
	return e, nil
}

func (s *Store) CreateAccount(_ context.Context, in ledger.NewAccount) (*ledger.Account, error) {
	if err := ledger.ValidateNewAccount(in); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[in.Username]; exists {
		return nil, ledger.ErrDuplicateAccount
	}
	e := &entry{account: ledger.Account{
		Username:       in.Username,
		CredentialHash: in.CredentialHash,
		Profile:        in.Profile,
		Balance:        in.InitialBalance,
		CreatedAt:      s.now().UTC(),
	}}
	s.accounts[in.Username] = e
	acct := e.account
	return &acct, nil
}

func (s *Store) ApplyDelta(_ context.Context, d ledger.Delta) (*ledger.Transaction, error) {
	if err := ledger.ValidateDelta(d); err != nil {
		return nil, err
	}
	e, err := s.lookup(d.Username)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := ledger.Settle(e.account.Balance, d)
	if err != nil {
		return nil, err
	}
	tx := ledger.Transaction{
		ID:           ledger.NewID(),
		Username:     d.Username,
		Amount:       d.Amount,
		Category:     d.Category,
		BalanceAfter: next,
		CreatedAt:    s.now().UTC(),
	}
	e.txs = append(e.txs, tx)
	e.account.Balance = next
	return &tx, nil
}

func (s *Store) GetBalance(_ context.Context, username string) (decimal.Decimal, error) {
	e, err := s.lookup(username)
	if err != nil {
		return decimal.Zero, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.account.Balance, nil
}

func (s *Store) GetAccount(_ context.Context, username string) (*ledger.Account, error) {
	e, err := s.lookup(username)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	acct := e.account
	return &acct, nil
}

func (s *Store) ListTransactions(_ context.Context, username string) (iter.Seq[ledger.Transaction], error) {
	e, err := s.lookup(username)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	snapshot := slices.Clone(e.txs)
	e.mu.Unlock()
	return slices.Values(snapshot), nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() {}
