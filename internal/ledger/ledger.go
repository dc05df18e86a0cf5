// Package ledger defines the account ledger: accounts, immutable transactions and the
// store contract every persistence backend implements.
package ledger

import (
	"context"
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

// Category tags a transaction with the bet variant that produced it. The zero value marks a
// manual deposit or withdrawal.
type Category string

const (
	CategoryNone         Category = ""
	CategorySingleNumber Category = "single-number"
	CategoryOddEven      Category = "odd-even"
	CategoryHighLow      Category = "high-low"
)

func (c Category) IsBet() bool {
	return c != CategoryNone
}

func (c Category) Valid() bool {
	switch c {
	case CategoryNone, CategorySingleNumber, CategoryOddEven, CategoryHighLow:
		return true
	default:
		return false
	}
}

type Profile struct {
	Email     string    `json:"email"`
	Forename  string    `json:"forename"`
	Surname   string    `json:"surname"`
	BirthDate time.Time `json:"birth_date"`
}

type Account struct {
	Username       string
	CredentialHash string
	Profile        Profile
	Balance        decimal.Decimal
	CreatedAt      time.Time
}

type NewAccount struct {
	Username       string
	CredentialHash string
	Profile        Profile
	InitialBalance decimal.Decimal
}

// Transaction is one committed balance change. Amount is signed: credits are positive,
// debits negative.
type Transaction struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Amount       decimal.Decimal `json:"amount"`
	Category     Category        `json:"category,omitempty"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Delta is a request to move an account balance by Amount.
type Delta struct {
	Username string
	Amount   decimal.Decimal
	Category Category
}

// Store is the only writer of persisted ledger state. ApplyDelta is the consistency
// boundary: the balance update and the transaction append commit together or not at all,
// and calls for the same username never interleave.
type Store interface {
	CreateAccount(ctx context.Context, in NewAccount) (*Account, error)
	ApplyDelta(ctx context.Context, d Delta) (*Transaction, error)
	GetBalance(ctx context.Context, username string) (decimal.Decimal, error)
	GetAccount(ctx context.Context, username string) (*Account, error)
	// ListTransactions returns the account history in insertion order as of the call.
	// The sequence can be ranged any number of times and always yields the same records.
	ListTransactions(ctx context.Context, username string) (iter.Seq[Transaction], error)
	Ping(ctx context.Context) error
	Close()
}
