package account

import (
	"time"

	"roulette-ledger/internal/history"
	"roulette-ledger/internal/ledger"

	"github.com/shopspring/decimal"
)

type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	Forename  string
	Surname   string
	BirthDate time.Time
}

type AccountView struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Forename  string          `json:"forename"`
	Surname   string          `json:"surname"`
	BirthDate string          `json:"birth_date"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

type PlaceBetInput struct {
	Username string
	Variant  string
	Wager    string
	Choice   string
}

type BetResult struct {
	Variant     string              `json:"variant"`
	Choice      string              `json:"choice"`
	Wager       decimal.Decimal     `json:"wager"`
	Outcome     int                 `json:"outcome"`
	Won         bool                `json:"won"`
	Settlement  decimal.Decimal     `json:"settlement"`
	Balance     decimal.Decimal     `json:"balance"`
	Transaction *ledger.Transaction `json:"transaction"`
}

type Direction string

const (
	Deposit  Direction = "deposit"
	Withdraw Direction = "withdraw"
)

type AdjustCreditInput struct {
	Username  string
	Amount    string
	Direction Direction
}

type CreditResult struct {
	Direction   Direction           `json:"direction"`
	Amount      decimal.Decimal     `json:"amount"`
	Balance     decimal.Decimal     `json:"balance"`
	Transaction *ledger.Transaction `json:"transaction"`
}

// HistoryQuery selects and orders records. The zero value returns everything in
// insertion order.
type HistoryQuery struct {
	Filter history.Predicate
	Sort   history.Direction
}

type HistoryResponse struct {
	Items []ledger.Transaction `json:"items"`
	Total int                  `json:"total"`
}
