// Package roulette resolves wagers against a house outcome drawn from 1..36.
package roulette

import (
	"errors"
	"strconv"
	"strings"

	"roulette-ledger/internal/ledger"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidWager   = errors.New("invalid_wager")
	ErrInvalidChoice  = errors.New("invalid_choice")
	ErrInvalidVariant = errors.New("invalid_variant")
)

const (
	MinOutcome = 1
	MaxOutcome = 36
	// highLowSplit is the largest outcome that counts as low.
	highLowSplit = 18
)

type Variant string

const (
	SingleNumber Variant = "single-number"
	OddEven      Variant = "odd-even"
	HighLow      Variant = "high-low"
)

// Category is the ledger tag recorded for settlements of v.
func (v Variant) Category() ledger.Category {
	return ledger.Category(v)
}

// Multiplier is the payout factor applied to the wager on a win.
func (v Variant) Multiplier() int64 {
	if v == SingleNumber {
		return 36
	}
	return 2
}

func ParseVariant(raw string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(raw))); v {
	case SingleNumber, OddEven, HighLow:
		return v, nil
	default:
		return "", ErrInvalidVariant
	}
}

type Parity int

const (
	Odd Parity = iota + 1
	Even
)

type Half int

const (
	Low Half = iota + 1
	High
)

// Choice is a validated player pick. Exactly one field is meaningful, selected by the
// variant it was parsed for.
type Choice struct {
	Number int
	Parity Parity
	Half   Half
}

func (c Choice) String() string {
	switch {
	case c.Number != 0:
		return strconv.Itoa(c.Number)
	case c.Parity == Odd:
		return "odd"
	case c.Parity == Even:
		return "even"
	case c.Half == Low:
		return "low"
	case c.Half == High:
		return "high"
	default:
		return ""
	}
}

// ParseChoice checks raw against the choice domain of v.
func ParseChoice(v Variant, raw string) (Choice, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case SingleNumber:
		n, err := strconv.Atoi(s)
		if err != nil || n < MinOutcome || n > MaxOutcome {
			return Choice{}, ErrInvalidChoice
		}
		return Choice{Number: n}, nil
	case OddEven:
		switch s {
		case "odd":
			return Choice{Parity: Odd}, nil
		case "even":
			return Choice{Parity: Even}, nil
		}
		return Choice{}, ErrInvalidChoice
	case HighLow:
		switch s {
		case "low":
			return Choice{Half: Low}, nil
		case "high":
			return Choice{Half: High}, nil
		}
		return Choice{}, ErrInvalidChoice
	default:
		return Choice{}, ErrInvalidVariant
	}
}

// ValidateWager parses a stake. It must be a strictly positive amount with at most two
// fractional digits, no larger than ledger.MaxAmount.
func ValidateWager(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ErrInvalidWager
	}
	if !d.IsPositive() || !d.Equal(d.Round(2)) || d.GreaterThan(ledger.MaxAmount) {
		return decimal.Zero, ErrInvalidWager
	}
	return d.Round(2), nil
}
