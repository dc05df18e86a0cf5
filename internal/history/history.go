// Package history filters and orders transaction snapshots for display. It works only on
// records handed to it and never reads the ledger.
package history

import (
	"errors"
	"strings"

	"roulette-ledger/internal/ledger"
)

var (
	ErrInvalidFilter = errors.New("invalid_filter")
	ErrInvalidSort   = errors.New("invalid_sort")
)

type Predicate int

const (
	All Predicate = iota
	// CategoryPresent keeps bet settlements.
	CategoryPresent
	// CategoryAbsent keeps manual deposits and withdrawals.
	CategoryAbsent
)

func (p Predicate) match(tx ledger.Transaction) bool {
	switch p {
	case CategoryPresent:
		return tx.Category.IsBet()
	case CategoryAbsent:
		return !tx.Category.IsBet()
	default:
		return true
	}
}

// ParsePredicate maps the query values used by the transports. Empty means All.
func ParsePredicate(raw string) (Predicate, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return All, nil
	case "bets", "bet":
		return CategoryPresent, nil
	case "manual", "credits":
		return CategoryAbsent, nil
	default:
		return All, ErrInvalidFilter
	}
}

// Filter returns the records matching p in their original relative order.
func Filter(records []ledger.Transaction, p Predicate) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(records))
	for _, tx := range records {
		if p.match(tx) {
			out = append(out, tx)
		}
	}
	return out
}
