package history

import (
	"strings"

	"roulette-ledger/internal/ledger"
)

type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return Unsorted, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Unsorted, ErrInvalidSort
	}
}

// SortByAmount returns a copy of records ordered by Amount. Equal amounts keep their
// original relative order. Unsorted returns a plain copy.
func SortByAmount(records []ledger.Transaction, dir Direction) []ledger.Transaction {
	out := make([]ledger.Transaction, len(records))
	copy(out, records)
	if dir == Unsorted || len(out) < 2 {
		return out
	}
	// before reports whether b must be emitted ahead of a, where a precedes b in the input.
	before := func(b, a ledger.Transaction) bool {
		if dir == Descending {
			return b.Amount.GreaterThan(a.Amount)
		}
		return b.Amount.LessThan(a.Amount)
	}
	mergeSort(out, make([]ledger.Transaction, len(out)), before)
	return out
}

// mergeSort sorts s in place using buf, which must be at least as long as s.
func mergeSort(s, buf []ledger.Transaction, before func(b, a ledger.Transaction) bool) {
	if len(s) < 2 {
		return
	}
	mid := len(s) / 2
	mergeSort(s[:mid], buf[:mid], before)
	mergeSort(s[mid:], buf[mid:], before)

	copy(buf, s)
	left, right := buf[:mid], buf[mid:len(s)]
	i, x, y := 0, 0, 0
	for x < len(left) && y < len(right) {
		if before(right[y], left[x]) {
			s[i] = right[y]
			y++
		} else {
			s[i] = left[x]
			x++
		}
		i++
	}
	i += copy(s[i:], left[x:])
	copy(s[i:], right[y:])
}
