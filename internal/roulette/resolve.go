package roulette

import "github.com/shopspring/decimal"

// Bet is a validated wager ready to be resolved.
type Bet struct {
	Variant Variant
	Wager   decimal.Decimal
	Choice  Choice
}

// Settlement is the signed balance delta produced by one resolved bet.
type Settlement struct {
	Won    bool
	Amount decimal.Decimal
}

func settle(won bool, wager decimal.Decimal, multiplier int64) Settlement {
	if won {
		return Settlement{Won: true, Amount: wager.Mul(decimal.NewFromInt(multiplier))}
	}
	return Settlement{Amount: wager.Neg()}
}

func ResolveSingleNumber(wager decimal.Decimal, pick int, outcome int) Settlement {
	return settle(pick == outcome, wager, SingleNumber.Multiplier())
}

func ResolveOddEven(wager decimal.Decimal, pick Parity, outcome int) Settlement {
	landed := Even
	if outcome%2 != 0 {
		landed = Odd
	}
	return settle(pick == landed, wager, OddEven.Multiplier())
}

func ResolveHighLow(wager decimal.Decimal, pick Half, outcome int) Settlement {
	landed := High
	if outcome <= highLowSplit {
		landed = Low
	}
	return settle(pick == landed, wager, HighLow.Multiplier())
}

// Resolve dispatches b to the resolver of its variant.
func Resolve(b Bet, outcome int) Settlement {
	switch b.Variant {
	case SingleNumber:
		return ResolveSingleNumber(b.Wager, b.Choice.Number, outcome)
	case OddEven:
		return ResolveOddEven(b.Wager, b.Choice.Parity, outcome)
	default:
		return ResolveHighLow(b.Wager, b.Choice.Half, outcome)
	}
}
