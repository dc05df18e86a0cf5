package roulette

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolversAreTotal(t *testing.T) {
	wagers := []decimal.Decimal{
		decimal.NewFromInt(1),
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("12.50"),
	}
	bets := []Bet{
		{Variant: SingleNumber, Choice: Choice{Number: 7}},
		{Variant: SingleNumber, Choice: Choice{Number: 36}},
		{Variant: OddEven, Choice: Choice{Parity: Odd}},
		{Variant: OddEven, Choice: Choice{Parity: Even}},
		{Variant: HighLow, Choice: Choice{Half: Low}},
		{Variant: HighLow, Choice: Choice{Half: High}},
	}
	for _, wager := range wagers {
		for _, b := range bets {
			b.Wager = wager
			wins := 0
			for outcome := MinOutcome; outcome <= MaxOutcome; outcome++ {
				s := Resolve(b, outcome)
				win := wager.Mul(decimal.NewFromInt(b.Variant.Multiplier()))
				switch {
				case s.Won && s.Amount.Equal(win):
					wins++
				case !s.Won && s.Amount.Equal(wager.Neg()):
				default:
					t.Fatalf("%s %s outcome %d: unexpected settlement %+v", b.Variant, b.Choice, outcome, s)
				}
			}
			want := 18
			if b.Variant == SingleNumber {
				want = 1
			}
			if wins != want {
				t.Fatalf("%s %s: %d winning outcomes, want %d", b.Variant, b.Choice, wins, want)
			}
		}
	}
}

func TestResolveEdges(t *testing.T) {
	w := decimal.NewFromInt(10)
	if s := ResolveHighLow(w, Low, 18); !s.Won {
		t.Fatalf("18 should be low")
	}
	if s := ResolveHighLow(w, High, 19); !s.Won {
		t.Fatalf("19 should be high")
	}
	if s := ResolveOddEven(w, Odd, 1); !s.Won {
		t.Fatalf("1 should be odd")
	}
	if s := ResolveOddEven(w, Even, 36); !s.Won {
		t.Fatalf("36 should be even")
	}
	if s := ResolveSingleNumber(w, 7, 7); !s.Won || !s.Amount.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("single number hit should pay 360, got %+v", s)
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		variant Variant
		raw     string
		want    Choice
		err     error
	}{
		{SingleNumber, "7", Choice{Number: 7}, nil},
		{SingleNumber, " 36 ", Choice{Number: 36}, nil},
		{SingleNumber, "0", Choice{}, ErrInvalidChoice},
		{SingleNumber, "37", Choice{}, ErrInvalidChoice},
		{SingleNumber, "seven", Choice{}, ErrInvalidChoice},
		{OddEven, "ODD", Choice{Parity: Odd}, nil},
		{OddEven, "Even", Choice{Parity: Even}, nil},
		{OddEven, "evens", Choice{}, ErrInvalidChoice},
		{HighLow, "low", Choice{Half: Low}, nil},
		{HighLow, "HIGH", Choice{Half: High}, nil},
		{HighLow, "middle", Choice{}, ErrInvalidChoice},
		{Variant("keno"), "1", Choice{}, ErrInvalidVariant},
	}
	for _, tt := range tests {
		got, err := ParseChoice(tt.variant, tt.raw)
		if !errors.Is(err, tt.err) && !(err == nil && tt.err == nil) {
			t.Fatalf("ParseChoice(%s, %q) err = %v, want %v", tt.variant, tt.raw, err, tt.err)
		}
		if got != tt.want {
			t.Fatalf("ParseChoice(%s, %q) = %+v, want %+v", tt.variant, tt.raw, got, tt.want)
		}
	}
}

func TestParseVariant(t *testing.T) {
	for _, raw := range []string{"single-number", "Odd-Even", " high-low "} {
		if _, err := ParseVariant(raw); err != nil {
			t.Fatalf("ParseVariant(%q) error = %v", raw, err)
		}
	}
	if _, err := ParseVariant("single_num"); !errors.Is(err, ErrInvalidVariant) {
		t.Fatalf("expected invalid_variant, got %v", err)
	}
}

func TestValidateWager(t *testing.T) {
	valid := map[string]string{"10": "10", "0.01": "0.01", " 2.5 ": "2.5", "1.500": "1.5", "9999999999999999.99": "9999999999999999.99"}
	for raw, want := range valid {
		got, err := ValidateWager(raw)
		if err != nil {
			t.Fatalf("ValidateWager(%q) error = %v", raw, err)
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ValidateWager(%q) = %s, want %s", raw, got, want)
		}
	}
	for _, raw := range []string{"", "0", "-5", "abc", "1.005", "0.001", "10000000000000000", "200000000000000000"} {
		if _, err := ValidateWager(raw); !errors.Is(err, ErrInvalidWager) {
			t.Fatalf("ValidateWager(%q) expected invalid_wager, got %v", raw, err)
		}
	}
}

func TestRandomWheelStaysInRange(t *testing.T) {
	w := NewRandomWheel()
	seen := make(map[int]bool)
	for i := 0; i < 5000; i++ {
		n := w.Spin()
		if n < MinOutcome || n > MaxOutcome {
			t.Fatalf("spin out of range: %d", n)
		}
		seen[n] = true
	}
	if len(seen) != MaxOutcome {
		t.Fatalf("expected every outcome to appear, saw %d", len(seen))
	}
}

func TestFixedWheel(t *testing.T) {
	w := NewFixedWheel(3, 9)
	if a, b, c := w.Spin(), w.Spin(), w.Spin(); a != 3 || b != 9 || c != 9 {
		t.Fatalf("unexpected fixed sequence %d %d %d", a, b, c)
	}
	if w.Spins() != 3 {
		t.Fatalf("Spins() = %d, want 3", w.Spins())
	}
}
