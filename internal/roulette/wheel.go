package roulette

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"
)

// Wheel draws house outcomes, uniform over MinOutcome..MaxOutcome.
type Wheel interface {
	Spin() int
}

type RandomWheel struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomWheel() *RandomWheel {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(err)
	}
	return &RandomWheel{rng: rand.New(rand.NewChaCha8(seed))}
}

func (w *RandomWheel) Spin() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return MinOutcome + w.rng.IntN(MaxOutcome-MinOutcome+1)
}

// FixedWheel replays a scripted list of outcomes, repeating the last one once exhausted.
type FixedWheel struct {
	mu       sync.Mutex
	outcomes []int
	next     int
	spins    int
}

func NewFixedWheel(outcomes ...int) *FixedWheel {
	if len(outcomes) == 0 {
		outcomes = []int{MinOutcome}
	}
	return &FixedWheel{outcomes: outcomes}
}

func (w *FixedWheel) Spin() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.spins++
	v := w.outcomes[w.next]
	if w.next < len(w.outcomes)-1 {
		w.next++
	}
	return v
}

// Spins reports how many outcomes have been drawn.
func (w *FixedWheel) Spins() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spins
}
