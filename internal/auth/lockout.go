package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrLockedOut = errors.New("locked_out")

type LockedOutError struct {
	RetryAfter time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("locked_out: retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *LockedOutError) Unwrap() error {
	return ErrLockedOut
}

// Guard counts failed logins per username. Once MaxAttempts failures land inside the
// lockout window the username is refused until the window expires.
type Guard interface {
	Check(ctx context.Context, username string) error
	Fail(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

type attempts struct {
	count   int
	expires time.Time
}

type MemoryGuard struct {
	mu          sync.Mutex
	maxAttempts int
	lockout     time.Duration
	entries     map[string]*attempts
	now         func() time.Time
}

func NewMemoryGuard(maxAttempts int, lockout time.Duration) *MemoryGuard {
	return &MemoryGuard{
		maxAttempts: maxAttempts,
		lockout:     lockout,
		entries:     map[string]*attempts{},
		now:         time.Now,
	}
}

// current drops an expired entry. Caller holds g.mu.
func (g *MemoryGuard) current(username string) *attempts {
	a, ok := g.entries[username]
	if !ok {
		return nil
	}
	if !g.now().Before(a.expires) {
		delete(g.entries, username)
		return nil
	}
	return a
}

func (g *MemoryGuard) Check(_ context.Context, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.current(username)
	if a == nil || a.count < g.maxAttempts {
		return nil
	}
	return &LockedOutError{RetryAfter: a.expires.Sub(g.now())}
}

func (g *MemoryGuard) Fail(_ context.Context, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.current(username)
	if a == nil {
		a = &attempts{}
		g.entries[username] = a
	}
	a.count++
	if a.count == 1 || a.count >= g.maxAttempts {
		a.expires = g.now().Add(g.lockout)
	}
	if a.count >= g.maxAttempts {
		return &LockedOutError{RetryAfter: g.lockout}
	}
	return nil
}

func (g *MemoryGuard) Reset(_ context.Context, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, username)
	return nil
}
