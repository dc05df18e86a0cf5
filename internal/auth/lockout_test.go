package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryGuardLocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	g := NewMemoryGuard(3, 15*time.Minute)
	g.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if err := g.Fail(ctx, "alice"); err != nil {
			t.Fatalf("fail %d: %v", i, err)
		}
		if err := g.Check(ctx, "alice"); err != nil {
			t.Fatalf("check after %d failures: %v", i+1, err)
		}
	}
	if err := g.Fail(ctx, "alice"); !errors.Is(err, ErrLockedOut) {
		t.Fatalf("expected locked_out on third failure, got %v", err)
	}

	now = now.Add(10 * time.Minute)
	var locked *LockedOutError
	if err := g.Check(ctx, "alice"); !errors.As(err, &locked) {
		t.Fatalf("expected lockout, got %v", err)
	}
	if locked.RetryAfter != 5*time.Minute {
		t.Fatalf("expected 5m left, got %s", locked.RetryAfter)
	}
	if err := g.Check(ctx, "bob"); err != nil {
		t.Fatalf("other users unaffected, got %v", err)
	}

	now = now.Add(5 * time.Minute)
	if err := g.Check(ctx, "alice"); err != nil {
		t.Fatalf("expected lockout to expire, got %v", err)
	}
}

func TestMemoryGuardReset(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGuard(2, time.Minute)
	_ = g.Fail(ctx, "alice")
	if err := g.Reset(ctx, "alice"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := g.Fail(ctx, "alice"); err != nil {
		t.Fatalf("counter should restart after reset, got %v", err)
	}
}
