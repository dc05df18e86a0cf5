package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"roulette-ledger/internal/auth"
	"roulette-ledger/internal/config"
	httptransport "roulette-ledger/internal/transport/http"
)

func TestOpenStoreDrivers(t *testing.T) {
	ctx := context.Background()

	st, err := openStore(ctx, config.ServerConfig{StorageDriver: "memory"})
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	st.Close()

	st, err = openStore(ctx, config.ServerConfig{StorageDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "ledger.db")})
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	if err := st.Ping(ctx); err != nil {
		t.Fatalf("sqlite ping: %v", err)
	}
	st.Close()

	if _, err := openStore(ctx, config.ServerConfig{StorageDriver: "mongo"}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestNewGuardWithoutRedisUsesMemory(t *testing.T) {
	guard, closeGuard, err := newGuard(context.Background(), config.ServerConfig{LoginMaxAttempts: 3, LoginLockout: time.Minute})
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	defer closeGuard()
	if _, ok := guard.(*auth.MemoryGuard); !ok {
		t.Fatalf("expected memory guard, got %T", guard)
	}
}

func TestNewServiceRejectsBadStartingBalance(t *testing.T) {
	st, _ := openStore(context.Background(), config.ServerConfig{StorageDriver: "memory"})
	for _, raw := range []string{"abc", "-1"} {
		if _, err := newService(st, config.ServerConfig{StartingBalance: raw}); !errors.Is(err, config.ErrInvalidConfig) {
			t.Fatalf("starting balance %q: expected invalid_config, got %v", raw, err)
		}
	}
}

func TestServerWiringServesHealth(t *testing.T) {
	cfg := config.ServerConfig{StorageDriver: "memory", StartingBalance: "25", LoginMaxAttempts: 3, LoginLockout: time.Minute}
	st, err := openStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc, err := newService(st, cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	guard, closeGuard, _ := newGuard(context.Background(), cfg)
	defer closeGuard()
	r := httptransport.NewRouter(st, svc, auth.NewTokens("secret", time.Hour), guard)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected /healthz 200, got %d", w.Code)
	}
}
