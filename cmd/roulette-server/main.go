package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"roulette-ledger/internal/app/account"
	"roulette-ledger/internal/auth"
	"roulette-ledger/internal/config"
	"roulette-ledger/internal/ledger"
	"roulette-ledger/internal/ledger/memstore"
	"roulette-ledger/internal/logging"
	"roulette-ledger/internal/roulette"
	"roulette-ledger/internal/store"
	"roulette-ledger/internal/store/sqlite"
	httptransport "roulette-ledger/internal/transport/http"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Server.StorageDriver).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	guard, closeGuard, err := newGuard(ctx, cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("login guard init failed")
	}
	defer closeGuard()

	svc, err := newService(st, cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("account service init failed")
	}
	tokens := auth.NewTokens(cfg.Server.JWTSecret, cfg.Server.JWTTTL)
	r := httptransport.NewRouter(st, svc, tokens, guard)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", cfg.Server.HTTPAddr).Str("driver", cfg.Server.StorageDriver).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		return
	}
	log.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg config.ServerConfig) (ledger.Store, error) {
	switch cfg.StorageDriver {
	case "postgres":
		return store.New(cfg.PostgresDSN)
	case "sqlite":
		return sqlite.Open(ctx, cfg.SQLitePath)
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown STORAGE_DRIVER %q", config.ErrInvalidConfig, cfg.StorageDriver)
	}
}

// newGuard keeps login counters in redis when REDIS_ADDR is set so several server
// instances share one lockout.
func newGuard(ctx context.Context, cfg config.ServerConfig) (auth.Guard, func(), error) {
	if cfg.RedisAddr == "" {
		return auth.NewMemoryGuard(cfg.LoginMaxAttempts, cfg.LoginLockout), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("login guard using redis")
	return auth.NewRedisGuard(rdb, cfg.LoginMaxAttempts, cfg.LoginLockout), func() { _ = rdb.Close() }, nil
}

func newService(st ledger.Store, cfg config.ServerConfig) (*account.Service, error) {
	starting, err := decimal.NewFromString(cfg.StartingBalance)
	if err != nil || starting.IsNegative() {
		return nil, fmt.Errorf("%w: STARTING_BALANCE %q", config.ErrInvalidConfig, cfg.StartingBalance)
	}
	return account.NewService(st, roulette.NewRandomWheel(), account.WithStartingBalance(starting)), nil
}
