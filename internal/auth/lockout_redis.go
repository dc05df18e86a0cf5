package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const failureKeyPrefix = "roulette:login:fail:"

// RedisGuard shares failure counters between server instances. Counters are plain
// integer keys whose TTL is the remaining lockout window.
type RedisGuard struct {
	rdb         *redis.Client
	maxAttempts int
	lockout     time.Duration
}

func NewRedisGuard(rdb *redis.Client, maxAttempts int, lockout time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, maxAttempts: maxAttempts, lockout: lockout}
}

func failureKey(username string) string {
	return failureKeyPrefix + username
}

func (g *RedisGuard) Check(ctx context.Context, username string) error {
	key := failureKey(username)
	n, err := g.rdb.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if n < g.maxAttempts {
		return nil
	}
	ttl, err := g.rdb.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = g.lockout
	}
	return &LockedOutError{RetryAfter: ttl}
}

func (g *RedisGuard) Fail(ctx context.Context, username string) error {
	key := failureKey(username)
	n, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 || n >= int64(g.maxAttempts) {
		if err := g.rdb.Expire(ctx, key, g.lockout).Err(); err != nil {
			return err
		}
	}
	if n >= int64(g.maxAttempts) {
		return &LockedOutError{RetryAfter: g.lockout}
	}
	return nil
}

func (g *RedisGuard) Reset(ctx context.Context, username string) error {
	return g.rdb.Del(ctx, failureKey(username)).Err()
}
