package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
)

func TestRedisGuard(t *testing.T) {
	ctx := context.Background()
	lockout := 15 * time.Minute
	key := failureKey("alice")

	t.Run("no counter", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		g := NewRedisGuard(rdb, 3, lockout)
		mock.ExpectGet(key).RedisNil()

		assert.NoError(t, g.Check(ctx, "alice"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first failure starts window", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		g := NewRedisGuard(rdb, 3, lockout)
		mock.ExpectIncr(key).SetVal(1)
		mock.ExpectExpire(key, lockout).SetVal(true)

		assert.NoError(t, g.Fail(ctx, "alice"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second failure keeps window", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		g := NewRedisGuard(rdb, 3, lockout)
		mock.ExpectIncr(key).SetVal(2)

		assert.NoError(t, g.Fail(ctx, "alice"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("third failure locks", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		g := NewRedisGuard(rdb, 3, lockout)
		mock.ExpectIncr(key).SetVal(3)
		mock.ExpectExpire(key, lockout).SetVal(true)

		err := g.Fail(ctx, "alice")
		assert.ErrorIs(t, err, ErrLockedOut)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("locked check reports ttl", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		g := NewRedisGuard(rdb, 3, lockout)
		mock.ExpectGet(key).SetVal("3")
		mock.ExpectTTL(key).SetVal(7 * time.Minute)

		err := g.Check(ctx, "alice")
		var locked *LockedOutError
		if assert.ErrorAs(t, err, &locked) {
			assert.Equal(t, 7*time.Minute, locked.RetryAfter)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reset deletes counter", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		g := NewRedisGuard(rdb, 3, lockout)
		mock.ExpectDel(key).SetVal(1)

		assert.NoError(t, g.Reset(ctx, "alice"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
