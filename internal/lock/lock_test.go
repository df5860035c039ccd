package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoopLocker(t *testing.T) {
	var l Locker = NoopLocker{}

	release, err := l.Acquire(context.Background(), "u1")
	require.NoError(t, err)
	_, err = l.Acquire(context.Background(), "u1")
	assert.NoError(t, err)
	release()
}

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("MEALPLANNER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MEALPLANNER_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})
	t.Cleanup(func() { client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	return client
}

func TestRedisLockerExclusive(t *testing.T) {
	client := redisClient(t)
	l := NewRedisLocker(client, 5*time.Second, nil)
	ctx := context.Background()
	user := uuid.NewString()

	release, err := l.Acquire(ctx, user)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, user)
	assert.ErrorIs(t, err, ErrLockHeld)

	release()

	again, err := l.Acquire(ctx, user)
	require.NoError(t, err)
	again()
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	client := redisClient(t)
	l := NewRedisLocker(client, 5*time.Second, nil)
	ctx := context.Background()
	user := uuid.NewString()

	release, err := l.Acquire(ctx, user)
	require.NoError(t, err)

	// simulate expiry and takeover by another process
	require.NoError(t, client.Set(ctx, l.prefix+user, "someone-else", 5*time.Second).Err())
	release()

	val, err := client.Get(ctx, l.prefix+user).Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)
	client.Del(ctx, l.prefix+user)
}

func TestRedisLockerReleaseFailureIsLogged(t *testing.T) {
	// nothing listens on port 1, so every command fails fast
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	core, logs := observer.New(zap.WarnLevel)
	l := NewRedisLocker(client, time.Second, zap.New(core))

	err := l.release(l.prefix+"u1", "token")
	assert.ErrorContains(t, err, "failed to release lock mealplanner:lock:u1")

	_, err = l.Acquire(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockHeld)

	l.releaser(l.prefix+"u1", "token")()
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "lock release failed, key held until ttl expires", entry.Message)
	assert.Equal(t, "mealplanner:lock:u1", entry.ContextMap()["key"])
}
