// Package lock guarantees at most one plan generation per user at a time.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrLockHeld = errors.New("plan generation already in progress for user")

type Locker interface {
	// Acquire returns a release func, or ErrLockHeld when another generation holds the lock.
	Acquire(ctx context.Context, userID string) (func(), error)
}

// NoopLocker is used when no redis address is configured.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

const releaseTimeout = 5 * time.Second

type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{client: client, ttl: ttl, prefix: "mealplanner:lock:", logger: logger}
}

func (l *RedisLocker) Acquire(ctx context.Context, userID string) (func(), error) {
	key := l.prefix + userID
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for %s: %w", userID, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return l.releaser(key, token), nil
}

// releaser logs a failed release; the key then lives until its ttl runs out.
func (l *RedisLocker) releaser(key, token string) func() {
	return func() {
		if err := l.release(key, token); err != nil {
			l.logger.Warn("lock release failed, key held until ttl expires",
				zap.String("key", key),
				zap.Duration("ttl", l.ttl),
				zap.Error(err))
		}
	}
}

func (l *RedisLocker) release(key, token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}
