package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix      = "faucet:claim:"
	retryInterval  = 100 * time.Millisecond
	releaseTimeout = 5 * time.Second
)

// Redis serializes holders of the same key across faucet instances sharing one Redis.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis builds a Redis locker. ttl must outlive the longest claim, see service.Config.MaxClaimDuration.
func NewRedis(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}
	return &Redis{
		client: redislock.New(client),
		ttl:    ttl,
		logger: logger.Named("redisLock"),
	}, nil
}

// Lock obtains the key, retrying until ctx is done or the ttl elapses.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	l, err := r.client.Obtain(ctx, lockKey(key), r.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(retryInterval),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("lock %s not obtained: %w", key, err)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := l.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			r.logger.Warn("failed to release redis lock", zap.String("key", key), zap.Error(err))
		} else if errors.Is(err, redislock.ErrLockNotHeld) {
			r.logger.Warn("redis lock expired before release", zap.String("key", key), zap.Duration("ttl", r.ttl))
		}
	}, nil
}

func lockKey(key string) string {
	return keyPrefix + key
}
