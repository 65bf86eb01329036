package service

import (
	"context"
	"time"
)

// retryRead retries an idempotent read. Transfers must never go through here.
func retryRead[T any](
	ctx context.Context,
	sleep func(context.Context, time.Duration) error,
	attempts int,
	backoff time.Duration,
	read func(context.Context) (T, error),
) (T, error) {
	var (
		res T
		err error
	)
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if sleepErr := sleep(ctx, backoff*time.Duration(i)); sleepErr != nil {
				return res, err
			}
		}
		res, err = read(ctx)
		if err == nil || ctx.Err() != nil {
			return res, err
		}
	}
	return res, err
}

// withAttemptTimeout gives every call of read its own deadline. A zero timeout returns read unchanged.
func withAttemptTimeout[T any](timeout time.Duration, read func(context.Context) (T, error)) func(context.Context) (T, error) {
	if timeout <= 0 {
		return read
	}
	return func(ctx context.Context) (T, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return read(ctx)
	}
}
