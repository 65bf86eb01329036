// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// NowFunc returns the current time. Components take one so tests can move time forward.
type NowFunc func() time.Time

// UTCNow is the production NowFunc.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
