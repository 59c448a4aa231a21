// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"math"
	"time"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext waits for the duration or returns early if the context is canceled.
// A non-positive duration returns immediately unless the context is already done.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExponentialBackoff returns base^attempt seconds, so attempt 0, 1, 2 with base 2
// yield 1s, 2s and 4s.
func ExponentialBackoff(base float64, attempt int) time.Duration {
	if base <= 0 || attempt < 0 {
		return 0
	}
	return time.Duration(math.Pow(base, float64(attempt)) * float64(time.Second))
}
