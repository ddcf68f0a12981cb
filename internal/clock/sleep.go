// Package clock wraps the time primitives the sampling loop depends on so
// tests can replace them.
package clock

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// NowFunc reports the current time.
type NowFunc func() time.Time

// Sleep waits for d and returns ctx.Err() if the context ends first.
// A non-positive d only checks the context.
func Sleep(ctx context.Context, d time.Duration) error {
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

// UTCNow returns the current wall clock time in UTC.
func UTCNow() time.Time {
	return time.Now().UTC()
}
