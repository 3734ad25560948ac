package core

import (
	"context"
	"time"
)

// Clock abstracts backoff delays so retry behavior is testable with a fake
// timebase.
type Clock interface {
	// Sleep blocks for d or until ctx is cancelled, returning ctx.Err() in
	// the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SystemClock is the production clock backed by time.Timer.
var SystemClock Clock = systemClock{}

// ExponentialBackoff returns a backoff function that doubles the base delay
// on each completed attempt: base, 2*base, 4*base, ...
func ExponentialBackoff(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		return base << attempt
	}
}

// RetryPolicy describes how the invocation wrapper re-runs a fallible
// upstream call. Only retryable failures (see IsRetryable) consume additional
// attempts; any other error is returned immediately.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, the first included.
	MaxAttempts int
	// Backoff maps a zero-based completed-attempt index to the delay before
	// the next attempt.
	Backoff func(attempt int) time.Duration
	// Clock executes the backoff delays.
	Clock Clock
}

// DefaultRetryPolicy matches the handler execution contract: three attempts
// with delays of 1s then 2s between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff(time.Second),
		Clock:       SystemClock,
	}
}

// Do runs fn under the policy, returning the first terminal or final error,
// or nil once an attempt succeeds.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	clock := p.Clock
	if clock == nil {
		clock = SystemClock
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsRetryable(err) || attempt == attempts-1 {
			return err
		}
		if p.Backoff != nil {
			if serr := clock.Sleep(ctx, p.Backoff(attempt)); serr != nil {
				return serr
			}
		}
	}
	return err
}
