package core

import (
	"context"
	"errors"
)

// Upstream failure sentinels. Model adapters classify provider errors into
// these so the retry and fallback paths do not branch per vendor.
var (
	// ErrTimeout marks a transient upstream timeout. The only failure kind
	// the handler invocation wrapper retries.
	ErrTimeout = errors.New("upstream timeout")

	// ErrRateLimited marks an upstream rate or quota rejection.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrBudgetExceeded marks exhaustion of a per-invocation call budget.
	// Terminal for the call, never retried.
	ErrBudgetExceeded = errors.New("call budget exceeded")

	// ErrMalformedOutput marks model output that could not be parsed into
	// the expected shape.
	ErrMalformedOutput = errors.New("malformed model output")
)

// IsRetryable reports whether err is a timeout eligible for the retry
// sequence. All other failure kinds are terminal for the turn.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsTransient reports whether err is a transient upstream condition
// (timeout or rate limit) as opposed to a contract violation.
func IsTransient(err error) bool {
	return IsRetryable(err) || errors.Is(err, ErrRateLimited)
}
