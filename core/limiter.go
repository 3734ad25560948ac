package core

import (
	"fmt"
	"sync"
)

// CallLimiter enforces a maximum number of upstream calls per invocation.
// The classifier and each handler carry independent budgets.
type CallLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewCallLimiter creates a limiter allowing max calls. If max == 0 the
// limiter is unbounded.
func NewCallLimiter(max int) *CallLimiter {
	return &CallLimiter{max: max}
}

// Take consumes one call from the budget. It returns an error wrapping
// ErrBudgetExceeded once the budget is exhausted.
func (l *CallLimiter) Take() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count++
	if l.max > 0 && l.count > l.max {
		return fmt.Errorf("%w: max %d calls", ErrBudgetExceeded, l.max)
	}

	return nil
}

// Count returns the number of calls taken so far.
func (l *CallLimiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count
}

// Remaining returns how many calls are left, or -1 when unbounded.
func (l *CallLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max == 0 {
		return -1
	}

	return l.max - l.count
}
