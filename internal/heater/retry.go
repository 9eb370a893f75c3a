package heater

import (
	"context"
	"time"
)

// Default retry policy: two attempts, 1.5s before the second one.
const (
	DefaultAttempts  = 2
	DefaultBaseDelay = 1500 * time.Millisecond
)

// RetryPolicy retries a command with a linearly growing delay: after the
// n-th failed attempt it waits n × BaseDelay.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	// Sleep waits for d or until ctx is done. Nil means a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Delay returns the wait after the given (1-based) failed attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.BaseDelay
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retry runs fn until it succeeds or the policy is exhausted and returns the
// last error. A cancelled context stops the waiting, not a running attempt.
func retry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var (
		out T
		err error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if out, err = fn(ctx); err == nil {
			return out, nil
		}
		if attempt == attempts {
			break
		}
		if serr := p.sleep(ctx, p.Delay(attempt)); serr != nil {
			break
		}
	}
	return out, err
}
