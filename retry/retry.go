// Package retry implements a generic retry-with-backoff utility. The policy
// (attempt budget, base delay, retryable-error predicate) is independent of
// any business logic so it can be tested on its own; callers decide which
// error class is worth retrying.
package retry

import (
	"context"
	"time"
)

// Policy parameterizes Do.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; subsequent waits
	// double (BaseDelay * 2^attemptIndex).
	BaseDelay time.Duration
	// Retryable decides whether an error is worth another attempt. A nil
	// predicate retries every error.
	Retryable func(error) bool
	// Sleep is the wait primitive, overridable in tests. Nil uses a
	// context-aware timer sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (p Policy) retryable(err error) bool {
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
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

// Do runs fn up to p.MaxAttempts times, sleeping an exponentially growing
// delay between attempts. A non-retryable error is returned immediately;
// after the attempt budget is exhausted the last error is returned so the
// caller can distinguish exhaustion by its class.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !p.retryable(err) || attempt+1 == p.MaxAttempts {
			break
		}
		if serr := p.sleep(ctx, p.BaseDelay*(1<<attempt)); serr != nil {
			return zero, serr
		}
	}
	return zero, lastErr
}
