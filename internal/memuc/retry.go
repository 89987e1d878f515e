package memuc

import (
	"context"
	"time"

	"github.com/pyclashbot/memuc/internal/slogger"
)

// DefaultAttempts is how many times memuc commands are usually tried.
const DefaultAttempts = 3

// RetryPolicy controls how retry-eligible operations are repeated.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	// Values below one mean one.
	Attempts int

	// Backoff is the delay before the second try, doubled for each
	// further try. Zero retries immediately.
	Backoff time.Duration

	// MaxBackoff caps the delay. Zero means no cap.
	MaxBackoff time.Duration

	// Retryable selects the errors worth another try. Nil means IsRetryable.
	Retryable func(error) bool
}

// DefaultRetryPolicy tries DefaultAttempts times without delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts}
}

func (p RetryPolicy) attempts() int {
	return max(p.Attempts, 1)
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsRetryable(err)
}

func (p RetryPolicy) delay(retry int) time.Duration {
	if p.Backoff <= 0 {
		return 0
	}
	d := p.Backoff
	for range retry {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 {
		d = min(d, p.MaxBackoff)
	}
	return d
}

// Retry calls fn until it succeeds, fails with a non-retryable error, or has
// been tried policy.Attempts times. Non-retryable errors are returned as is.
// When every attempt fails the last error is wrapped in a *RetryError.
func Retry[T any](ctx context.Context, policy RetryPolicy, op string, fn func(context.Context) (T, error)) (T, error) {
	log := slogger.L(ctx)
	attempts := policy.attempts()

	var zero T
	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			if err := sleep(ctx, policy.delay(attempt-1)); err != nil {
				return zero, err
			}
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !policy.retryable(err) {
			return zero, err
		}

		lastErr = err
		log.Debug("memuc attempt failed",
			"op", op,
			"attempt", attempt+1,
			"remaining", attempts-attempt-1,
			"error", err,
		)
	}

	return zero, &RetryError{Op: op, Attempts: attempts, Err: lastErr}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
