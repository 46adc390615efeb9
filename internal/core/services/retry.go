package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// DefaultMaxAttempts bounds model calls per extraction.
const DefaultMaxAttempts = 2

// RetryPolicy bounds repeated attempts of an operation.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts. Values below one mean one.
	MaxAttempts int

	// Backoff is the wait before the second attempt. It doubles after each
	// further failure. Zero retries immediately.
	Backoff time.Duration

	// Jitter adds up to this fraction of the wait at random.
	Jitter float64
}

// DefaultRetryPolicy returns two attempts with no backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts}
}

// permanentError stops retrying.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a permanent error, the context is
// done, or attempts run out. It returns the number of attempts made and the
// last error.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) (int, error) {
	max := p.MaxAttempts
	if max < 1 {
		max = 1
	}

	var err error
	for attempt := 1; attempt <= max; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			if err == nil {
				err = cerr
			}
			return attempt - 1, err
		}

		err = fn(attempt)
		if err == nil {
			return attempt, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return attempt, perm.err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return attempt, err
		}

		if attempt < max {
			if werr := p.wait(ctx, attempt); werr != nil {
				return attempt, err
			}
		}
	}
	return max, err
}

// Delay returns the wait after the given failed attempt, without jitter.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.Backoff <= 0 || attempt < 1 {
		return 0
	}
	d := p.Backoff
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	d := p.Delay(attempt)
	if d <= 0 {
		return nil
	}
	if p.Jitter > 0 {
		d += time.Duration(rand.Float64() * p.Jitter * float64(d))
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
