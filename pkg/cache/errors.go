package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a remote backend.
var ErrNetwork = errors.New("network error")

type retryableError struct{ err error }

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryableError{err}
}

// IsRetryable reports whether err, or an error it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var re retryableError
	return errors.As(err, &re)
}

// RetryPolicy retries transient backend failures with exponential backoff.
// The zero value uses DefaultRetryPolicy.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy makes three attempts, waiting 100ms then 200ms.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: 100 * time.Millisecond}

// Do calls fn until it succeeds, returns an error not marked Retryable,
// runs out of attempts, or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	if p.Attempts <= 0 {
		p = DefaultRetryPolicy
	}
	delay := p.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == p.Attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
