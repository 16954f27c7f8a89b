package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a connection failure to a remote cache. Only such
// failures are retried; a miss or a server-side error is returned at once.
var ErrNetwork = errors.New("cache: network error")

// Retry timing for remote caches. An unreachable Redis should cost a render
// well under a second before the error surfaces.
const (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err or any error it wraps is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, fails with a non-retryable
// error, or retryAttempts is reached. The delay doubles after each attempt.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
