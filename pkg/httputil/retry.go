package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// RetryableError marks a transient failure. After, when set, is the wait the
// server asked for through Retry-After and replaces the backoff delay for
// the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is wrapped in a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Backoff is an exponential retry policy. The delay doubles after every
// failed attempt and never exceeds MaxDelay when MaxDelay is positive.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultBackoff is used by [NewClient]: 3 attempts starting at 1s.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second}

// Retry runs fn until it succeeds, returns an error that is not retryable,
// or the attempts are used up. It returns the last error, or ctx.Err() if
// the context ends while waiting.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var lastErr error
	for i := range attempts {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(lastErr, &re) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if re.After > 0 {
			wait = re.After
		}
		if b.MaxDelay > 0 {
			wait = min(wait, b.MaxDelay)
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return lastErr
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP
// date. Unparseable or past values yield 0.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}
