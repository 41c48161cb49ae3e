package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by helpers that treat a miss as an error.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")
)

// transientError marks a backend failure worth retrying, such as a refused
// connection while Redis restarts.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff is an exponential retry schedule.
type Backoff struct {
	Attempts int
	Delay    time.Duration // first pause, doubled after each failure
	MaxDelay time.Duration // cap on a single pause; zero means no cap
}

// DefaultBackoff is used when connecting to remote backends: three attempts
// over roughly 300ms.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond, MaxDelay: time.Second}

// Do calls fn until it succeeds, fails with an error not marked [Retryable],
// or the attempts run out. The last error is returned.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	pause := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		t := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if pause *= 2; b.MaxDelay > 0 && pause > b.MaxDelay {
			pause = b.MaxDelay
		}
	}
}
