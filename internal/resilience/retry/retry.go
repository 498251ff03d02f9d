// Package retry provides bounded retries with exponential backoff for
// transient upstream failures.
package retry

import (
	"context"
	"errors"
	"time"
)

// Config holds the retry policy for one call site.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the backoff before the first retry.
	InitialDelay time.Duration
	// Multiplier scales the delay after each retry.
	Multiplier float64
}

// CascadeFetchConfig is the policy for cascade source fetches: a
// single attempt, failing fast so the next tier can take over.
func CascadeFetchConfig() Config {
	return Config{MaxAttempts: 1, InitialDelay: 300 * time.Millisecond, Multiplier: 2.0}
}

// DeepScrapeConfig is the policy for the per-article enrichment pass:
// one retry with the standard 300ms base.
func DeepScrapeConfig() Config {
	return Config{MaxAttempts: 2, InitialDelay: 300 * time.Millisecond, Multiplier: 2.0}
}

// permanentError marks a failure that must not be retried.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps an error so WithBackoff stops immediately. TLS
// verification failures and pre-flight rejections use this.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// WithBackoff runs op up to cfg.MaxAttempts times, sleeping with
// exponential backoff between attempts. It stops early on success, on
// a Permanent error, or when the context is done. The returned error
// is the last attempt's, unwrapped from any Permanent marker.
func WithBackoff(ctx context.Context, cfg Config, op func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	delay := cfg.InitialDelay

	var err error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * cfg.Multiplier)
		}

		err = op()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
	}
	return err
}
