// Package circuitbreaker wraps sony/gobreaker with per-concern
// configurations. A breaker trips after repeated upstream failures so
// a dead host stops consuming tier budget.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the breaker tuning for one concern.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// FeedFetchConfig tunes the breaker guarding feed and listing fetches.
// Feeds fail often and recover quickly, so the open period is short.
func FeedFetchConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      2,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// DeepScrapeConfig tunes the breaker guarding article-page fetches.
// A site that blocks scraping trips fast and stays open longer.
func DeepScrapeConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 3,
	}
}

// CircuitBreaker is a thin wrapper over gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a breaker from cfg. State transitions are logged.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs op through the breaker.
func (c *CircuitBreaker) Execute(op func() (any, error)) (any, error) {
	return c.cb.Execute(op)
}

// State returns the current breaker state.
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// IsOpen reports whether err is the breaker's open-state rejection.
func IsOpen(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}
