// Package ratelimit implements the per-domain sliding-window limiter
// applied to caller requests. Each domain gets an independent window;
// the limiter reports how long a rejected caller should wait.
package ratelimit

import (
	"sync"
	"time"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Limiter is a sliding-window rate limiter keyed by domain. Safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	clock    Clock
}

// New creates a Limiter allowing limit requests per window per key.
func New(limit int, window time.Duration) *Limiter {
	return NewWithClock(limit, window, realClock{})
}

// NewWithClock is New with an injected clock.
func NewWithClock(limit int, window time.Duration, clock Clock) *Limiter {
	return &Limiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		clock:    clock,
	}
}

// Allow records a request against key and reports whether it is within
// the limit. When rejected, retryAfter is the time until the oldest
// in-window request slides out and a retry can succeed.
func (l *Limiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	recent := l.requests[key][:0]
	for _, t := range l.requests[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.requests[key] = recent
		oldest := recent[0]
		wait := l.window - now.Sub(oldest)
		if wait < 0 {
			wait = 0
		}
		return false, wait
	}

	l.requests[key] = append(recent, now)
	return true, 0
}

// Reset clears the window for key. Used by tests and cache warmers.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.requests, key)
}
