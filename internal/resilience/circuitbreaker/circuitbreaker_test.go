package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePassesThrough(t *testing.T) {
	cb := New(FeedFetchConfig("example.com"))

	got, err := cb.Execute(func() (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	cb := New(FeedFetchConfig("example.com"))
	boom := errors.New("connection refused")

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (any, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	calls := 0
	_, err := cb.Execute(func() (any, error) {
		calls++
		return nil, nil
	})
	assert.True(t, IsOpen(err))
	assert.Zero(t, calls, "an open breaker rejects without invoking the operation")
}

func TestDeepScrapeTripsFaster(t *testing.T) {
	cb := New(DeepScrapeConfig("example.com"))
	boom := errors.New("403 forbidden")

	for i := 0; i < 3; i++ {
		cb.Execute(func() (any, error) { return nil, boom })
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestSuccessResetsFailureStreak(t *testing.T) {
	cb := New(FeedFetchConfig("example.com"))
	boom := errors.New("timeout")

	for i := 0; i < 4; i++ {
		cb.Execute(func() (any, error) { return nil, boom })
	}
	cb.Execute(func() (any, error) { return nil, nil })
	for i := 0; i < 4; i++ {
		cb.Execute(func() (any, error) { return nil, boom })
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State(), "only consecutive failures trip the breaker")
}

func TestIsOpen(t *testing.T) {
	assert.True(t, IsOpen(gobreaker.ErrOpenState))
	assert.True(t, IsOpen(gobreaker.ErrTooManyRequests))
	assert.False(t, IsOpen(errors.New("ordinary failure")))
	assert.False(t, IsOpen(nil))
}
