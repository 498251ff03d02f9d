package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsnexus/internal/observability/metrics"
)

func TestKeyIsStableAndDistinct(t *testing.T) {
	a := Key("example.com", "ai", "", 15)
	b := Key("example.com", "ai", "", 15)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, Key("example.com", "ai", "", 10))
	assert.NotEqual(t, a, Key("example.com", "tech", "", 15))
	assert.NotEqual(t, a, Key("other.com", "ai", "", 15))
	assert.NotEqual(t, a, Key("example.com", "ai", "india", 15))
}

func TestGetSetRoundTrip(t *testing.T) {
	c := New[string](10, time.Minute, metrics.NewRegistry())

	_, ok := c.Get("k")
	require.False(t, ok)

	c.Set("k", "payload")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestExpiry(t *testing.T) {
	c := New[string](10, 50*time.Millisecond, metrics.NewRegistry())
	c.Set("k", "payload")

	time.Sleep(120 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok, "entry must expire after the TTL")
}

func TestLRUEviction(t *testing.T) {
	c := New[int](2, time.Minute, metrics.NewRegistry())
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry evicted at capacity")
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestHitMissCounters(t *testing.T) {
	reg := metrics.NewRegistry()
	c := New[string](10, time.Minute, reg)

	c.Get("missing")
	c.Set("k", "v")
	c.Get("k")

	assert.Equal(t, int64(1), reg.Counter("cache_misses"))
	assert.Equal(t, int64(1), reg.Counter("cache_hits"))
}

func TestStats(t *testing.T) {
	c := New[string](1000, 300*time.Second, metrics.NewRegistry())
	c.Set("k", "v")

	s := c.Stats()
	assert.Equal(t, 1, s.Size)
	assert.Equal(t, 1000, s.MaxEntries)
	assert.Equal(t, 300, s.TTLSeconds)
}
