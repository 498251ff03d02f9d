// Package cache is the TTL response cache in front of the cascade.
// Entries are keyed by the request parameters and evicted LRU-first
// when full.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"newsnexus/internal/observability/metrics"
)

// Cache is a bounded TTL cache for response payloads. Safe for
// concurrent use.
type Cache[V any] struct {
	lru     *expirable.LRU[string, V]
	ttl     time.Duration
	max     int
	metrics *metrics.Registry
}

// New creates a cache holding at most max entries for ttl each.
func New[V any](max int, ttl time.Duration, reg *metrics.Registry) *Cache[V] {
	return &Cache[V]{
		lru:     expirable.NewLRU[string, V](max, nil, ttl),
		ttl:     ttl,
		max:     max,
		metrics: reg,
	}
}

// Key derives the cache key for one request's parameters.
func Key(domain, topic, location string, days int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%d", domain, topic, location, days))
	return hex.EncodeToString(sum[:16])
}

// Get returns the cached value for key when present and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.metrics.Increment("cache_hits")
	} else {
		c.metrics.Increment("cache_misses")
	}
	return v, ok
}

// Set stores value under key with the cache TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
	metrics.CacheSize.Set(float64(c.lru.Len()))
}

// Stats describes the cache for health and metrics responses.
type Stats struct {
	Size       int `json:"size"`
	MaxEntries int `json:"max_entries"`
	TTLSeconds int `json:"ttl_seconds"`
}

// Stats reports current occupancy and configuration.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Size:       c.lru.Len(),
		MaxEntries: c.max,
		TTLSeconds: int(c.ttl.Seconds()),
	}
}

// Purge drops every entry. Used by tests.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
	metrics.CacheSize.Set(0)
}
