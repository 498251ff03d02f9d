// Package config assembles the runtime configuration for the news
// service from environment variables. All variables are optional and
// default to production-safe values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	pkgconfig "newsnexus/pkg/config"
)

// Fixed tuning constants. These are the values observed to keep p95
// latency bounded and are not environment-tunable.
const (
	// TierDeadline bounds one priority tier's parallel fetch.
	TierDeadline = 5 * time.Second
	// SourceDeadline bounds a single source inside a tier.
	SourceDeadline = 3 * time.Second
	// CascadeDeadline bounds the whole cross-tier operation.
	CascadeDeadline = 10 * time.Second
	// TopNewsDeadline bounds the cross-publisher aggregation.
	TopNewsDeadline = 15 * time.Second
	// PerPublisherDeadline bounds one publisher inside the aggregation.
	PerPublisherDeadline = 5 * time.Second
	// DeepScrapeBatchDeadline bounds the whole enrichment batch.
	DeepScrapeBatchDeadline = 30 * time.Second

	// MaxSourcesPerTier caps intra-tier fetch workers.
	MaxSourcesPerTier = 6
	// TopNewsWorkers is the cross-publisher fan-out pool size.
	TopNewsWorkers = 4
	// TopNewsPublisherLimit caps the publishers consulted by top news.
	TopNewsPublisherLimit = 12

	// MaxRecentDays is the hard recency cap: older articles are never
	// "recent" regardless of the requested window.
	MaxRecentDays = 15
	// DefaultTopNewsCount is the article count when the aggregator
	// caller does not specify one.
	DefaultTopNewsCount = 8
	// DefaultArticleCount is the per-publisher default count.
	DefaultArticleCount = 10

	// UserAgent is the desktop-browser identity sent on every fetch.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config carries the environment-tunable settings.
type Config struct {
	MaxArticlesPerRequest int
	CacheTTL              time.Duration
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	ParallelFetch         bool
	DefaultFetchTimeout   time.Duration
	ConfigPath            string

	DeepScrapeEnabled bool
	DeepScrapeMax     int
	DeepScrapeTimeout time.Duration
	SummaryLength     int
	DeepScrapeWorkers int
}

// Load reads the configuration from the environment, applying the
// documented defaults.
func Load() Config {
	return Config{
		MaxArticlesPerRequest: pkgconfig.GetEnvInt("NEWSNEXUS_MAX_ARTICLES", 50),
		CacheTTL:              time.Duration(pkgconfig.GetEnvInt("NEWSNEXUS_CACHE_TTL", 300)) * time.Second,
		RateLimitRequests:     pkgconfig.GetEnvInt("NEWSNEXUS_RATE_LIMIT", 10),
		RateLimitWindow:       time.Duration(pkgconfig.GetEnvInt("NEWSNEXUS_RATE_WINDOW", 60)) * time.Second,
		ParallelFetch:         pkgconfig.GetEnvBool("NEWSNEXUS_PARALLEL", true),
		DefaultFetchTimeout:   pkgconfig.GetEnvMillis("NEWSNEXUS_FETCH_TIMEOUT", 2500*time.Millisecond),
		ConfigPath:            defaultConfigPath(),

		DeepScrapeEnabled: pkgconfig.GetEnvBool("NEWSNEXUS_DEEP_SCRAPE", true),
		DeepScrapeMax:     pkgconfig.GetEnvInt("NEWSNEXUS_DEEP_SCRAPE_MAX", 10),
		DeepScrapeTimeout: pkgconfig.GetEnvMillis("NEWSNEXUS_DEEP_SCRAPE_TIMEOUT", 2000*time.Millisecond),
		SummaryLength:     pkgconfig.GetEnvInt("NEWSNEXUS_SUMMARY_LENGTH", 500),
		DeepScrapeWorkers: pkgconfig.GetEnvInt("NEWSNEXUS_DEEP_WORKERS", 5),
	}
}

// Validate rejects configurations that cannot work.
func (c Config) Validate() error {
	if c.MaxArticlesPerRequest < 1 {
		return fmt.Errorf("max articles per request must be positive, got %d", c.MaxArticlesPerRequest)
	}
	if c.RateLimitRequests < 1 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimitWindow)
	}
	if c.DeepScrapeWorkers < 1 {
		return fmt.Errorf("deep scrape workers must be positive, got %d", c.DeepScrapeWorkers)
	}
	return nil
}

// defaultConfigPath resolves the publisher configuration document:
// NEWSNEXUS_CONFIG_PATH when set, otherwise sites.json next to the
// binary.
func defaultConfigPath() string {
	if p := os.Getenv("NEWSNEXUS_CONFIG_PATH"); p != "" {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return "sites.json"
	}
	return filepath.Join(filepath.Dir(exe), "sites.json")
}
