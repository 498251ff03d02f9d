// Package app assembles the service graph shared by every binary.
package app

import (
	"log/slog"

	"newsnexus/internal/cache"
	"newsnexus/internal/cascade"
	"newsnexus/internal/config"
	"newsnexus/internal/feed"
	"newsnexus/internal/fetch"
	"newsnexus/internal/newsdate"
	"newsnexus/internal/observability/metrics"
	"newsnexus/internal/ratelimit"
	"newsnexus/internal/registry"
	"newsnexus/internal/scrape"
	"newsnexus/internal/usecase/news"
)

// App bundles the constructed service and its shared collaborators.
type App struct {
	Config   config.Config
	Service  *news.Service
	Metrics  *metrics.Registry
	Registry *registry.Registry
}

// Build loads configuration and the publisher registry and wires the
// full service graph.
func Build(logger *slog.Logger) (*App, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg, err := registry.Load(cfg.ConfigPath, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.NewRegistry()
	client := fetch.NewClient(m, logger)
	dates := newsdate.NewParser()
	feeds := feed.NewParser(dates, cfg.MaxArticlesPerRequest, logger)
	lister := scrape.NewLister(dates, cfg.MaxArticlesPerRequest, logger)
	deep := scrape.NewDeepScraper(client, dates, &cfg, m, logger)
	engine := cascade.NewEngine(client, feeds, lister, deep, &cfg, m, logger)
	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	respCache := cache.New[*news.Response](1000, cfg.CacheTTL, m)
	service := news.New(cfg, reg, engine, limiter, respCache, m, logger)

	return &App{
		Config:   cfg,
		Service:  service,
		Metrics:  m,
		Registry: reg,
	}, nil
}
