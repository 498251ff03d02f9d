// Package news is the application service behind every tool and HTTP
// endpoint: request validation, rate limiting, caching, the cascade,
// and the cross-publisher aggregation.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"newsnexus/internal/cache"
	"newsnexus/internal/cascade"
	"newsnexus/internal/config"
	"newsnexus/internal/domain/entity"
	"newsnexus/internal/filter"
	"newsnexus/internal/observability/metrics"
	"newsnexus/internal/ratelimit"
	"newsnexus/internal/registry"
)

// Version is reported by initialize and health responses.
const Version = "2.0.0"

// ArticlesRequest is the input to GetArticles.
type ArticlesRequest struct {
	Domain    string
	Topic     string
	Location  string
	LastNDays int
	Count     int
	FastMode  bool
}

// TopNewsRequest is the input to GetTopNews.
type TopNewsRequest struct {
	Topic     string
	Location  string
	LastNDays int
	Count     int
}

// Response is the single-publisher result shape.
type Response struct {
	SourceUsed string           `json:"sourceUsed"`
	Articles   []entity.Article `json:"articles"`
	Cached     bool             `json:"cached"`
	DurationMS float64          `json:"durationMs"`
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
	RetryAfter int              `json:"retryAfter,omitempty"`
}

// SourceInfo describes one publisher's contribution to top news.
type SourceInfo struct {
	Domain string `json:"domain"`
	Source string `json:"source"`
	Count  int    `json:"count"`
	Cached bool   `json:"cached"`
}

// DomainError records a publisher that produced nothing.
type DomainError struct {
	Domain string `json:"domain"`
	Error  string `json:"error"`
}

// TopNewsResponse is the cross-publisher result shape.
type TopNewsResponse struct {
	Articles       []entity.Article `json:"articles"`
	TotalFetched   int              `json:"totalFetched"`
	SourcesQueried int              `json:"sourcesQueried"`
	Sources        []SourceInfo     `json:"sources"`
	Errors         []DomainError    `json:"errors,omitempty"`
	DurationMS     float64          `json:"durationMs"`
}

// HealthResponse is the health_check result shape.
type HealthResponse struct {
	Status            string      `json:"status"`
	Version           string      `json:"version"`
	ConfiguredDomains []string    `json:"configuredDomains"`
	DomainCount       int         `json:"domainCount"`
	Cache             cache.Stats `json:"cache"`
	Timestamp         string      `json:"timestamp"`
}

// MetricsResponse is the get_metrics result shape.
type MetricsResponse struct {
	Metrics   metrics.Stats  `json:"metrics"`
	Cache     cache.Stats    `json:"cache"`
	Config    map[string]any `json:"config"`
	Timestamp string         `json:"timestamp"`
}

// Service owns the shared runtime state. Safe for concurrent use.
type Service struct {
	cfg      config.Config
	registry *registry.Registry
	engine   *cascade.Engine
	limiter  *ratelimit.Limiter
	cache    *cache.Cache[*Response]
	metrics  *metrics.Registry
	logger   *slog.Logger
	now      func() time.Time
}

// New wires the service.
func New(cfg config.Config, reg *registry.Registry, engine *cascade.Engine, limiter *ratelimit.Limiter, respCache *cache.Cache[*Response], m *metrics.Registry, logger *slog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		registry: reg,
		engine:   engine,
		limiter:  limiter,
		cache:    respCache,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// domainPattern accepts full domains and partial names like "openai".
var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9-]+)*$`)

// maxDomainLen is the DNS name length limit.
const maxDomainLen = 253

// ValidateDomain checks a requested domain for shape, not existence.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("%w: domain is required", entity.ErrInvalidArgument)
	}
	if len(domain) > maxDomainLen {
		return fmt.Errorf("%w: domain too long (max %d characters)", entity.ErrInvalidArgument, maxDomainLen)
	}
	if !domainPattern.MatchString(domain) {
		return fmt.Errorf("%w: invalid domain format", entity.ErrInvalidArgument)
	}
	return nil
}

// GetArticles retrieves recent articles for one publisher via the
// cascade. Responses are cached; repeated identical requests inside
// the TTL return the cached payload with Cached set.
func (s *Service) GetArticles(ctx context.Context, req ArticlesRequest) *Response {
	start := s.now()
	s.metrics.Increment("get_articles_requests")

	count := req.Count
	if count <= 0 {
		count = config.DefaultArticleCount
	}
	if count > s.cfg.MaxArticlesPerRequest {
		count = s.cfg.MaxArticlesPerRequest
	}

	days := req.LastNDays
	clamped := false
	switch {
	case days <= 0:
		days = config.MaxRecentDays
	case days > config.MaxRecentDays:
		s.logger.Info("capping lookback window",
			slog.Int("requested", days),
			slog.Int("max", config.MaxRecentDays))
		days = config.MaxRecentDays
		clamped = true
	}

	if err := ValidateDomain(req.Domain); err != nil {
		s.metrics.Increment("get_articles_invalid_domain")
		s.logger.Warn("invalid domain",
			slog.String("domain", req.Domain),
			slog.String("error", err.Error()))
		return s.finish(&Response{
			SourceUsed: "none",
			Articles:   []entity.Article{},
			Error:      err.Error(),
		}, start)
	}

	topic := entity.SanitizeFilterKeyword(req.Topic)
	location := entity.SanitizeFilterKeyword(req.Location)

	if allowed, retryAfter := s.limiter.Allow(req.Domain); !allowed {
		seconds := int(retryAfter.Seconds() + 0.999)
		s.metrics.Increment("get_articles_rate_limited")
		s.logger.Warn("rate limit exceeded", slog.String("domain", req.Domain))
		return s.finish(&Response{
			SourceUsed: "none",
			Articles:   []entity.Article{},
			Error:      fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", seconds),
			RetryAfter: seconds,
		}, start)
	}

	key := cache.Key(req.Domain, topic, location, days)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Info("cache hit", slog.String("domain", req.Domain))
		hit := *cached
		hit.Cached = true
		return s.finish(&hit, start)
	}

	pub := s.registry.Find(req.Domain)
	if pub == nil {
		s.metrics.Increment("get_articles_domain_not_found")
		s.logger.Info("domain not configured", slog.String("domain", req.Domain))
		return s.finish(&Response{
			SourceUsed: "none",
			Articles:   []entity.Article{},
			Error:      fmt.Sprintf("Domain '%s' not configured", req.Domain),
		}, start)
	}

	result := s.engine.Fetch(ctx, pub, filter.Params{
		Topic:    topic,
		Location: location,
		Days:     days,
	}, count, req.FastMode)

	resp := &Response{
		SourceUsed: result.SourceUsed,
		Articles:   result.Articles,
	}
	if resp.Articles == nil {
		resp.Articles = []entity.Article{}
	}

	switch {
	case len(resp.Articles) == 0:
		s.metrics.Increment("get_articles_no_results")
		resp.Message = fmt.Sprintf(
			"No articles found from %s in the last %d days. "+
				"Tried all available sources (official RSS, RSSHub, Google News, scraper). "+
				"This site may not have published recent content or may be blocking our requests.",
			req.Domain, days)
	default:
		s.metrics.Increment("get_articles_success")
		s.metrics.Add("articles_returned", int64(len(resp.Articles)))
		if len(resp.Articles) < count {
			resp.Message = fmt.Sprintf(
				"Found %d articles (requested %d) from last %d days. "+
					"This is all the recent content available.",
				len(resp.Articles), count, days)
		} else if clamped {
			resp.Message = fmt.Sprintf("Lookback window capped at %d days.", days)
		}
		stored := *resp
		s.cache.Set(key, &stored)
	}

	return s.finish(resp, start)
}

// GetTopNews aggregates recent articles across the highest-priority
// publishers using the fast cascade path for each.
func (s *Service) GetTopNews(ctx context.Context, req TopNewsRequest) *TopNewsResponse {
	start := s.now()
	s.metrics.Increment("get_top_news_requests")

	count := req.Count
	if count <= 0 {
		count = config.DefaultTopNewsCount
	}
	if count > s.cfg.MaxArticlesPerRequest {
		count = s.cfg.MaxArticlesPerRequest
	}

	days := req.LastNDays
	if days <= 0 || days > config.MaxRecentDays {
		days = config.MaxRecentDays
	}

	publishers := s.registry.TopPriority(config.TopNewsPublisherLimit, config.TopNewsPublisherLimit)
	s.logger.Info("fetching top news",
		slog.Int("publishers", len(publishers)),
		slog.Int("count", count))

	outerCtx, cancel := context.WithTimeout(ctx, config.TopNewsDeadline)
	defer cancel()

	var (
		mu      sync.Mutex
		all     []entity.Article
		sources []SourceInfo
		errs    []DomainError
	)

	g, gctx := errgroup.WithContext(outerCtx)
	g.SetLimit(min(config.TopNewsWorkers, max(len(publishers), 1)))
	for _, pub := range publishers {
		g.Go(func() error {
			pubCtx, cancel := context.WithTimeout(gctx, config.PerPublisherDeadline)
			defer cancel()

			resp := s.GetArticles(pubCtx, ArticlesRequest{
				Domain:    pub.Domain,
				Topic:     req.Topic,
				Location:  req.Location,
				LastNDays: days,
				FastMode:  true,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case len(resp.Articles) > 0:
				all = append(all, resp.Articles...)
				sources = append(sources, SourceInfo{
					Domain: pub.Domain,
					Source: resp.SourceUsed,
					Count:  len(resp.Articles),
					Cached: resp.Cached,
				})
			case resp.Error != "":
				errs = append(errs, DomainError{Domain: pub.Domain, Error: resp.Error})
			default:
				errs = append(errs, DomainError{Domain: pub.Domain, Error: "no articles found"})
			}
			return nil
		})
	}
	g.Wait()

	filter.SortByDate(all)
	top := all
	if len(top) > count {
		top = top[:count]
	}
	if top == nil {
		top = []entity.Article{}
	}

	elapsed := s.now().Sub(start)
	s.metrics.RecordDuration("get_top_news_duration_ms", elapsed)
	if len(top) > 0 {
		s.metrics.Increment("get_top_news_success")
	}

	return &TopNewsResponse{
		Articles:       top,
		TotalFetched:   len(all),
		SourcesQueried: len(sources),
		Sources:        sources,
		Errors:         errs,
		DurationMS:     roundMS(elapsed),
	}
}

// Health reports service status for the health_check tool.
func (s *Service) Health() *HealthResponse {
	return &HealthResponse{
		Status:            "healthy",
		Version:           Version,
		ConfiguredDomains: s.registry.Domains(),
		DomainCount:       len(s.registry.All()),
		Cache:             s.cache.Stats(),
		Timestamp:         s.now().UTC().Format(time.RFC3339),
	}
}

// Metrics reports counters, histograms and effective configuration.
func (s *Service) Metrics() *MetricsResponse {
	return &MetricsResponse{
		Metrics: s.metrics.Snapshot(),
		Cache:   s.cache.Stats(),
		Config: map[string]any{
			"maxArticles":   s.cfg.MaxArticlesPerRequest,
			"cacheTtl":      int(s.cfg.CacheTTL.Seconds()),
			"rateLimit":     fmt.Sprintf("%d/%ds", s.cfg.RateLimitRequests, int(s.cfg.RateLimitWindow.Seconds())),
			"parallelFetch": s.cfg.ParallelFetch,
		},
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
}

func (s *Service) finish(resp *Response, start time.Time) *Response {
	elapsed := s.now().Sub(start)
	resp.DurationMS = roundMS(elapsed)
	s.metrics.RecordDuration("get_articles_duration_ms", elapsed)
	return resp
}

func roundMS(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
