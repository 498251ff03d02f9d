// Package fetch provides the shared HTTP client used by every network
// path: pooled connections, per-request deadlines, bounded retries,
// per-host circuit breakers and the URL safety filter.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"newsnexus/internal/config"
	"newsnexus/internal/domain/entity"
	"newsnexus/internal/observability/metrics"
	"newsnexus/internal/resilience/circuitbreaker"
	"newsnexus/internal/resilience/retry"
)

// maxBodyBytes caps a fetched document to keep memory bounded.
const maxBodyBytes = 10 << 20

// Politeness pacing per upstream host. This is independent of the
// caller-facing sliding-window limiter: it spaces our own outbound
// requests so a cascade burst does not hammer one host.
const (
	perHostRate  = 5 // sustained requests per second
	perHostBurst = 10
)

// Client fetches URLs with a deadline and returns the body bytes or a
// typed failure reason. Safe for concurrent use; one instance is
// shared process-wide.
type Client struct {
	httpClient *http.Client
	metrics    *metrics.Registry
	logger     *slog.Logger

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
	pacers   map[string]*rate.Limiter
}

// NewClient builds the shared client. The connection pool keeps at
// most 10 idle connections and 20 in flight per host; the transport
// never retries on its own.
func NewClient(reg *metrics.Registry, logger *slog.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{Transport: transport},
		metrics:    reg,
		logger:     logger,
		breakers:   make(map[string]*circuitbreaker.CircuitBreaker),
		pacers:     make(map[string]*rate.Limiter),
	}
}

// Fetch retrieves a feed or listing document with the given
// per-attempt timeout. Cascade fetches fail fast: a single attempt, so
// the next tier can take over. The URL is rejected before any network
// use when it fails the safety filter.
//
// Failures are typed: entity.ErrInvalidArgument (pre-flight),
// ErrUpstreamTimeout, ErrUpstreamTLS, ErrUpstreamConnection,
// ErrUpstreamHTTP.
func (c *Client) Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	return c.fetch(ctx, rawURL, timeout, retry.CascadeFetchConfig(), false)
}

// FetchArticle retrieves one article page for the enrichment pass.
// Article fetches retry once with exponential backoff and run behind
// stricter per-host breakers than feed fetches: a site that blocks
// scraping trips fast and stays open longer.
func (c *Client) FetchArticle(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	return c.fetch(ctx, rawURL, timeout, retry.DeepScrapeConfig(), true)
}

func (c *Client) fetch(ctx context.Context, rawURL string, timeout time.Duration, cfg retry.Config, article bool) ([]byte, error) {
	start := time.Now()

	if err := ValidateURL(rawURL); err != nil {
		c.metrics.Increment("fetch_rejected")
		c.logger.Warn("invalid url rejected",
			slog.String("url", rawURL),
			slog.String("error", err.Error()))
		return nil, err
	}

	host := hostOf(rawURL)
	breaker := c.breakerFor(host, article)
	pacer := c.pacerFor(host)

	var body []byte
	err := retry.WithBackoff(ctx, cfg, func() error {
		if err := pacer.Wait(ctx); err != nil {
			return retry.Permanent(fmt.Errorf("%w: %v", entity.ErrUpstreamTimeout, err))
		}

		result, err := breaker.Execute(func() (any, error) {
			return c.doFetch(ctx, rawURL, timeout)
		})
		if err != nil {
			if circuitbreaker.IsOpen(err) {
				c.logger.Warn("fetch circuit breaker open",
					slog.String("host", host),
					slog.String("url", rawURL))
				return retry.Permanent(fmt.Errorf("%w: circuit open for %s", entity.ErrUpstreamConnection, host))
			}
			return err
		}
		body = result.([]byte)
		return nil
	})

	if err != nil {
		c.metrics.RecordDuration("fetch_failed_duration_ms", time.Since(start))
		c.metrics.Increment("fetch_failed")
		c.logger.Error("fetch failed",
			slog.String("url", rawURL),
			slog.Int("attempts", cfg.MaxAttempts),
			slog.String("error", err.Error()))
		return nil, err
	}

	elapsed := time.Since(start)
	c.metrics.RecordDuration("fetch_duration_ms", elapsed)
	c.metrics.Increment("fetch_success")
	c.logger.Debug("fetched",
		slog.String("url", rawURL),
		slog.Duration("duration", elapsed),
		slog.Int("bytes", len(body)))
	return body, nil
}

// doFetch performs one attempt. Classification of the failure decides
// both the metrics counter and whether a retry makes sense.
func (c *Client) doFetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: %v", entity.ErrInvalidArgument, err))
	}
	req.Header.Set("User-Agent", config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, application/atom+xml, text/xml, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.Increment("fetch_error")
		return nil, fmt.Errorf("%w: status %d from %s", entity.ErrUpstreamHTTP, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classify(rawURL, err)
	}
	return body, nil
}

// classify maps a transport error to a typed failure and bumps the
// matching counter. TLS verification failures come back Permanent.
func (c *Client) classify(rawURL string, err error) error {
	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &recordErr) {
		c.metrics.Increment("fetch_ssl_error")
		return retry.Permanent(fmt.Errorf("%w: %s: %v", entity.ErrUpstreamTLS, rawURL, err))
	}

	if errors.Is(err, context.DeadlineExceeded) {
		c.metrics.Increment("fetch_timeout")
		return fmt.Errorf("%w: %s", entity.ErrUpstreamTimeout, rawURL)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.metrics.Increment("fetch_timeout")
		return fmt.Errorf("%w: %s", entity.ErrUpstreamTimeout, rawURL)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		c.metrics.Increment("fetch_connection_error")
		return fmt.Errorf("%w: %s: %v", entity.ErrUpstreamConnection, rawURL, err)
	}

	c.metrics.Increment("fetch_error")
	return fmt.Errorf("%w: %s: %v", entity.ErrUpstreamConnection, rawURL, err)
}

// breakerFor returns the per-host breaker for the concern: feed and
// listing fetches share one breaker per host, article fetches another.
func (c *Client) breakerFor(host string, article bool) *circuitbreaker.CircuitBreaker {
	key := "feed:" + host
	cfg := circuitbreaker.FeedFetchConfig(key)
	if article {
		key = "article:" + host
		cfg = circuitbreaker.DeepScrapeConfig(key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.breakers[key]; ok {
		return b
	}
	b := circuitbreaker.New(cfg)
	c.breakers[key] = b
	return b
}

func (c *Client) pacerFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pacers[host]; ok {
		return p
	}
	p := rate.NewLimiter(rate.Limit(perHostRate), perHostBurst)
	c.pacers[host] = p
	return p
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
