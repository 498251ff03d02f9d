// Package cascade implements the multi-source fetch strategy: sources
// grouped into priority tiers, all tiers fetched in parallel, results
// consumed in tier order until the requested count is met.
package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"newsnexus/internal/config"
	"newsnexus/internal/domain/entity"
	"newsnexus/internal/feed"
	"newsnexus/internal/filter"
	"newsnexus/internal/observability/metrics"
	"newsnexus/internal/scrape"
)

// Fetcher retrieves one document body within a per-attempt deadline.
// *fetch.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
}

// SourceResult records one source's contribution for provenance.
type SourceResult struct {
	Type  entity.SourceType
	URL   string
	Count int
}

// Result is the outcome of one cascade run.
type Result struct {
	Articles   []entity.Article
	SourceUsed string
}

// Engine runs the cascade for a single publisher. Safe for concurrent
// use; all per-request state lives on the stack.
type Engine struct {
	client  Fetcher
	feeds   *feed.Parser
	lister  *scrape.Lister
	deep    *scrape.DeepScraper
	cfg     *config.Config
	metrics *metrics.Registry
	logger  *slog.Logger
}

// NewEngine wires a cascade engine.
func NewEngine(client Fetcher, feeds *feed.Parser, lister *scrape.Lister, deep *scrape.DeepScraper, cfg *config.Config, reg *metrics.Registry, logger *slog.Logger) *Engine {
	return &Engine{
		client:  client,
		feeds:   feeds,
		lister:  lister,
		deep:    deep,
		cfg:     cfg,
		metrics: reg,
		logger:  logger,
	}
}

// tierResult carries one priority tier's articles back to the
// collector.
type tierResult struct {
	tier     int
	articles []entity.Article
	sources  []SourceResult
}

// Fetch runs the cascade for pub. All priority tiers are fetched in
// parallel under an outer deadline; results are then consumed in tier
// order, deduplicated and filtered, stopping once count articles have
// been accepted. fastMode restricts the source list to the official
// feed with the aggregator feed as fallback.
func (e *Engine) Fetch(ctx context.Context, pub *entity.Publisher, params filter.Params, count int, fastMode bool) Result {
	sources := e.selectSources(pub, fastMode)
	if len(sources) == 0 {
		return Result{SourceUsed: "none"}
	}
	if fastMode {
		types := make([]string, 0, len(sources))
		for _, src := range sources {
			types = append(types, string(src.Type))
		}
		e.logger.Info("fast mode sources",
			slog.String("domain", pub.Domain),
			slog.String("sources", strings.Join(types, ", ")))
	}

	tiers := make(map[int][]entity.Source)
	for _, src := range sources {
		tiers[src.Priority] = append(tiers[src.Priority], src)
	}
	order := make([]int, 0, len(tiers))
	for tier := range tiers {
		order = append(order, tier)
	}
	sort.Ints(order)

	outerCtx, cancel := context.WithTimeout(ctx, config.CascadeDeadline)
	defer cancel()

	results := make(chan tierResult, len(order))
	for _, tier := range order {
		go func(tier int, srcs []entity.Source) {
			articles, info := e.fetchTier(outerCtx, srcs, pub.Domain)
			results <- tierResult{tier: tier, articles: articles, sources: info}
		}(tier, tiers[tier])
	}

	// Collect until every tier reports or the outer deadline fires;
	// stragglers are abandoned and the partial set is used.
	collected := make(map[int]tierResult, len(order))
	for range order {
		select {
		case r := <-results:
			collected[r.tier] = r
			e.logger.Debug("tier returned",
				slog.String("domain", pub.Domain),
				slog.Int("tier", r.tier),
				slog.Int("articles", len(r.articles)))
		case <-outerCtx.Done():
			e.logger.Warn("cascade deadline reached with partial results",
				slog.String("domain", pub.Domain),
				slog.Int("tiers_done", len(collected)),
				slog.Int("tiers_total", len(order)))
		}
		if outerCtx.Err() != nil {
			break
		}
	}

	// Consume tiers in priority order until count is satisfied. The
	// filter accumulates dedup state so later tiers cannot resurface
	// an article an earlier tier already contributed.
	fl := filter.New(e.cfg.MaxArticlesPerRequest)
	var accepted []entity.Article
	var provenance []string
	for _, tier := range order {
		r, ok := collected[tier]
		if !ok || len(r.articles) == 0 {
			continue
		}
		kept := fl.Apply(r.articles, params)
		if len(kept) == 0 {
			continue
		}
		accepted = append(accepted, kept...)
		provenance = append(provenance, describeTier(tier, r.sources, len(kept)))
		if len(accepted) >= count {
			break
		}
	}

	if len(accepted) == 0 {
		return Result{SourceUsed: "none"}
	}

	filter.SortByDate(accepted)
	if len(accepted) > count {
		accepted = accepted[:count]
	}
	return Result{Articles: accepted, SourceUsed: strings.Join(provenance, " + ")}
}

// selectSources orders pub's sources by priority. In fast mode only
// the official feed and the aggregator feed survive, in that order.
func (e *Engine) selectSources(pub *entity.Publisher, fastMode bool) []entity.Source {
	sources := make([]entity.Source, 0, len(pub.Sources))
	for _, src := range pub.Sources {
		if src.URL != "" {
			sources = append(sources, src)
		}
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority < sources[j].Priority
	})

	if !fastMode {
		return sources
	}

	var fast []entity.Source
	for _, want := range []entity.SourceType{entity.SourceOfficialRSS, entity.SourceGoogleNews} {
		for _, src := range sources {
			if src.Type == want {
				fast = append(fast, src)
				break
			}
		}
	}
	if len(fast) == 0 {
		return sources
	}
	return fast
}

// fetchTier fetches every source in one priority tier, in parallel
// when there is more than one, under the tier deadline.
func (e *Engine) fetchTier(ctx context.Context, srcs []entity.Source, domain string) ([]entity.Article, []SourceResult) {
	tierCtx, cancel := context.WithTimeout(ctx, config.TierDeadline)
	defer cancel()

	type sourceOutcome struct {
		articles []entity.Article
		src      entity.Source
	}
	outcomes := make([]sourceOutcome, len(srcs))

	g, gctx := errgroup.WithContext(tierCtx)
	g.SetLimit(min(config.MaxSourcesPerTier, len(srcs)))
	for i, src := range srcs {
		g.Go(func() error {
			articles := e.fetchSource(gctx, src, domain)
			outcomes[i] = sourceOutcome{articles: articles, src: src}
			return nil
		})
	}
	g.Wait()

	var all []entity.Article
	var info []SourceResult
	for _, o := range outcomes {
		if len(o.articles) == 0 {
			continue
		}
		all = append(all, o.articles...)
		info = append(info, SourceResult{Type: o.src.Type, URL: o.src.URL, Count: len(o.articles)})
	}
	return all, info
}

// fetchSource fetches and parses one source. Failures return an empty
// slice; the cascade treats an errored source like an empty one.
func (e *Engine) fetchSource(ctx context.Context, src entity.Source, domain string) []entity.Article {
	srcCtx, cancel := context.WithTimeout(ctx, config.SourceDeadline)
	defer cancel()

	timeout := src.Timeout(e.cfg.DefaultFetchTimeout)
	body, err := e.client.Fetch(srcCtx, src.URL, timeout)
	if err != nil {
		e.logger.Debug("source fetch failed",
			slog.String("domain", domain),
			slog.String("type", string(src.Type)),
			slog.String("error", err.Error()))
		return nil
	}

	switch {
	case src.Type.IsFeed():
		return e.feeds.Parse(body, domain)
	case src.Type == entity.SourceScraper:
		articles := e.lister.Parse(body, domain, src.URL)
		if e.cfg.DeepScrapeEnabled && len(articles) > 0 {
			e.deep.EnrichBatch(ctx, articles, domain)
		}
		return articles
	default:
		e.logger.Warn("unknown source type",
			slog.String("domain", domain),
			slog.String("type", string(src.Type)))
		return nil
	}
}

// describeTier renders one tier's provenance fragment, e.g.
// "p1[official_rss, rsshub +1](7)".
func describeTier(tier int, sources []SourceResult, accepted int) string {
	var types []string
	for i, s := range sources {
		if i == 2 {
			break
		}
		types = append(types, string(s.Type))
	}
	desc := strings.Join(types, ", ")
	if extra := len(sources) - 2; extra > 0 {
		desc += fmt.Sprintf(" +%d", extra)
	}
	return fmt.Sprintf("p%d[%s](%d)", tier, desc, accepted)
}
