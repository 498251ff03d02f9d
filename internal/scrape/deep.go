package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"newsnexus/internal/config"
	"newsnexus/internal/domain/entity"
	"newsnexus/internal/newsdate"
	"newsnexus/internal/observability/metrics"
)

// minParagraphLen filters boilerplate fragments out of the body text.
const minParagraphLen = 30

// minContentLen below which the readability fallback kicks in.
const minContentLen = 100

// minSentenceLen filters fragments out of the generated summary.
const minSentenceLen = 20

// ArticleFetcher retrieves one article page within a deadline.
// *fetch.Client implements it.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
}

// DeepScraper visits article pages to fill in full content, a better
// summary, and missing dates and authors.
type DeepScraper struct {
	client     ArticleFetcher
	dates      *newsdate.Parser
	metrics    *metrics.Registry
	logger     *slog.Logger
	maxPerCall int
	workers    int
	timeout    time.Duration
	summaryLen int
}

// NewDeepScraper wires a deep scraper from the runtime configuration.
func NewDeepScraper(client ArticleFetcher, dates *newsdate.Parser, cfg *config.Config, reg *metrics.Registry, logger *slog.Logger) *DeepScraper {
	return &DeepScraper{
		client:     client,
		dates:      dates,
		metrics:    reg,
		logger:     logger,
		maxPerCall: cfg.DeepScrapeMax,
		workers:    cfg.DeepScrapeWorkers,
		timeout:    cfg.DeepScrapeTimeout,
		summaryLen: cfg.SummaryLength,
	}
}

// EnrichBatch deep-scrapes up to the configured maximum of articles in
// parallel and merges the findings in place. Articles beyond the cap
// pass through untouched. A failed page leaves its article unchanged;
// the batch never fails as a whole.
func (d *DeepScraper) EnrichBatch(ctx context.Context, articles []entity.Article, domain string) {
	if len(articles) == 0 {
		return
	}
	start := time.Now()

	n := min(len(articles), d.maxPerCall)

	batchCtx, cancel := context.WithTimeout(ctx, config.DeepScrapeBatchDeadline)
	defer cancel()

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(d.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			d.enrichOne(gctx, &articles[i], domain)
			return nil
		})
	}
	g.Wait()

	d.metrics.RecordDuration("deep_scrape_batch_duration_ms", time.Since(start))
	d.logger.Debug("deep scrape batch done",
		slog.String("domain", domain),
		slog.Int("attempted", n),
		slog.Duration("duration", time.Since(start)))
}

func (d *DeepScraper) enrichOne(ctx context.Context, art *entity.Article, domain string) {
	body, err := d.client.FetchArticle(ctx, art.URL, d.timeout)
	if err != nil {
		d.metrics.Increment("deep_scrape_failed")
		return
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		d.metrics.Increment("deep_scrape_failed")
		return
	}

	content := d.extractContent(doc, body, art.URL)
	if content != "" {
		art.FullContent = content
		art.ContentLen = len(content)
		if summary := d.generateSummary(content); len(summary) > len(art.Summary) {
			art.Summary = summary
		}
	}

	if art.PublishedAt == "" {
		if iso := d.extractDate(doc); iso != "" {
			art.PublishedAt = iso
			if t, ok := d.dates.ParseTime(iso); ok {
				art.SetPublished(t)
			}
		}
	}
	if art.Author == "" {
		art.Author = extractAuthor(doc)
	}

	art.DeepScraped = true
	d.metrics.Increment("deep_scrape_success")
}

// extractContent gathers body paragraphs, falling back to readability
// extraction and finally the raw container text for sparse pages.
func (d *DeepScraper) extractContent(doc *goquery.Document, raw []byte, pageURL string) string {
	for _, sel := range contentExcludeSelectors {
		doc.Find(sel).Remove()
	}

	container := doc.Selection
	for _, sel := range contentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			container = found
			break
		}
	}
	if container == doc.Selection {
		if body := doc.Find("body"); body.Length() > 0 {
			container = body
		}
	}

	var paragraphs []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) > minParagraphLen {
			paragraphs = append(paragraphs, text)
		}
	})
	content := strings.Join(paragraphs, "\n\n")

	if len(content) < minContentLen {
		if u, err := url.Parse(pageURL); err == nil {
			if article, err := readability.FromReader(bytes.NewReader(raw), u); err == nil {
				if text := strings.TrimSpace(article.TextContent); len(text) > len(content) {
					content = text
				}
			}
		}
	}
	if len(content) < minContentLen {
		if text := strings.TrimSpace(container.Text()); len(text) > len(content) {
			content = text
		}
	}

	return content
}

// generateSummary builds a summary out of the first real sentences of
// the content, skipping fragments and boilerplate, up to the configured
// length. The last sentence is truncated rather than dropped when a
// useful amount of room remains.
func (d *DeepScraper) generateSummary(content string) string {
	var b strings.Builder
	for _, sentence := range splitSentences(content) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < minSentenceLen || isJunk(sentence) {
			continue
		}

		remaining := d.summaryLen - b.Len()
		if len(sentence)+1 > remaining {
			if remaining > 50 {
				if b.Len() > 0 {
					b.WriteByte(' ')
					remaining--
				}
				b.WriteString(entity.Truncate(sentence, remaining-3))
				b.WriteString("...")
			}
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
	}
	return b.String()
}

// splitSentences breaks text on sentence terminators, keeping the
// terminator attached.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			out = append(out, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isJunk(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, phrase := range junkPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// extractDate reads the publication date from structured data, meta
// tags, then the visible page, in that order of trust.
func (d *DeepScraper) extractDate(doc *goquery.Document) string {
	if raw := jsonLDField(doc, "datePublished", "dateCreated"); raw != "" {
		if iso := d.dates.Parse(raw); iso != "" {
			return iso
		}
	}

	var result string
	doc.Find("meta").EachWithBreak(func(_ int, m *goquery.Selection) bool {
		prop, _ := m.Attr("property")
		name, _ := m.Attr("name")
		for _, want := range metaDateProps {
			if prop != want && name != want {
				continue
			}
			if content, ok := m.Attr("content"); ok {
				if iso := d.dates.Parse(content); iso != "" {
					result = iso
					return false
				}
			}
		}
		return true
	})
	if result != "" {
		return result
	}

	for _, sel := range dateSelectors {
		elem := doc.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		raw, hasAttr := elem.Attr("datetime")
		if !hasAttr {
			raw = elem.Text()
		}
		if iso := d.dates.Parse(raw); iso != "" {
			return iso
		}
	}
	return ""
}

func extractAuthor(doc *goquery.Document) string {
	if name := jsonLDAuthor(doc); name != "" {
		return entity.SanitizeString(name, entity.MaxAuthorLen)
	}

	if meta := doc.Find(`meta[name="author"]`).First(); meta.Length() > 0 {
		if content, ok := meta.Attr("content"); ok && strings.TrimSpace(content) != "" {
			return entity.SanitizeString(content, entity.MaxAuthorLen)
		}
	}

	for _, sel := range authorSelectors {
		elem := doc.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(elem.Text())
		if text != "" && len(text) < entity.MaxAuthorLen {
			return entity.SanitizeString(text, entity.MaxAuthorLen)
		}
	}
	return ""
}

// jsonLDField scans ld+json blocks for the first of the given string
// fields. Arrays of objects are searched shallowly.
func jsonLDField(doc *goquery.Document, fields ...string) string {
	var result string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		for _, obj := range flattenLD(data) {
			for _, field := range fields {
				if v, ok := obj[field].(string); ok && v != "" {
					result = v
					return false
				}
			}
		}
		return true
	})
	return result
}

// jsonLDAuthor handles both the object and plain-string author shapes.
func jsonLDAuthor(doc *goquery.Document) string {
	var result string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		for _, obj := range flattenLD(data) {
			switch author := obj["author"].(type) {
			case string:
				if author != "" {
					result = author
					return false
				}
			case map[string]any:
				if name, ok := author["name"].(string); ok && name != "" {
					result = name
					return false
				}
			case []any:
				for _, entry := range author {
					if m, ok := entry.(map[string]any); ok {
						if name, ok := m["name"].(string); ok && name != "" {
							result = name
							return false
						}
					}
				}
			}
		}
		return true
	})
	return result
}

func flattenLD(data any) []map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			return flattenLD(graph)
		}
		return []map[string]any{v}
	case []any:
		var out []map[string]any
		for _, entry := range v {
			out = append(out, flattenLD(entry)...)
		}
		return out
	}
	return nil
}
