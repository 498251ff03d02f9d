// Package filter applies topic, location and recency filters and
// deduplicates articles. A Filter accumulates its dedup state across
// calls so one instance covers a whole aggregation run.
package filter

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"newsnexus/internal/domain/entity"
)

// Params are the caller-supplied filter criteria. Zero values disable
// the corresponding filter.
type Params struct {
	Topic    string
	Location string
	Days     int
}

// Filter holds the dedup sets for one aggregation run. Not safe for
// concurrent use; callers serialize Apply across sources.
type Filter struct {
	mu         sync.Mutex
	seenURLs   map[string]struct{}
	seenTitles map[string]struct{}
	maxResults int
	now        func() time.Time
}

// New creates a Filter capped at maxResults accepted articles total.
func New(maxResults int) *Filter {
	return &Filter{
		seenURLs:   make(map[string]struct{}),
		seenTitles: make(map[string]struct{}),
		maxResults: maxResults,
		now:        time.Now,
	}
}

// keywordPattern caches compiled word-boundary patterns. Topic
// expansions repeat the same keywords for every article.
var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

func keywordPattern(keyword string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[keyword]; ok {
		return re
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	patternCache[keyword] = re
	return re
}

// Apply runs the filter pass over articles from one source and returns
// the survivors sorted newest first. Duplicates of anything accepted in
// an earlier Apply call on the same Filter are dropped.
func (f *Filter) Apply(articles []entity.Article, p Params) []entity.Article {
	f.mu.Lock()
	defer f.mu.Unlock()

	topic := entity.SanitizeFilterKeyword(p.Topic)
	location := entity.SanitizeFilterKeyword(p.Location)

	var keywords []string
	if topic != "" && topic != TopicGeneral {
		keywords = ExpandTopic(topic)
	}

	now := f.now()
	var out []entity.Article
	for _, art := range articles {
		urlKey, titleKey := art.Fingerprint()
		if _, dup := f.seenURLs[urlKey]; dup {
			continue
		}
		f.seenURLs[urlKey] = struct{}{}
		if titleKey != "" {
			if _, dup := f.seenTitles[titleKey]; dup {
				continue
			}
			f.seenTitles[titleKey] = struct{}{}
		}

		text := searchableText(art)

		if len(keywords) > 0 {
			if !matchesAny(text, keywords) {
				continue
			}
			if matchesAny(text, excludeKeywords) {
				continue
			}
		}

		if location != "" && !skipLocationCheck(location, art.SourceDomain) {
			if !keywordPattern(location).MatchString(text) {
				continue
			}
		}

		if p.Days > 0 {
			if published, ok := art.PublishedTime(); ok {
				if now.Sub(published) > time.Duration(p.Days)*24*time.Hour {
					continue
				}
			}
		}

		out = append(out, art)
		if len(out) >= f.maxResults {
			break
		}
	}

	sortByDate(out)
	return out
}

func searchableText(art entity.Article) string {
	parts := []string{art.Title, art.Summary}
	parts = append(parts, art.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if keywordPattern(kw).MatchString(text) {
			return true
		}
	}
	return false
}

// skipLocationCheck suppresses the india location filter for
// publishers that only cover India.
func skipLocationCheck(location, domain string) bool {
	if location != "india" {
		return false
	}
	if strings.HasSuffix(domain, ".in") {
		return true
	}
	_, known := indianPublishers[strings.TrimPrefix(domain, "www.")]
	return known
}

// sortByDate orders newest first; articles without a parseable date go
// to the end in their original relative order.
func sortByDate(articles []entity.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		ti, iOK := articles[i].PublishedTime()
		tj, jOK := articles[j].PublishedTime()
		switch {
		case iOK && jOK:
			return ti.After(tj)
		case iOK:
			return true
		default:
			return false
		}
	})
}

// SortByDate exposes the ordering for aggregation merges.
func SortByDate(articles []entity.Article) {
	sortByDate(articles)
}
