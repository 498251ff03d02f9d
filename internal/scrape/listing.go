package scrape

import (
	"bytes"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"newsnexus/internal/domain/entity"
	"newsnexus/internal/fetch"
	"newsnexus/internal/newsdate"
)

// minTitleLen rejects navigation fragments masquerading as headlines.
const minTitleLen = 10

// headlineFallbackThreshold: when the semantic pass finds fewer
// candidates than this, the headline pass runs as well.
const headlineFallbackThreshold = 5

// containersPerSelector caps how many matches one selector contributes.
const containersPerSelector = 30

// headlinesPerTag caps the headline-pass scan per heading level.
const headlinesPerTag = 50

// Lister extracts candidate articles from a publisher listing page.
type Lister struct {
	dates       *newsdate.Parser
	maxArticles int
	logger      *slog.Logger
}

// NewLister creates a listing scraper capped at maxArticles per page.
func NewLister(dates *newsdate.Parser, maxArticles int, logger *slog.Logger) *Lister {
	return &Lister{dates: dates, maxArticles: maxArticles, logger: logger}
}

// Parse scrapes a listing page with a two-pass strategy: semantic
// article containers first, then headline anchors when the first pass
// comes up short. Results are deduplicated by URL within the page and
// every URL passes the safety filter.
func (l *Lister) Parse(content []byte, domain, baseURL string) []entity.Article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		l.logger.Warn("unparseable html",
			slog.String("domain", domain),
			slog.String("error", err.Error()))
		return nil
	}

	doc.Find(strippedSelectors).Remove()

	var articles []entity.Article
	seen := make(map[string]struct{})

	// Pass 1: semantic containers.
	for _, selector := range articleSelectors {
		doc.Find(selector).EachWithBreak(func(i int, item *goquery.Selection) bool {
			if i >= containersPerSelector || len(articles) >= l.maxArticles {
				return false
			}
			art, ok := l.extractContainer(item, domain, baseURL)
			if !ok {
				return true
			}
			if _, dup := seen[art.URL]; dup {
				return true
			}
			seen[art.URL] = struct{}{}
			articles = append(articles, art)
			return true
		})
		if len(articles) >= l.maxArticles {
			break
		}
	}

	// Pass 2: headline anchors, only when pass 1 was thin.
	if len(articles) < headlineFallbackThreshold {
		articles = l.headlinePass(doc, domain, baseURL, articles, seen)
	}

	return articles
}

// extractContainer pulls one article out of a matched container.
func (l *Lister) extractContainer(item *goquery.Selection, domain, baseURL string) (entity.Article, bool) {
	var titleElem *goquery.Selection
	for _, sel := range titleSelectors {
		if found := item.Find(sel).First(); found.Length() > 0 {
			titleElem = found
			break
		}
	}
	if titleElem == nil {
		if found := item.Find("a").First(); found.Length() > 0 {
			titleElem = found
		} else {
			return entity.Article{}, false
		}
	}

	title := entity.SanitizeString(titleElem.Text(), entity.MaxTitleLen)
	if len(title) < minTitleLen {
		return entity.Article{}, false
	}

	linkElem := titleElem
	if !titleElem.Is("a") {
		linkElem = titleElem.Find("a").First()
		if linkElem.Length() == 0 {
			linkElem = item.Find("a").First()
		}
	}
	href, _ := linkElem.Attr("href")
	urlStr := fetch.NormalizeURL(href, domain, baseURL)
	if urlStr == "" {
		return entity.Article{}, false
	}

	art := entity.Article{
		Title:        title,
		URL:          urlStr,
		SourceDomain: domain,
	}

	for _, sel := range dateSelectors {
		elem := item.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		raw, hasAttr := elem.Attr("datetime")
		if !hasAttr {
			raw = elem.Text()
		}
		if t, ok := l.dates.ParseTime(raw); ok {
			art.SetPublished(t)
			break
		}
	}

	if p := item.Find("p").First(); p.Length() > 0 {
		art.Summary = entity.SanitizeString(p.Text(), 500)
	}
	if byline := item.Find(`[class*="author"], [class*="byline"]`).First(); byline.Length() > 0 {
		art.Author = entity.SanitizeString(byline.Text(), entity.MaxAuthorLen)
	}

	return art, true
}

// headlinePass scans h1/h2/h3 elements whose child or parent is an
// anchor and uses the heading text as the title.
func (l *Lister) headlinePass(doc *goquery.Document, domain, baseURL string, articles []entity.Article, seen map[string]struct{}) []entity.Article {
	for _, tag := range []string{"h1", "h2", "h3"} {
		doc.Find(tag).EachWithBreak(func(i int, heading *goquery.Selection) bool {
			if i >= headlinesPerTag || len(articles) >= l.maxArticles {
				return false
			}

			link := heading.Find("a").First()
			if link.Length() == 0 {
				parent := heading.Parent()
				if !parent.Is("a") {
					return true
				}
				link = parent
			}
			href, ok := link.Attr("href")
			if !ok {
				return true
			}

			urlStr := fetch.NormalizeURL(href, domain, baseURL)
			if urlStr == "" {
				return true
			}
			if _, dup := seen[urlStr]; dup {
				return true
			}

			title := entity.SanitizeString(heading.Text(), entity.MaxTitleLen)
			if len(title) < minTitleLen {
				return true
			}

			seen[urlStr] = struct{}{}
			articles = append(articles, entity.Article{
				Title:        title,
				URL:          urlStr,
				SourceDomain: domain,
			})
			return true
		})
		if len(articles) >= l.maxArticles {
			break
		}
	}
	return articles
}
