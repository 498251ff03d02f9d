// Package feed parses RSS/Atom documents into normalized articles
// using gofeed. Malformed feeds parse as far as possible; entries
// missing a title or link are skipped silently.
package feed

import (
	"bytes"
	"log/slog"

	"github.com/mmcdole/gofeed"

	"newsnexus/internal/domain/entity"
	"newsnexus/internal/fetch"
	"newsnexus/internal/newsdate"
)

// Parser converts feed documents to articles. Safe for concurrent use.
type Parser struct {
	dates       *newsdate.Parser
	maxArticles int
	logger      *slog.Logger
}

// NewParser creates a feed parser capped at maxArticles per document.
func NewParser(dates *newsdate.Parser, maxArticles int, logger *slog.Logger) *Parser {
	return &Parser{dates: dates, maxArticles: maxArticles, logger: logger}
}

// Parse extracts up to the configured maximum of articles from an
// RSS/Atom document. domain labels every produced article. Aggregator
// redirect links are retained as-is; links failing the safety filter
// are dropped.
func (p *Parser) Parse(content []byte, domain string) []entity.Article {
	fp := gofeed.NewParser()
	parsed, err := fp.Parse(bytes.NewReader(content))
	if err != nil {
		p.logger.Warn("malformed feed",
			slog.String("domain", domain),
			slog.String("error", err.Error()))
		return nil
	}

	articles := make([]entity.Article, 0, min(len(parsed.Items), p.maxArticles))
	for _, item := range parsed.Items {
		if len(articles) >= p.maxArticles {
			break
		}

		title := entity.SanitizeString(item.Title, entity.MaxTitleLen)
		link := item.Link
		if title == "" || link == "" {
			continue
		}
		if err := fetch.ValidateURL(link); err != nil {
			continue
		}

		art := entity.Article{
			Title:        title,
			URL:          link,
			SourceDomain: domain,
		}

		// Structured parsed-time fields first, then the raw strings.
		switch {
		case item.PublishedParsed != nil:
			art.SetPublished(*item.PublishedParsed)
		case item.UpdatedParsed != nil:
			art.SetPublished(*item.UpdatedParsed)
		default:
			for _, raw := range []string{item.Published, item.Updated} {
				if raw == "" {
					continue
				}
				if t, ok := p.dates.ParseTime(raw); ok {
					art.SetPublished(t)
					break
				}
			}
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		art.Summary = entity.SanitizeString(summary, entity.MaxSummaryLen)

		if item.Author != nil {
			art.Author = entity.SanitizeString(item.Author.Name, entity.MaxAuthorLen)
		} else if len(item.Authors) > 0 && item.Authors[0] != nil {
			art.Author = entity.SanitizeString(item.Authors[0].Name, entity.MaxAuthorLen)
		}

		for _, cat := range item.Categories {
			if len(art.Tags) >= entity.MaxTags {
				break
			}
			if tag := entity.SanitizeString(cat, entity.MaxTagLen); tag != "" {
				art.Tags = append(art.Tags, tag)
			}
		}

		articles = append(articles, art)
	}

	return articles
}
