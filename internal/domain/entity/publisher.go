package entity

import (
	"fmt"
	"strings"
	"time"
)

// SourceType identifies one way of obtaining articles from a publisher.
type SourceType string

// The four source types, in descending quality order. The wire names
// match the publisher configuration document.
const (
	SourceOfficialRSS SourceType = "official_rss" // publisher-native feed
	SourceRSSHub      SourceType = "rsshub"       // third-party feed proxy
	SourceGoogleNews  SourceType = "google_news"  // aggregator feed
	SourceScraper     SourceType = "scraper"      // direct page scraping
)

// IsFeed reports whether the source yields an RSS/Atom document.
func (t SourceType) IsFeed() bool {
	switch t {
	case SourceOfficialRSS, SourceRSSHub, SourceGoogleNews:
		return true
	}
	return false
}

// Valid reports whether t is one of the four known source types.
func (t SourceType) Valid() bool {
	return t.IsFeed() || t == SourceScraper
}

// Source is one configured way to fetch articles from a publisher.
// Priority ranks sources within the publisher; lower is tried earlier,
// and sources sharing a rank form a parallel tier.
type Source struct {
	Type      SourceType `json:"type"`
	URL       string     `json:"url"`
	Priority  int        `json:"priority"`
	TimeoutMS int        `json:"timeout_ms,omitempty"`
}

// Timeout returns the per-source fetch deadline, falling back to def
// when the configuration does not set one.
func (s Source) Timeout(def time.Duration) time.Duration {
	if s.TimeoutMS > 0 {
		return time.Duration(s.TimeoutMS) * time.Millisecond
	}
	return def
}

// Publisher is a news site identified by a canonical domain with an
// ordered set of sources. Priority, when set, is the publisher's rank
// in cross-publisher aggregation (lower = fetched first).
type Publisher struct {
	Domain   string   `json:"domain"`
	Priority int      `json:"priority,omitempty"` // 0 means unranked
	Sources  []Source `json:"sources"`
}

// Validate checks the invariants every configured publisher must hold:
// a domain and at least one source with a URL and a known type.
func (p *Publisher) Validate() error {
	if strings.TrimSpace(p.Domain) == "" {
		return fmt.Errorf("%w: publisher domain is required", ErrInvalidArgument)
	}
	if len(p.Sources) == 0 {
		return fmt.Errorf("%w: publisher %s has no sources", ErrInvalidArgument, p.Domain)
	}
	for i, src := range p.Sources {
		if src.URL == "" {
			return fmt.Errorf("%w: publisher %s source %d has no url", ErrInvalidArgument, p.Domain, i)
		}
		if !src.Type.Valid() {
			return fmt.Errorf("%w: publisher %s source %d has unknown type %q", ErrInvalidArgument, p.Domain, i, src.Type)
		}
	}
	return nil
}
