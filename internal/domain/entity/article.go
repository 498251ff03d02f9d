// Package entity defines the core domain records shared across the
// application: articles, publishers and their sources, and the typed
// error kinds surfaced to callers.
package entity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits applied during sanitization.
const (
	MaxTitleLen   = 300
	MaxSummaryLen = 1000
	MaxAuthorLen  = 100
	MaxTagLen     = 50
	MaxTags       = 5
)

// Article is a normalized news article produced by one of the parsers.
// Title and URL are required; every other field may be empty. After an
// article is returned to the caller it is treated as immutable.
type Article struct {
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	PublishedAt  string   `json:"published_at,omitempty"` // ISO-8601 UTC, or empty
	Summary      string   `json:"summary,omitempty"`
	Author       string   `json:"author,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	SourceDomain string   `json:"source_domain"`
	FullContent  string   `json:"full_content,omitempty"`
	ContentLen   int      `json:"content_length,omitempty"`
	DeepScraped  bool     `json:"deep_scraped,omitempty"`

	publishedTS time.Time // parsed form of PublishedAt, cached
}

// SetPublished records the publication time in both the wire format
// (ISO-8601 UTC string) and the cached time.Time used for sorting.
func (a *Article) SetPublished(t time.Time) {
	t = t.UTC()
	a.PublishedAt = t.Format(time.RFC3339)
	a.publishedTS = t
}

// PublishedTime returns the parsed publication time and whether one is
// set. Articles without a date report false and sort last.
func (a *Article) PublishedTime() (time.Time, bool) {
	if !a.publishedTS.IsZero() {
		return a.publishedTS, true
	}
	if a.PublishedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}, false
	}
	a.publishedTS = t.UTC()
	return a.publishedTS, true
}

// Fingerprint returns the dedup key pair for the article: the
// lowercased URL with any trailing slash stripped, and the
// whitespace-normalized lowercased title.
func (a *Article) Fingerprint() (urlKey, titleKey string) {
	return NormalizeURLKey(a.URL), NormalizeTitleKey(a.Title)
}

// NormalizeURLKey lowercases a URL and strips trailing slashes so the
// same page reached via two feeds collapses to one key.
func NormalizeURLKey(u string) string {
	return strings.TrimRight(strings.ToLower(u), "/")
}

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeTitleKey collapses whitespace and lowercases a title.
func NormalizeTitleKey(t string) string {
	return spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(t)), " ")
}

var controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)

// SanitizeString strips control characters, collapses whitespace and
// truncates to maxLen. Used for all display fields.
func SanitizeString(s string, maxLen int) string {
	s = controlChars.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(Truncate(s, maxLen))
}

// SanitizeFilterKeyword sanitizes a topic or location filter value:
// control characters stripped, whitespace collapsed, lowercased and
// capped at 100 characters. More permissive than SanitizeString since
// the value is matched, not displayed.
func SanitizeFilterKeyword(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(strings.TrimSpace(Truncate(s, 100)))
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 rune;
// the result is always valid UTF-8 when the input is.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
