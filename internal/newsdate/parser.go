// Package newsdate parses the publication dates found in real-world
// feeds and pages. A fixed sequence of layouts is tried in order, then
// a permissive fallback; results are memoized because feed parsing
// calls this for every entry.
package newsdate

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Layouts is the ordered list of date layouts tried before the
// permissive fallback. The list is load-bearing for real-world feeds;
// do not prune it.
var Layouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02 Jan 2006 15:04:05 -0700",
	"02 Jan 2006 15:04:05",
	"02 Jan 2006",
	"02 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
	time.RFC1123Z, // RFC 2822 with numeric zone
	time.RFC1123,  // RFC 2822 with zone name
}

// memoSize bounds the parse memo.
const memoSize = 1000

// Parser converts date strings to ISO-8601 UTC. Safe for concurrent
// use; construct once and share.
type Parser struct {
	memo *lru.Cache[string, string]
}

// NewParser creates a Parser with a bounded memo.
func NewParser() *Parser {
	memo, _ := lru.New[string, string](memoSize)
	return &Parser{memo: memo}
}

// Parse returns the ISO-8601 UTC rendering of raw, or the empty string
// when no layout and no fallback can read it. Sources without timezone
// information are assumed UTC.
func (p *Parser) Parse(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if cached, ok := p.memo.Get(raw); ok {
		return cached
	}

	result := ""
	if t, ok := parse(raw); ok {
		result = t.UTC().Format(time.RFC3339)
	}
	p.memo.Add(raw, result)
	return result
}

// ParseTime is Parse returning the time itself.
func (p *Parser) ParseTime(raw string) (time.Time, bool) {
	iso := p.Parse(raw)
	if iso == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parse(raw string) (time.Time, bool) {
	// Common timezone abbreviations that Go's layouts handle
	// inconsistently; normalized to a numeric zone first.
	normalized := strings.ReplaceAll(raw, "GMT", "+0000")
	normalized = strings.ReplaceAll(normalized, "UTC", "+0000")

	for _, layout := range Layouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	// Some feeds emit the abbreviation forms the normalization above
	// mangles (e.g. "Mon, 02 Jan 2006 15:04:05 GMT" parses as RFC1123
	// only in its original form).
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	// Permissive fallback for everything else the wild emits.
	if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}
