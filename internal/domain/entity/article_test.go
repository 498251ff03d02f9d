package entity

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURLKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "https://Example.com/Article", "https://example.com/article"},
		{"strips trailing slash", "https://example.com/article/", "https://example.com/article"},
		{"strips repeated slashes", "https://example.com/a///", "https://example.com/a"},
		{"unchanged when already normal", "https://example.com/a", "https://example.com/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURLKey(tt.in))
		})
	}
}

func TestNormalizeTitleKey(t *testing.T) {
	assert.Equal(t, "breaking news today", NormalizeTitleKey("  Breaking   News\tToday "))
	assert.Equal(t, "", NormalizeTitleKey("   "))
}

func TestFingerprint(t *testing.T) {
	a := Article{Title: "Big  Story", URL: "https://Example.com/x/"}
	urlKey, titleKey := a.Fingerprint()
	assert.Equal(t, "https://example.com/x", urlKey)
	assert.Equal(t, "big story", titleKey)
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"strips control chars", "hello\x00world\x1f!", 100, "helloworld!"},
		{"collapses whitespace", "a \t b\n\nc", 100, "a b c"},
		{"truncates", "abcdefghij", 5, "abcde"},
		{"empty stays empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeString(tt.in, tt.maxLen))
		})
	}
}

func TestSanitizeFilterKeyword(t *testing.T) {
	assert.Equal(t, "machine learning", SanitizeFilterKeyword("  Machine   Learning "))

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, SanitizeFilterKeyword(string(long)), 100)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"under the cap", "short", 10, "short"},
		{"exactly the cap", "short", 5, "short"},
		{"ascii cut", "abcdefgh", 5, "abcde"},
		{"multibyte boundary kept", "日本語", 6, "日本"},
		{"multibyte walk-back", "日本語", 5, "日"},
		{"zero cap", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestSanitizeStringKeepsValidUTF8(t *testing.T) {
	in := strings.Repeat("日", 150)
	got := SanitizeString(in, 301)
	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.LessOrEqual(t, len(got), 301)
	assert.Equal(t, strings.Repeat("日", 100), got)
}

func TestSanitizeFilterKeywordKeepsValidUTF8(t *testing.T) {
	got := SanitizeFilterKeyword(strings.Repeat("日", 40))
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 100)
}

func TestSetPublishedRoundTrip(t *testing.T) {
	var a Article
	ts := time.Date(2026, 8, 20, 10, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	a.SetPublished(ts)

	assert.Equal(t, "2026-08-20T05:00:00Z", a.PublishedAt)
	got, ok := a.PublishedTime()
	require.True(t, ok)
	assert.True(t, got.Equal(ts))
}

func TestPublishedTimeFromWireString(t *testing.T) {
	a := Article{PublishedAt: "2026-08-19T12:00:00Z"}
	got, ok := a.PublishedTime()
	require.True(t, ok)
	assert.Equal(t, 2026, got.Year())

	missing := Article{}
	_, ok = missing.PublishedTime()
	assert.False(t, ok)

	garbage := Article{PublishedAt: "not a date"}
	_, ok = garbage.PublishedTime()
	assert.False(t, ok)
}

func TestPublisherValidate(t *testing.T) {
	valid := Publisher{
		Domain: "example.com",
		Sources: []Source{
			{Type: SourceOfficialRSS, URL: "https://example.com/feed", Priority: 1},
		},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		pub  Publisher
	}{
		{"missing domain", Publisher{Sources: valid.Sources}},
		{"no sources", Publisher{Domain: "example.com"}},
		{"source without url", Publisher{Domain: "example.com", Sources: []Source{{Type: SourceRSSHub}}}},
		{"unknown source type", Publisher{Domain: "example.com", Sources: []Source{{Type: "ftp", URL: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.pub.Validate(), ErrInvalidArgument)
		})
	}
}

func TestSourceTimeout(t *testing.T) {
	assert.Equal(t, 2500*time.Millisecond, Source{TimeoutMS: 2500}.Timeout(time.Second))
	assert.Equal(t, time.Second, Source{}.Timeout(time.Second))
}
