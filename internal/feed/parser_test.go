package feed

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsnexus/internal/newsdate"
)

func newTestParser(max int) *Parser {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewParser(newsdate.NewParser(), max, logger)
}

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <item>
      <title>First headline of the day</title>
      <link>https://example.com/first</link>
      <description>A short summary of the first story.</description>
      <pubDate>Wed, 19 Aug 2026 09:00:00 GMT</pubDate>
      <author>jane@example.com (Jane Writer)</author>
      <category>tech</category>
      <category>ai</category>
    </item>
    <item>
      <title>Second headline arrives</title>
      <link>https://example.com/second</link>
      <pubDate>Tue, 18 Aug 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://example.com/no-title</link>
    </item>
    <item>
      <title>Blocked destination</title>
      <link>http://127.0.0.1/internal</link>
    </item>
  </channel>
</rss>`

func TestParseRSS(t *testing.T) {
	p := newTestParser(50)
	articles := p.Parse([]byte(sampleRSS), "example.com")

	require.Len(t, articles, 2, "items without a title or with a blocked link are skipped")

	first := articles[0]
	assert.Equal(t, "First headline of the day", first.Title)
	assert.Equal(t, "https://example.com/first", first.URL)
	assert.Equal(t, "example.com", first.SourceDomain)
	assert.Equal(t, "2026-08-19T09:00:00Z", first.PublishedAt)
	assert.Equal(t, "A short summary of the first story.", first.Summary)
	assert.Equal(t, []string{"tech", "ai"}, first.Tags)
	assert.NotEmpty(t, first.Author)

	second := articles[1]
	assert.Equal(t, "Second headline arrives", second.Title)
	assert.Empty(t, second.Summary)
}

func TestParseRSSRespectsMax(t *testing.T) {
	p := newTestParser(1)
	articles := p.Parse([]byte(sampleRSS), "example.com")
	assert.Len(t, articles, 1)
}

func TestParseAtom(t *testing.T) {
	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Blog</title>
  <entry>
    <title>Atom entry headline</title>
    <link href="https://example.com/atom-entry"/>
    <updated>2026-08-19T12:00:00Z</updated>
    <summary>Atom summary text.</summary>
  </entry>
</feed>`

	p := newTestParser(50)
	articles := p.Parse([]byte(atom), "example.com")

	require.Len(t, articles, 1)
	assert.Equal(t, "Atom entry headline", articles[0].Title)
	assert.Equal(t, "https://example.com/atom-entry", articles[0].URL)
	assert.Equal(t, "2026-08-19T12:00:00Z", articles[0].PublishedAt)
}

func TestParseMalformed(t *testing.T) {
	p := newTestParser(50)
	assert.Nil(t, p.Parse([]byte("this is not xml"), "example.com"))
	assert.Nil(t, p.Parse(nil, "example.com"))
}

func TestParseEmptyFeed(t *testing.T) {
	empty := `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`
	p := newTestParser(50)
	assert.Empty(t, p.Parse([]byte(empty), "example.com"))
}
