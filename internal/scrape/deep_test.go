package scrape

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsnexus/internal/newsdate"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First sentence. Second one! Third here? Trailing fragment")
	require.Len(t, got, 4)
	assert.Equal(t, "First sentence.", got[0])
	assert.Equal(t, " Second one!", got[1])
	assert.Equal(t, " Third here?", got[2])
	assert.Equal(t, " Trailing fragment", got[3])
}

func TestGenerateSummary(t *testing.T) {
	d := &DeepScraper{summaryLen: 500}

	content := "The company announced a major product overhaul on Tuesday. " +
		"Click here to subscribe to our newsletter. " +
		"Executives said the rollout would begin next quarter. " +
		"Ok."
	summary := d.generateSummary(content)

	assert.Contains(t, summary, "major product overhaul")
	assert.Contains(t, summary, "rollout would begin")
	assert.NotContains(t, summary, "Click here", "boilerplate sentences are skipped")
	assert.NotContains(t, summary, "Ok.", "fragments under the length floor are skipped")
}

func TestGenerateSummaryTruncatesLastSentence(t *testing.T) {
	d := &DeepScraper{summaryLen: 120}

	long := strings.Repeat("word ", 40) + "end."
	summary := d.generateSummary("A reasonable opening sentence sets the scene here. " + long)

	assert.LessOrEqual(t, len(summary), 120)
	assert.True(t, strings.HasSuffix(summary, "..."), "partial sentence is marked truncated")
}

func TestGenerateSummaryTruncatesOnRuneBoundary(t *testing.T) {
	d := &DeepScraper{summaryLen: 59}

	summary := d.generateSummary(strings.Repeat("日", 40) + ".")

	assert.True(t, utf8.ValidString(summary), "truncation must not split a rune")
	assert.True(t, strings.HasSuffix(summary, "..."))
	assert.LessOrEqual(t, len(summary), 59)
}

func TestGenerateSummaryEmpty(t *testing.T) {
	d := &DeepScraper{summaryLen: 500}
	assert.Equal(t, "", d.generateSummary(""))
	assert.Equal(t, "", d.generateSummary("Short. Tiny. No."))
}

func TestExtractDateJSONLD(t *testing.T) {
	d := &DeepScraper{dates: newsdate.NewParser()}
	doc := docFrom(t, `<html><head>
	<script type="application/ld+json">
	{"@type": "NewsArticle", "datePublished": "2026-08-19T09:00:00Z", "headline": "x"}
	</script>
	</head><body></body></html>`)

	assert.Equal(t, "2026-08-19T09:00:00Z", d.extractDate(doc))
}

func TestExtractDateJSONLDGraph(t *testing.T) {
	d := &DeepScraper{dates: newsdate.NewParser()}
	doc := docFrom(t, `<html><head>
	<script type="application/ld+json">
	{"@graph": [{"@type": "WebPage"}, {"@type": "NewsArticle", "dateCreated": "2026-08-18"}]}
	</script>
	</head><body></body></html>`)

	assert.Equal(t, "2026-08-18T00:00:00Z", d.extractDate(doc))
}

func TestExtractDateMetaFallback(t *testing.T) {
	d := &DeepScraper{dates: newsdate.NewParser()}
	doc := docFrom(t, `<html><head>
	<meta property="article:published_time" content="2026-08-17T08:00:00Z">
	</head><body></body></html>`)

	assert.Equal(t, "2026-08-17T08:00:00Z", d.extractDate(doc))
}

func TestExtractDateVisibleFallback(t *testing.T) {
	d := &DeepScraper{dates: newsdate.NewParser()}
	doc := docFrom(t, `<html><body>
	<time datetime="2026-08-16T07:00:00Z">Aug 16</time>
	</body></html>`)

	assert.Equal(t, "2026-08-16T07:00:00Z", d.extractDate(doc))
}

func TestExtractDateNone(t *testing.T) {
	d := &DeepScraper{dates: newsdate.NewParser()}
	doc := docFrom(t, `<html><body><p>No dates anywhere.</p></body></html>`)
	assert.Equal(t, "", d.extractDate(doc))
}

func TestExtractAuthorShapes(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"json-ld object author",
			`<script type="application/ld+json">{"author": {"name": "Jane Writer"}}</script>`,
			"Jane Writer",
		},
		{
			"json-ld string author",
			`<script type="application/ld+json">{"author": "Jane Writer"}</script>`,
			"Jane Writer",
		},
		{
			"json-ld author array",
			`<script type="application/ld+json">{"author": [{"name": "Jane Writer"}, {"name": "Second"}]}</script>`,
			"Jane Writer",
		},
		{
			"meta author",
			`<meta name="author" content="Jane Writer">`,
			"Jane Writer",
		},
		{
			"visible byline",
			`<span class="byline">Jane Writer</span>`,
			"Jane Writer",
		},
		{
			"none",
			`<p>No byline here.</p>`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docFrom(t, "<html><head>"+tt.html+"</head><body>"+tt.html+"</body></html>")
			assert.Equal(t, tt.want, extractAuthor(doc))
		})
	}
}

func TestExtractContentParagraphs(t *testing.T) {
	d := &DeepScraper{}
	html := `<html><body>
	<nav><p>Site navigation links that are long enough to count.</p></nav>
	<article>
	  <p>The first body paragraph carries the main reporting of the story.</p>
	  <p>tiny</p>
	  <p>The second body paragraph continues with additional details and quotes.</p>
	</article>
	<div class="related"><p>Related stories you might be interested in reading next.</p></div>
	</body></html>`
	doc := docFrom(t, html)

	content := d.extractContent(doc, []byte(html), "https://example.com/story")

	assert.Contains(t, content, "first body paragraph")
	assert.Contains(t, content, "second body paragraph")
	assert.NotContains(t, content, "tiny")
	assert.NotContains(t, content, "navigation links")
	assert.NotContains(t, content, "Related stories")
}
