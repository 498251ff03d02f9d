package registry

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const sampleConfig = `[
  {
    "domain": "openai.com",
    "priority": 1,
    "sources": [
      {"type": "official_rss", "url": "https://openai.com/blog/rss.xml", "priority": 1}
    ]
  },
  {
    "domain": "www.wired.com",
    "priority": 2,
    "sources": [
      {"type": "official_rss", "url": "https://www.wired.com/feed/rss", "priority": 1},
      {"type": "google_news", "url": "https://news.google.com/rss/search?q=site:wired.com", "priority": 2}
    ]
  },
  {
    "domain": "",
    "sources": [
      {"type": "official_rss", "url": "https://broken.example/feed", "priority": 1}
    ]
  },
  {
    "domain": "nosources.com",
    "sources": []
  }
]`

func TestLoadSkipsInvalidEntries(t *testing.T) {
	r, err := Load(writeConfig(t, sampleConfig), testLogger())
	require.NoError(t, err)
	assert.Len(t, r.All(), 2, "entries without domain or sources are skipped")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), testLogger())
	assert.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	_, err := Load(writeConfig(t, "{not json"), testLogger())
	assert.Error(t, err)
}

func TestFindExact(t *testing.T) {
	r, err := Load(writeConfig(t, sampleConfig), testLogger())
	require.NoError(t, err)

	pub := r.Find("openai.com")
	require.NotNil(t, pub)
	assert.Equal(t, "openai.com", pub.Domain)
}

func TestFindWWWVariants(t *testing.T) {
	r, err := Load(writeConfig(t, sampleConfig), testLogger())
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"www added by caller", "www.openai.com", "openai.com"},
		{"www stripped by caller", "wired.com", "www.wired.com"},
		{"configured www form", "www.wired.com", "www.wired.com"},
		{"case insensitive", "OpenAI.com", "openai.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := r.Find(tt.query)
			require.NotNil(t, pub)
			assert.Equal(t, tt.want, pub.Domain)
		})
	}
}

func TestFindPartialName(t *testing.T) {
	r, err := Load(writeConfig(t, sampleConfig), testLogger())
	require.NoError(t, err)

	pub := r.Find("openai")
	require.NotNil(t, pub, "partial names resolve to configured domains")
	assert.Equal(t, "openai.com", pub.Domain)

	assert.Nil(t, r.Find("unconfigured.net"))
}

func TestDomains(t *testing.T) {
	r, err := Load(writeConfig(t, sampleConfig), testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"openai.com", "www.wired.com"}, r.Domains())
}

func TestTopPriority(t *testing.T) {
	config := `[
	  {"domain": "a.com", "priority": 3, "sources": [{"type": "official_rss", "url": "https://a.com/feed", "priority": 1}]},
	  {"domain": "b.com", "priority": 1, "sources": [{"type": "official_rss", "url": "https://b.com/feed", "priority": 1}]},
	  {"domain": "c.com", "priority": 99, "sources": [{"type": "official_rss", "url": "https://c.com/feed", "priority": 1}]},
	  {"domain": "d.com", "sources": [{"type": "official_rss", "url": "https://d.com/feed", "priority": 1}]}
	]`
	r, err := Load(writeConfig(t, config), testLogger())
	require.NoError(t, err)

	picked := r.TopPriority(12, 12)
	require.Len(t, picked, 2, "unranked and out-of-range publishers are excluded")
	assert.Equal(t, "b.com", picked[0].Domain)
	assert.Equal(t, "a.com", picked[1].Domain)

	assert.Len(t, r.TopPriority(12, 1), 1)
}
