package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newsnexus/internal/domain/entity"
)

func TestValidateURLAccepts(t *testing.T) {
	valid := []string{
		"https://example.com/feed.xml",
		"http://example.com/",
		"https://news.google.com/rss/search?q=site:example.com",
		"https://example.com:8443/path",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), u)
	}
}

func TestValidateURLRejects(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
		{"data scheme", "data:text/html,hi"},
		{"vbscript scheme", "vbscript:msgbox"},
		{"ftp scheme", "ftp://example.com/file"},
		{"localhost", "http://localhost:8080/"},
		{"localhost subdomain", "http://evil.localhost/"},
		{"loopback ipv4", "http://127.0.0.1/admin"},
		{"loopback range", "http://127.1.2.3/"},
		{"loopback ipv6", "http://[::1]/"},
		{"private 10", "http://10.0.0.5/"},
		{"private 172", "http://172.16.0.1/"},
		{"private 192", "http://192.168.1.1/router"},
		{"link local", "http://169.254.169.254/metadata"},
		{"unspecified", "http://0.0.0.0/"},
		{"no host", "https:///path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			assert.ErrorIs(t, err, entity.ErrInvalidArgument)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		domain  string
		baseURL string
		want    string
	}{
		{"absolute kept", "https://example.com/story", "example.com", "https://example.com/", "https://example.com/story"},
		{"protocol relative", "//cdn.example.com/story", "example.com", "https://example.com/", "https://cdn.example.com/story"},
		{"root relative uses base", "/story/1", "example.com", "https://www.example.com/news", "https://www.example.com/story/1"},
		{"bare path uses domain", "story/1", "example.com", "https://example.com/", "https://example.com/story/1"},
		{"fragment dropped", "#top", "example.com", "https://example.com/", ""},
		{"javascript dropped", "javascript:void(0)", "example.com", "https://example.com/", ""},
		{"mailto dropped", "mailto:tips@example.com", "example.com", "https://example.com/", ""},
		{"empty dropped", "  ", "example.com", "https://example.com/", ""},
		{"blocked target dropped", "http://127.0.0.1/x", "example.com", "https://example.com/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.raw, tt.domain, tt.baseURL))
		})
	}
}
