package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsnexus/internal/domain/entity"
	"newsnexus/internal/observability/metrics"
)

func newTestClient() (*Client, *metrics.Registry) {
	m := metrics.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(m, logger), m
}

// scriptedTransport plays back one canned outcome per round trip,
// repeating the last one when the script runs out.
type scriptedTransport struct {
	mu      sync.Mutex
	calls   int
	outcome []func() (*http.Response, error)
}

func (t *scriptedTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.mu.Lock()
	i := t.calls
	t.calls++
	t.mu.Unlock()
	if i >= len(t.outcome) {
		i = len(t.outcome) - 1
	}
	return t.outcome[i]()
}

func (t *scriptedTransport) roundTrips() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

func okResponse(body string) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	}
}

func statusResponse(code int) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return &http.Response{
			StatusCode: code,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     make(http.Header),
		}, nil
	}
}

func connectionRefused() func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	}
}

func TestFetchRejectsBlockedURLBeforeNetwork(t *testing.T) {
	c, m := newTestClient()
	tr := &scriptedTransport{outcome: []func() (*http.Response, error){okResponse("never served")}}
	c.httpClient.Transport = tr

	blocked := []string{
		"http://127.0.0.1/feed",
		"http://localhost:8080/feed",
		"http://10.0.0.5/internal",
		"ftp://example.com/feed",
	}
	for _, u := range blocked {
		body, err := c.Fetch(context.Background(), u, time.Second)
		assert.ErrorIs(t, err, entity.ErrInvalidArgument, u)
		assert.Nil(t, body, u)
	}

	assert.Zero(t, tr.roundTrips(), "rejected URLs never reach the transport")
	stats := m.Snapshot()
	assert.Equal(t, int64(len(blocked)), stats.Counters["fetch_rejected"])
	assert.Zero(t, stats.Counters["fetch_failed"], "pre-flight rejections are not counted as fetch failures")
}

func TestFetchReturnsBody(t *testing.T) {
	c, m := newTestClient()
	c.httpClient.Transport = &scriptedTransport{outcome: []func() (*http.Response, error){okResponse("<rss/>")}}

	body, err := c.Fetch(context.Background(), "https://example.com/feed", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "<rss/>", string(body))

	stats := m.Snapshot()
	assert.Equal(t, int64(1), stats.Counters["fetch_success"])
	assert.Contains(t, stats.Histograms, "fetch_duration_ms")
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	c, m := newTestClient()
	c.httpClient.Transport = &scriptedTransport{outcome: []func() (*http.Response, error){statusResponse(http.StatusServiceUnavailable)}}

	body, err := c.Fetch(context.Background(), "https://example.com/feed", time.Second)
	assert.ErrorIs(t, err, entity.ErrUpstreamHTTP)
	assert.Nil(t, body)

	stats := m.Snapshot()
	assert.Equal(t, int64(1), stats.Counters["fetch_error"])
	assert.Equal(t, int64(1), stats.Counters["fetch_failed"])
}

func TestFetchDoesNotRetry(t *testing.T) {
	c, _ := newTestClient()
	tr := &scriptedTransport{outcome: []func() (*http.Response, error){connectionRefused(), okResponse("late")}}
	c.httpClient.Transport = tr

	_, err := c.Fetch(context.Background(), "https://example.com/feed", time.Second)
	assert.ErrorIs(t, err, entity.ErrUpstreamConnection)
	assert.Equal(t, 1, tr.roundTrips(), "cascade fetches fail fast so the next tier can take over")
}

func TestFetchArticleRetriesOnce(t *testing.T) {
	c, m := newTestClient()
	tr := &scriptedTransport{outcome: []func() (*http.Response, error){connectionRefused(), okResponse("<html/>")}}
	c.httpClient.Transport = tr

	body, err := c.FetchArticle(context.Background(), "https://example.com/story", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "<html/>", string(body))
	assert.Equal(t, 2, tr.roundTrips())

	stats := m.Snapshot()
	assert.Equal(t, int64(1), stats.Counters["fetch_success"])
	assert.Equal(t, int64(1), stats.Counters["fetch_connection_error"])
}

func TestFetchCapsBodySize(t *testing.T) {
	c, _ := newTestClient()
	huge := strings.Repeat("x", maxBodyBytes+1024)
	c.httpClient.Transport = &scriptedTransport{outcome: []func() (*http.Response, error){okResponse(huge)}}

	body, err := c.Fetch(context.Background(), "https://example.com/feed", time.Second)
	require.NoError(t, err)
	assert.Len(t, body, maxBodyBytes)
}

func TestArticleBreakerIsSeparateFromFeedBreaker(t *testing.T) {
	c, _ := newTestClient()
	c.httpClient.Transport = &scriptedTransport{outcome: []func() (*http.Response, error){connectionRefused()}}

	// Article fetches trip their breaker after three consecutive
	// failures; with one retry per call, two calls are enough.
	for i := 0; i < 2; i++ {
		_, err := c.FetchArticle(context.Background(), "https://example.com/story", time.Second)
		assert.Error(t, err)
	}
	_, err := c.FetchArticle(context.Background(), "https://example.com/story", time.Second)
	assert.ErrorIs(t, err, entity.ErrUpstreamConnection)

	assert.Same(t, c.breakerFor("example.com", true), c.breakerFor("example.com", true))
	assert.NotSame(t, c.breakerFor("example.com", true), c.breakerFor("example.com", false),
		"article and feed fetches fail independently per host")

	// The feed breaker has seen no failures and still lets a fetch
	// through to the transport.
	c.httpClient.Transport = &scriptedTransport{outcome: []func() (*http.Response, error){okResponse("<rss/>")}}
	body, err := c.Fetch(context.Background(), "https://example.com/feed", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "<rss/>", string(body))
}

func TestBreakerAndPacerAreReusedPerHost(t *testing.T) {
	c, _ := newTestClient()

	assert.Same(t, c.breakerFor("example.com", false), c.breakerFor("example.com", false))
	assert.Same(t, c.pacerFor("example.com"), c.pacerFor("example.com"))
	assert.NotSame(t, c.breakerFor("example.com", false), c.breakerFor("other.com", false))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "example.com", hostOf("https://example.com/feed"))
	assert.Equal(t, "example.com", hostOf("https://example.com:8443/feed"))
	assert.Equal(t, "news.google.com", hostOf("https://news.google.com/rss?q=x"))
}
