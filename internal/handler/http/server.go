// Package http exposes the news service over REST, a JSON-RPC bridge
// and an SSE keepalive stream, alongside the Prometheus scrape
// endpoint.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsnexus/internal/handler/http/requestid"
	"newsnexus/internal/handler/http/respond"
	"newsnexus/internal/handler/rpc"
	"newsnexus/internal/usecase/news"
)

// maxRPCBodyBytes bounds a POST /rpc request body.
const maxRPCBodyBytes = 1 << 20

// sseKeepaliveInterval is the comment-frame cadence on /sse.
const sseKeepaliveInterval = 15 * time.Second

// Handler serves the HTTP surface.
type Handler struct {
	service *news.Service
	rpc     *rpc.Handler
	logger  *slog.Logger
}

// NewHandler wires the HTTP surface.
func NewHandler(service *news.Service, rpcHandler *rpc.Handler, logger *slog.Logger) *Handler {
	return &Handler{service: service, rpc: rpcHandler, logger: logger}
}

// Router assembles the route table with the shared middleware chain.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /articles", h.handleArticles)
	mux.HandleFunc("GET /top-news", h.handleTopNews)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /metrics-json", h.handleMetricsJSON)
	mux.HandleFunc("POST /rpc", h.handleRPC)
	mux.HandleFunc("GET /sse", h.handleSSE)
	mux.Handle("GET /metrics", promhttp.Handler())

	return requestid.Middleware(h.logRequests(mux))
}

// logRequests emits one access-log line per request.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", requestid.FromContext(r.Context())),
			slog.Duration("duration", time.Since(start)))
	})
}

func (h *Handler) handleArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	domain := q.Get("domain")
	if domain == "" {
		respond.Error(w, http.StatusBadRequest, "domain query parameter is required")
		return
	}

	resp := h.service.GetArticles(r.Context(), news.ArticlesRequest{
		Domain:    domain,
		Topic:     q.Get("topic"),
		Location:  q.Get("location"),
		LastNDays: intParam(q.Get("lastNDays")),
		Count:     intParam(q.Get("count")),
		FastMode:  q.Get("fast_mode") == "true",
	})

	status := http.StatusOK
	switch {
	case resp.RetryAfter > 0:
		status = http.StatusTooManyRequests
		w.Header().Set("Retry-After", strconv.Itoa(resp.RetryAfter))
	case resp.Error != "":
		status = http.StatusBadRequest
	}
	respond.JSON(w, status, resp)
}

func (h *Handler) handleTopNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := h.service.GetTopNews(r.Context(), news.TopNewsRequest{
		Count:     intParam(q.Get("count")),
		Topic:     q.Get("topic"),
		Location:  q.Get("location"),
		LastNDays: intParam(q.Get("lastNDays")),
	})
	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.service.Health())
}

func (h *Handler) handleMetricsJSON(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.service.Metrics())
}

// handleRPC bridges one JSON-RPC request over HTTP. Notifications get
// 204 No Content since the protocol produces no reply for them.
func (h *Handler) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRPCBodyBytes))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	resp := h.rpc.HandleLine(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

// handleSSE holds an event stream open with periodic keepalives so
// clients can confirm liveness without polling.
func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ready, _ := json.Marshal(map[string]string{"status": "connected", "version": news.Version})
	fmt.Fprintf(w, "event: ready\ndata: %s\n\n", ready)
	flusher.Flush()

	ticker := time.NewTicker(sseKeepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func intParam(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
