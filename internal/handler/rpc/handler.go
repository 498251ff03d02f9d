// Package rpc implements the line-delimited JSON-RPC tool protocol
// served over stdio and POST /rpc.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"newsnexus/internal/observability/metrics"
	"newsnexus/internal/usecase/news"
)

// protocolVersion is the tool-protocol revision we implement.
const protocolVersion = "2024-11-05"

// serverName identifies this server in the initialize handshake.
const serverName = "news-aggregator"

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is an incoming JSON-RPC message.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Response is an outgoing JSON-RPC message.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Handler dispatches JSON-RPC requests to the news service.
type Handler struct {
	service *news.Service
	metrics *metrics.Registry
	logger  *slog.Logger
}

// NewHandler wires the dispatcher.
func NewHandler(service *news.Service, reg *metrics.Registry, logger *slog.Logger) *Handler {
	return &Handler{service: service, metrics: reg, logger: logger}
}

// HandleLine processes one raw request line. The returned response is
// nil for notifications, which produce no output.
func (h *Handler) HandleLine(ctx context.Context, line []byte) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		h.logger.Error("invalid json received", slog.String("error", err.Error()))
		return errorResponse(nil, CodeParseError, "Parse error: Invalid JSON")
	}
	return h.Handle(ctx, &req)
}

// Handle dispatches a parsed request.
func (h *Handler) Handle(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic processing request",
				slog.String("method", req.Method),
				slog.Any("panic", r))
			h.metrics.Increment("server_errors")
			resp = errorResponse(req.ID, CodeInternalError, "Internal server error")
		}
	}()

	switch req.Method {
	case "initialize":
		return result(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{"listChanged": true},
			},
			"serverInfo": map[string]any{
				"name":    serverName,
				"version": news.Version,
			},
		})

	case "notifications/initialized":
		return nil

	case "tools/list":
		return result(req.ID, map[string]any{"tools": toolCatalog})

	case "tools/call":
		return h.handleToolCall(ctx, req)

	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// toolCallParams is the params shape of a tools/call request.
type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// articleArgs are get_articles tool arguments.
type articleArgs struct {
	Domain    string `json:"domain"`
	Topic     string `json:"topic"`
	Location  string `json:"location"`
	LastNDays int    `json:"lastNDays"`
	Count     int    `json:"count"`
	FastMode  bool   `json:"fast_mode"`
}

// topNewsArgs are get_top_news tool arguments.
type topNewsArgs struct {
	Count     int    `json:"count"`
	Topic     string `json:"topic"`
	Location  string `json:"location"`
	LastNDays int    `json:"lastNDays"`
}

func (h *Handler) handleToolCall(ctx context.Context, req *Request) *Response {
	var params toolCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInvalidRequest, fmt.Sprintf("Invalid request: %v", err))
		}
	}

	switch params.Name {
	case "get_articles":
		var args articleArgs
		if err := unmarshalArgs(params.Arguments, &args); err != nil {
			return errorResponse(req.ID, CodeInvalidRequest, err.Error())
		}
		payload := h.service.GetArticles(ctx, news.ArticlesRequest{
			Domain:    args.Domain,
			Topic:     args.Topic,
			Location:  args.Location,
			LastNDays: args.LastNDays,
			Count:     args.Count,
			FastMode:  args.FastMode,
		})
		return textResult(req.ID, payload)

	case "get_top_news":
		var args topNewsArgs
		if err := unmarshalArgs(params.Arguments, &args); err != nil {
			return errorResponse(req.ID, CodeInvalidRequest, err.Error())
		}
		payload := h.service.GetTopNews(ctx, news.TopNewsRequest{
			Count:     args.Count,
			Topic:     args.Topic,
			Location:  args.Location,
			LastNDays: args.LastNDays,
		})
		return textResult(req.ID, payload)

	case "health_check":
		return textResult(req.ID, h.service.Health())

	case "get_metrics":
		return textResult(req.ID, h.service.Metrics())

	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("Unknown tool: %s", params.Name))
	}
}

func unmarshalArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("Invalid request: bad arguments: %v", err)
	}
	return nil
}

// textResult wraps a tool payload in the content envelope the protocol
// requires: the JSON document rendered as a text block.
func textResult(id json.RawMessage, payload any) *Response {
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResponse(id, CodeInternalError, "Internal server error")
	}
	return result(id, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": string(text)},
		},
	})
}

func result(id json.RawMessage, payload any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: payload}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message}}
}
