// Package logging configures structured logging with log/slog.
// All log output goes to stderr: the stdio transport owns stdout for
// JSON-RPC responses.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a JSON logger writing to stderr. The level is read
// from NEWSNEXUS_LOG_LEVEL (debug, info, warn, error; default info).
// Source locations are attached at warn and above.
func NewLogger() *slog.Logger {
	level := ParseLevel(os.Getenv("NEWSNEXUS_LOG_LEVEL"))
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelWarn,
	})
	return slog.New(handler)
}

// NewTextLogger creates a human-readable logger for local development.
func NewTextLogger() *slog.Logger {
	level := ParseLevel(os.Getenv("NEWSNEXUS_LOG_LEVEL"))
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
