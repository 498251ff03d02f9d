// Package config provides small helpers for reading configuration from
// environment variables with warn-and-default semantics.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// GetEnvString returns the environment variable value, or defaultValue
// when the variable is unset or empty. No validation, no logging.
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the environment variable parsed as an integer.
// Unset, empty or unparseable values fall back to defaultValue with a
// warning logged for the unparseable case.
func GetEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer environment variable, using default",
			slog.String("key", key),
			slog.String("value", v),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return n
}

// GetEnvBool returns the environment variable parsed as a boolean via
// strconv.ParseBool. Invalid values fall back to defaultValue with a
// warning.
func GetEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean environment variable, using default",
			slog.String("key", key),
			slog.String("value", v),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
	return b
}

// GetEnvDuration returns the environment variable parsed by
// time.ParseDuration (e.g. "300ms", "5s", "1m30s"). Invalid values
// fall back to defaultValue with a warning.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration environment variable, using default",
			slog.String("key", key),
			slog.String("value", v),
			slog.Duration("default", defaultValue))
		return defaultValue
	}
	return d
}

// GetEnvMillis reads an integer environment variable expressed in
// milliseconds and returns it as a time.Duration. The publisher
// configuration and several tuning knobs use millisecond integers.
func GetEnvMillis(key string, defaultValue time.Duration) time.Duration {
	ms := GetEnvInt(key, int(defaultValue/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
