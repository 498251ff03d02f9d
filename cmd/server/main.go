// Command server runs the stdio JSON-RPC news aggregation server:
// one request per input line, one response per output line.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"newsnexus/internal/app"
	"newsnexus/internal/handler/rpc"
	"newsnexus/internal/observability/logging"
	"newsnexus/internal/usecase/news"
)

// maxLineBytes bounds one request line.
const maxLineBytes = 4 << 20

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	a, err := app.Build(logger)
	if err != nil {
		return err
	}

	logger.Info("news aggregation server started",
		slog.String("version", news.Version),
		slog.Int("publishers", len(a.Registry.All())),
		slog.Duration("cache_ttl", a.Config.CacheTTL),
		slog.Int("rate_limit", a.Config.RateLimitRequests))

	handler := rpc.NewHandler(a.Service, a.Metrics, logger)

	ctx := context.Background()
	out := json.NewEncoder(os.Stdout)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := handler.HandleLine(ctx, line)
		if resp == nil {
			continue
		}
		if err := out.Encode(resp); err != nil {
			logger.Error("failed to write response", slog.String("error", err.Error()))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	logger.Info("stdin closed, shutting down")
	return nil
}
