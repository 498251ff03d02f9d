// Command worker keeps the response cache warm: it runs the top-news
// aggregation on a schedule so interactive callers hit fresh cache
// entries instead of paying cold fetch latency.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"newsnexus/internal/app"
	"newsnexus/internal/observability/logging"
	"newsnexus/internal/usecase/news"
	pkgconfig "newsnexus/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	a, err := app.Build(logger)
	if err != nil {
		return err
	}

	// Default cadence keeps entries inside the cache TTL.
	schedule := pkgconfig.GetEnvString("NEWSNEXUS_WARM_SCHEDULE", "@every 4m")

	c := cron.New()
	warm := func() {
		ctx := context.Background()
		resp := a.Service.GetTopNews(ctx, news.TopNewsRequest{})
		logger.Info("cache warm cycle complete",
			slog.Int("articles", len(resp.Articles)),
			slog.Int("sources", resp.SourcesQueried),
			slog.Float64("duration_ms", resp.DurationMS))
	}
	if _, err := c.AddFunc(schedule, warm); err != nil {
		return fmt.Errorf("invalid warm schedule %q: %w", schedule, err)
	}

	logger.Info("cache warmer started", slog.String("schedule", schedule))
	warm()
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	logger.Info("shutting down", slog.String("signal", sig.String()))
	<-c.Stop().Done()
	return nil
}
