// Command api serves the news aggregation service over HTTP: REST
// endpoints, a JSON-RPC bridge, an SSE stream and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsnexus/internal/app"
	httphandler "newsnexus/internal/handler/http"
	"newsnexus/internal/handler/rpc"
	"newsnexus/internal/observability/logging"
	pkgconfig "newsnexus/pkg/config"
)

const shutdownGrace = 10 * time.Second

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

	rpcHandler := rpc.NewHandler(a.Service, a.Metrics, logger)
	handler := httphandler.NewHandler(a.Service, rpcHandler, logger)

	addr := pkgconfig.GetEnvString("NEWSNEXUS_HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
