package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"odmcp/internal/dispatch"
	"odmcp/internal/opendata"
	"odmcp/internal/providers/finance"
	"odmcp/internal/providers/sbb"
	"odmcp/internal/server"
	"odmcp/internal/session"
	"odmcp/internal/stdio"
	"odmcp/internal/telemetry"
	"odmcp/internal/tools"
)

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	httpAddr := flag.String("http", envOr("ODMCP_HTTP_ADDR", ""), "listen address for HTTP mode; empty serves stdio")
	logLevel := flag.String("log-level", envOr("ODMCP_LOG_LEVEL", "info"), "zerolog level")
	flag.Parse()

	// Configure logger. Logs go to stderr so they never corrupt the stdio
	// frame stream.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Logger()

	registry := tools.NewRegistry()
	if err := sbb.Register(registry, opendata.New("", nil)); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register rail tools")
	}
	if err := finance.Register(registry, finance.New("", nil)); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register finance tools")
	}
	logger.Info().Int("tool_count", registry.Len()).Msg("Tool registry ready")

	metrics := telemetry.NewMetrics()
	invoker := telemetry.NewInvokerWrapper(tools.NewInvoker(registry, logger), metrics)
	dispatcher := dispatch.New(registry, invoker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *httpAddr == "" {
		runStdio(ctx, dispatcher, metrics, logger)
		return
	}
	runHTTP(ctx, *httpAddr, dispatcher, metrics, logger)
}

func runStdio(ctx context.Context, dispatcher *dispatch.Dispatcher, metrics *telemetry.Metrics, logger zerolog.Logger) {
	logger.Info().Msg("Serving on stdio")
	srv := stdio.NewServer(os.Stdin, os.Stdout, dispatcher, logger).WithMetrics(metrics)
	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("Stdio server failed")
	}
	logger.Info().Msg("Stdio server stopped")
}

func runHTTP(ctx context.Context, addr string, dispatcher *dispatch.Dispatcher, metrics *telemetry.Metrics, logger zerolog.Logger) {
	cfg := server.DefaultConfig()
	cfg.Addr = addr

	store := session.NewMemoryStore(logger)
	manager := telemetry.NewSessionManagerWrapper(
		session.NewManager(store, cfg.SessionTimeout, logger), metrics)

	sweeper := session.NewSweeper(manager, cfg.CleanupInterval, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	collector := telemetry.NewSystemCollector(metrics, logger, 15*time.Second)
	go collector.Start(ctx)

	srv := server.New(cfg, dispatcher, manager, metrics, logger)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("HTTP server failed")
	}
}
