package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/storm-season-scraper/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/storm-season-scraper/internal/adapter/kafka"
	"github.com/couchcryptid/storm-season-scraper/internal/adapter/llm"
	"github.com/couchcryptid/storm-season-scraper/internal/adapter/mapbox"
	"github.com/couchcryptid/storm-season-scraper/internal/adapter/output"
	"github.com/couchcryptid/storm-season-scraper/internal/adapter/report"
	"github.com/couchcryptid/storm-season-scraper/internal/adapter/wikipedia"
	"github.com/couchcryptid/storm-season-scraper/internal/config"
	"github.com/couchcryptid/storm-season-scraper/internal/domain"
	"github.com/couchcryptid/storm-season-scraper/internal/observability"
	"github.com/couchcryptid/storm-season-scraper/internal/pipeline"
)

func main() {
	// Credentials usually live in a local .env file; the environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	enricher, err := llm.NewClient(llm.Settings{
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.OpenAIModel,
		BaseURL:    cfg.OpenAIBaseURL,
		Timeout:    cfg.OpenAITimeout,
		MaxRetries: 2,
	}, logger)
	if err != nil {
		return err
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			return err
		}
		geocoder = cached
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	loaders := []pipeline.Loader{
		output.NewCSVWriter(cfg.OutputCSVPath, logger),
		output.NewUsageLogWriter(cfg.UsageLogPath, logger),
	}
	if cfg.ReportHTMLPath != "" {
		loaders = append(loaders, report.NewHTMLWriter(cfg.ReportHTMLPath, logger))
	}
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(
		pipeline.Target{URL: cfg.SeasonURL, Year: cfg.SeasonYear},
		wikipedia.NewSource(cfg.FetchTimeout, logger),
		pipeline.NewAssembler(enricher, geocoder, cfg.EnrichMaxAttempts, logger, metrics),
		loaders,
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr == "" {
		_, err := p.Run(ctx)
		return err
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	_, runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
	}

	// Stay up so /metrics and /season can be scraped after the run.
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return runErr
}
