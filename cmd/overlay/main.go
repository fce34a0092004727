package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-overlay-service/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/quake-overlay-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-overlay-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-overlay-service/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-overlay-service/internal/config"
	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	"github.com/couchcryptid/quake-overlay-service/internal/observability"
	"github.com/couchcryptid/quake-overlay-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	scale, err := domain.NewColorScale(cfg.Scale)
	if err != nil {
		logger.Error("invalid color scale", "error", err)
		os.Exit(1)
	}

	// Initialize place resolver (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var resolver domain.PlaceResolver
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		resolver = mapbox.NewCachedResolver(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox place lookup enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox place lookup disabled")
	}

	// Marker publication is optional; a nil publisher skips it.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka marker publication enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	source := feed.NewClient(cfg.EarthquakeFeedURL, cfg.PlateBoundariesURL, cfg.FetchTimeout, metrics, logger)
	builder := pipeline.NewOverlayBuilder(scale, resolver, cfg.LegendCategories, logger, metrics)
	refresher := pipeline.New(source, builder, publisher, logger, metrics, cfg.RefreshInterval)

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:  cfg.HTTPAddr,
		Scale: scale,
		View:  domain.DefaultMapView(mapbox.ViewLayers(cfg.MapboxToken)),
	}, refresher, refresher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := refresher.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
