package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/ev-analytics-dashboard/internal/adapter/http"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/adapter/csvfile"
	kafkaadapter "github.com/couchcryptid/ev-analytics-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/adapter/websocket"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/config"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/dashboard"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Snapshot publishing is feature-flagged via SNAPSHOTS_ENABLED / KAFKA_BROKERS.
	var (
		publisher dashboard.SnapshotPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.SnapshotsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.SnapshotsEnabled.Set(1)
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	hub := websocket.NewHub(logger, metrics)
	loader := csvfile.NewLoader(cfg.DataDir, logger, metrics)
	svc := dashboard.New(loader, publisher, hub, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Nothing can be rendered without a table, so a bad data directory stops
	// the process before it starts listening.
	if err := svc.Start(ctx); err != nil {
		logger.Error("failed to load dataset", "data_dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:       cfg.HTTPAddr,
		MapTileURL: cfg.MapTileURL,
		MapZoom:    cfg.MapZoom,
	}, svc, hub, logger)

	go hub.Run(ctx)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
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
