package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/roadwatch/dgt-situation-etl/internal/adapter/dgt"
	httpadapter "github.com/roadwatch/dgt-situation-etl/internal/adapter/http"
	kafkaadapter "github.com/roadwatch/dgt-situation-etl/internal/adapter/kafka"
	"github.com/roadwatch/dgt-situation-etl/internal/config"
	"github.com/roadwatch/dgt-situation-etl/internal/observability"
	"github.com/roadwatch/dgt-situation-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Source selection: local file for offline runs, the DGT feed otherwise.
	var source pipeline.Source
	if cfg.LocalFile != "" {
		source = dgt.NewFileSource(cfg.LocalFile)
		logger.Info("reading publication from local file", "path", cfg.LocalFile)
	} else {
		source = dgt.NewClient(cfg.FeedURL, cfg.FetchTimeout, logger)
		logger.Info("fetching publication from feed", "url", cfg.FeedURL, "interval", cfg.FetchInterval)
	}

	var writer *kafkaadapter.Writer
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(source, publisher, logger, metrics, cfg.FetchInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
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
