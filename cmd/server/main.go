// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package main is the entry point for the Verdant server.
//
// Verdant is a self-hosted cultivation analytics platform: it ingests
// environment telemetry and care activity for tracked plants, computes
// yield, growth, and environmental-efficiency analytics on DuckDB, and
// generates prioritized, confidence-scored care recommendations.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file, environment (Koanf v2)
//  2. Database: DuckDB storage for plants, telemetry, and analytics
//  3. Analytics engine: on-demand metric computation with freshness reuse
//  4. Recommendation engine: deterministic rule pipeline with a TTL cache
//  5. Scheduler: batch analytics, retention sweep, and health probe
//  6. HTTP server: REST API under /api/v1 plus Prometheus /metrics
//
// The scheduler and HTTP server run under a suture supervision tree; a
// crash loop in the background jobs never takes the API down.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, an optional config file
// (CONFIG_PATH), and built-in defaults. Common settings:
//
//	HTTP_PORT=8420
//	DUCKDB_PATH=/data/verdant.duckdb
//	LOG_LEVEL=info
//	SCHEDULER_ENABLED=true
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the scheduler finishes its current cycle, and the
// database closes last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verdant-labs/verdant/internal/analytics"
	"github.com/verdant-labs/verdant/internal/api"
	"github.com/verdant-labs/verdant/internal/config"
	"github.com/verdant-labs/verdant/internal/database"
	"github.com/verdant-labs/verdant/internal/logging"
	"github.com/verdant-labs/verdant/internal/recommend"
	"github.com/verdant-labs/verdant/internal/scheduler"
	"github.com/verdant-labs/verdant/internal/supervisor"
	"github.com/verdant-labs/verdant/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Int("port", cfg.Server.Port).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Starting Verdant")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	analyticsEngine, err := analytics.NewEngine(db, analytics.Config{
		FreshnessWindow: cfg.Analytics.FreshnessWindow,
		WindowDays:      cfg.Analytics.WindowDays,
		MaxNotes:        cfg.Analytics.MaxNotes,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create analytics engine")
	}

	recommendCfg := recommend.DefaultConfig()
	recommendCfg.CacheTTL = cfg.Recommend.CacheTTL
	recommendCfg.ConfidenceThreshold = cfg.Recommend.ConfidenceThreshold
	recommendCfg.HistoryLimit = cfg.Recommend.HistoryLimit
	recommendEngine, err := recommend.NewEngine(db, recommendCfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	sched := scheduler.New(db, analyticsEngine, scheduler.Config{
		Enabled:            cfg.Scheduler.Enabled,
		AnalyticsInterval:  cfg.Scheduler.AnalyticsInterval,
		AnalyticsFreshness: cfg.Scheduler.AnalyticsFreshness,
		BatchConcurrency:   cfg.Scheduler.BatchConcurrency,
		RetentionDays:      cfg.Scheduler.RetentionDays,
		HealthInterval:     cfg.Scheduler.HealthInterval,
	}, logging.Logger())

	handler := api.NewHandler(db, analyticsEngine, recommendEngine, sched, logging.Logger())
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// zerolog bridged to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddJobService(services.NewSchedulerService(sched))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
