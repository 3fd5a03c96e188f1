// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/verdant-labs/verdant/internal/analytics"
	"github.com/verdant-labs/verdant/internal/metrics"
	"github.com/verdant-labs/verdant/internal/models"
)

// Store defines the database operations the scheduler needs.
type Store interface {
	ListActivePlants(ctx context.Context) ([]models.ActivePlant, error)
	DeleteAnalyticsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOrphanedAnalytics(ctx context.Context) (int64, error)
	CountStaleActivePlants(ctx context.Context, cutoff time.Time) (int, error)
	Ping(ctx context.Context) error
}

// AnalyticsProcessor computes one plant's analytics, implemented by the
// analytics engine.
type AnalyticsProcessor interface {
	Process(ctx context.Context, plantID string, opts analytics.Options) (*models.AnalyticsRecord, error)
}

// Config holds scheduler configuration.
type Config struct {
	// Enabled controls whether the job loops run at all.
	Enabled bool

	// AnalyticsInterval is the cadence of the batch analytics job.
	AnalyticsInterval time.Duration

	// AnalyticsFreshness is the freshness window passed to the engine on
	// batch runs, tighter than the on-demand default.
	AnalyticsFreshness time.Duration

	// BatchConcurrency caps concurrent per-plant computations in a batch.
	BatchConcurrency int

	// RetentionDays is how long analytics history is kept before the
	// daily sweep prunes it.
	RetentionDays int

	// HealthInterval is the cadence of the health probe job.
	HealthInterval time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		AnalyticsInterval:  6 * time.Hour,
		AnalyticsFreshness: 6 * time.Hour,
		BatchConcurrency:   5,
		RetentionDays:      90,
		HealthInterval:     time.Hour,
	}
}

// retentionSweepInterval is the fixed cadence of the retention job.
const retentionSweepInterval = 24 * time.Hour

// BatchResult summarizes one batch analytics run. Processed plus Skipped
// plus Errors always equals Total.
type BatchResult struct {
	Total     int           `json:"total"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// Status reports the scheduler's runtime state.
type Status struct {
	Running     bool         `json:"running"`
	Enabled     bool         `json:"enabled"`
	Jobs        []string     `json:"jobs"`
	JobCount    int          `json:"job_count"`
	LastBatch   *BatchResult `json:"last_batch,omitempty"`
	LastBatchAt time.Time    `json:"last_batch_at"`
	NextBatchAt time.Time    `json:"next_batch_at"`
}

// jobNames lists the periodic jobs in firing-priority order.
var jobNames = []string{"analytics_batch", "retention_sweep", "health_probe"}

// Scheduler runs the periodic analytics, retention, and health jobs.
type Scheduler struct {
	store  Store
	engine AnalyticsProcessor
	logger zerolog.Logger
	config Config

	mu          sync.Mutex
	running     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	lastBatch   *BatchResult
	lastBatchAt time.Time

	// now is swappable for tests.
	now func() time.Time
}

// New creates a scheduler. Zero or negative config values fall back to
// defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(store Store, engine AnalyticsProcessor, cfg Config, logger zerolog.Logger) *Scheduler {
	defaults := DefaultConfig()
	if cfg.AnalyticsInterval <= 0 {
		cfg.AnalyticsInterval = defaults.AnalyticsInterval
	}
	if cfg.AnalyticsFreshness <= 0 {
		cfg.AnalyticsFreshness = defaults.AnalyticsFreshness
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = defaults.BatchConcurrency
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = defaults.RetentionDays
	}
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = defaults.HealthInterval
	}

	return &Scheduler{
		store:  store,
		engine: engine,
		logger: logger.With().Str("component", "scheduler").Logger(),
		config: cfg,
		now:    time.Now,
	}
}

// Start launches the job loops. Starting an already-running scheduler
// logs and no-ops.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("Scheduler already running")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info().Msg("Scheduler disabled")
		go func() {
			defer close(s.doneCh)
			<-s.stopCh
		}()
		return nil
	}

	s.logger.Info().
		Dur("analytics_interval", s.config.AnalyticsInterval).
		Int("batch_concurrency", s.config.BatchConcurrency).
		Int("retention_days", s.config.RetentionDays).
		Msg("Starting scheduler")

	go s.run(ctx)
	return nil
}

// Stop halts the job loops and waits for the current cycle to finish.
// Stopping an unstarted scheduler is a no-op.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	// Clear running and close under the same lock section so a concurrent
	// Stop cannot reach the close twice.
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping scheduler...")
	<-s.doneCh

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// run is the main loop driving all three jobs off their tickers.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	analyticsTicker := time.NewTicker(s.config.AnalyticsInterval)
	defer analyticsTicker.Stop()
	retentionTicker := time.NewTicker(retentionSweepInterval)
	defer retentionTicker.Stop()
	healthTicker := time.NewTicker(s.config.HealthInterval)
	defer healthTicker.Stop()

	// Run the batch and health probe immediately on start so a restart
	// never leaves a full interval of staleness.
	s.runBatch(ctx, false)
	s.runHealthProbe(ctx)

	for {
		select {
		case <-analyticsTicker.C:
			s.runBatch(ctx, false)
		case <-retentionTicker.C:
			s.runRetention(ctx)
		case <-healthTicker.C:
			s.runHealthProbe(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// ForceProcessAllPlants runs a batch immediately, bypassing freshness, and
// returns its result. Safe to call whether or not the loops are running.
func (s *Scheduler) ForceProcessAllPlants(ctx context.Context) (*BatchResult, error) {
	return s.processAllPlants(ctx, true)
}

// GetStatus returns the scheduler's current state.
func (s *Scheduler) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Running:     s.running,
		Enabled:     s.config.Enabled,
		LastBatch:   s.lastBatch,
		LastBatchAt: s.lastBatchAt,
	}
	if s.running && s.config.Enabled {
		st.Jobs = append(st.Jobs, jobNames...)
		st.JobCount = len(st.Jobs)
		if !s.lastBatchAt.IsZero() {
			st.NextBatchAt = s.lastBatchAt.Add(s.config.AnalyticsInterval)
		}
	}
	return st
}

// runBatch executes one batch cycle and records its result.
func (s *Scheduler) runBatch(ctx context.Context, force bool) {
	result, err := s.processAllPlants(ctx, force)
	if err != nil {
		s.logger.Error().Err(err).Msg("Batch analytics run failed")
		return
	}

	s.mu.Lock()
	s.lastBatch = result
	s.lastBatchAt = s.now()
	s.mu.Unlock()
}

// processAllPlants computes analytics for every active plant with bounded
// concurrency. Per-plant failures are isolated: they count as errors but do
// not stop the batch.
func (s *Scheduler) processAllPlants(ctx context.Context, force bool) (*BatchResult, error) {
	start := s.now()

	plants, err := s.store.ListActivePlants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active plants: %w", err)
	}

	result := &BatchResult{Total: len(plants)}
	if len(plants) == 0 {
		metrics.SchedulerJobRuns.WithLabelValues("analytics_batch").Inc()
		result.Duration = s.now().Sub(start)
		return result, nil
	}

	opts := analytics.Options{Force: force, Freshness: s.config.AnalyticsFreshness}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.BatchConcurrency)

	for _, plant := range plants {
		g.Go(func() error {
			record, err := s.engine.Process(gctx, plant.ID, opts)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Errors++
				metrics.SchedulerBatchPlants.WithLabelValues("error").Inc()
				s.logger.Warn().Err(err).Str("plant_id", plant.ID).Msg("Batch analytics failed for plant")
			case record.CalculatedAt.Before(start):
				// The engine returned an existing fresh record.
				result.Skipped++
				metrics.SchedulerBatchPlants.WithLabelValues("skipped").Inc()
			default:
				result.Processed++
				metrics.SchedulerBatchPlants.WithLabelValues("processed").Inc()
			}
			return nil
		})
	}

	// Workers never return errors; Wait only propagates context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Duration = s.now().Sub(start)
	metrics.SchedulerJobRuns.WithLabelValues("analytics_batch").Inc()

	s.logger.Info().
		Int("total", result.Total).
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("errors", result.Errors).
		Dur("duration", result.Duration).
		Msg("Batch analytics run complete")

	return result, nil
}

// runRetention prunes analytics history past the retention horizon and
// records orphaned to deleted plants.
func (s *Scheduler) runRetention(ctx context.Context) {
	cutoff := s.now().AddDate(0, 0, -s.config.RetentionDays)

	pruned, err := s.store.DeleteAnalyticsOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("Retention sweep failed")
		return
	}

	orphaned, err := s.store.DeleteOrphanedAnalytics(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Orphan sweep failed")
		return
	}

	metrics.SchedulerJobRuns.WithLabelValues("retention").Inc()

	s.logger.Info().
		Int64("pruned", pruned).
		Int64("orphaned", orphaned).
		Time("cutoff", cutoff).
		Msg("Retention sweep complete")
}

// staleCutoff is how far back the health probe looks for a plant's latest
// analytics record before calling it stale.
const staleCutoff = 24 * time.Hour

// runHealthProbe pings the database and publishes the stale-plant gauge.
func (s *Scheduler) runHealthProbe(ctx context.Context) {
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Health probe: database unreachable")
		return
	}

	stale, err := s.store.CountStaleActivePlants(ctx, s.now().Add(-staleCutoff))
	if err != nil {
		s.logger.Error().Err(err).Msg("Health probe: stale count failed")
		return
	}

	metrics.StaleActivePlants.Set(float64(stale))
	metrics.SchedulerJobRuns.WithLabelValues("health").Inc()

	if stale > 0 {
		s.logger.Warn().Int("stale_plants", stale).Msg("Active plants with stale analytics")
	} else {
		s.logger.Debug().Msg("Health probe clean")
	}
}

// IsRunning reports whether the job loops are active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
