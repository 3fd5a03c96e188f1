// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdant-labs/verdant/internal/metrics"
	"github.com/verdant-labs/verdant/internal/models"
)

// Store defines the persistence operations the engine needs. Implemented by
// the database package; the interface lives here to avoid a dependency from
// the engine onto the store implementation.
type Store interface {
	GetPlant(ctx context.Context, id string) (*models.Plant, error)
	GetEnvironmentSamples(ctx context.Context, tent string, from, to time.Time) ([]models.EnvironmentSample, error)
	GetActivityLog(ctx context.Context, plantID string, from, to time.Time) ([]models.ActivityLogEntry, error)
	GetLatestAnalytics(ctx context.Context, plantID string) (*models.AnalyticsRecord, error)
	CreateAnalyticsRecord(ctx context.Context, in models.AnalyticsInput) (*models.AnalyticsRecord, error)
}

// Options controls a single Process invocation.
type Options struct {
	// Start/End bound the historical window. Zero values default to the
	// configured window ending now.
	Start time.Time
	End   time.Time

	// Force skips the freshness check and always recomputes.
	Force bool

	// Freshness overrides the configured freshness window when positive
	// (the scheduler passes a tighter window than on-demand callers).
	Freshness time.Duration
}

// Engine orchestrates metric-library calls over a plant's historical window
// and persists the resulting analytics record. It is safe for concurrent use;
// all state lives in the store.
type Engine struct {
	store  Store
	config Config
	logger zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewEngine creates an analytics engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store Store, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "analytics").Logger(),
		now:    time.Now,
	}, nil
}

// Process computes (or returns the still-fresh) analytics record for a plant.
//
// Unless opts.Force is set, a latest record younger than the freshness window
// is returned unchanged — a no-op, not an error. Otherwise the plant profile,
// environment samples, and activity log for the window are loaded, the metric
// library is run, and a new record is persisted and returned.
//
// Missing samples or measurements degrade the affected metrics to documented
// defaults; only an absent plant fails, with models.ErrPlantNotFound.
func (e *Engine) Process(ctx context.Context, plantID string, opts Options) (*models.AnalyticsRecord, error) {
	start := time.Now()
	now := e.now()

	if !opts.Force {
		if rec := e.freshRecord(ctx, plantID, opts.Freshness, now); rec != nil {
			metrics.AnalyticsFreshSkips.Inc()
			e.logger.Debug().
				Str("plant_id", plantID).
				Time("calculated_at", rec.CalculatedAt).
				Msg("returning fresh analytics record")
			return rec, nil
		}
	}

	plant, err := e.store.GetPlant(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("get plant: %w", err)
	}

	windowEnd := opts.End
	if windowEnd.IsZero() {
		windowEnd = now
	}
	windowStart := opts.Start
	if windowStart.IsZero() {
		windowStart = windowEnd.AddDate(0, 0, -e.config.WindowDays)
	}

	samples, err := e.store.GetEnvironmentSamples(ctx, plant.Tent, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("get environment samples: %w", err)
	}

	activities, err := e.store.GetActivityLog(ctx, plantID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("get activity log: %w", err)
	}

	eff := StageEfficiency(plant.Stage, AverageReadings(samples))
	growth := GrowthRate(plant.Stage, ExtractHeightMeasurements(activities))

	class := ClassifyStrain(plant.Strain)
	medium := NormalizeMedium(plant.Medium)
	windowDays := int(windowEnd.Sub(windowStart).Hours() / 24)
	yield := YieldPrediction(class, medium, eff.OverallScore, plant.Stage, plant.DaysInStage(now), len(activities), windowDays)

	notes := buildNotes(plant, eff, growth, e.config.MaxNotes)

	rec, err := e.store.CreateAnalyticsRecord(ctx, models.AnalyticsInput{
		PlantID:         plantID,
		YieldPrediction: yield,
		GrowthRate:      growth,
		Efficiency: map[string]float64{
			"temperature": eff.Temperature,
			"humidity":    eff.Humidity,
			"vpd":         eff.VPD,
			"light":       eff.Light,
			"co2":         eff.CO2,
		},
		OverallScore: eff.OverallScore,
		Notes:        notes,
		CalculatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create analytics record: %w", err)
	}

	metrics.AnalyticsComputations.Inc()
	metrics.AnalyticsDuration.Observe(time.Since(start).Seconds())

	e.logger.Debug().
		Str("plant_id", plantID).
		Str("stage", string(plant.Stage)).
		Float64("yield_prediction", rec.YieldPrediction).
		Float64("growth_rate", rec.GrowthRate).
		Float64("overall_score", rec.Efficiency.OverallScore).
		Int("samples", len(samples)).
		Int("activities", len(activities)).
		Msg("analytics record computed")

	return rec, nil
}

// freshRecord returns the latest record when it is younger than the
// applicable freshness window, nil otherwise.
func (e *Engine) freshRecord(ctx context.Context, plantID string, override time.Duration, now time.Time) *models.AnalyticsRecord {
	freshness := e.config.FreshnessWindow
	if override > 0 {
		freshness = override
	}

	latest, err := e.store.GetLatestAnalytics(ctx, plantID)
	if err != nil {
		if !errors.Is(err, models.ErrAnalyticsNotFound) {
			e.logger.Warn().Err(err).Str("plant_id", plantID).Msg("freshness check failed, recomputing")
		}
		return nil
	}

	if now.Sub(latest.CalculatedAt) < freshness {
		return latest
	}
	return nil
}
