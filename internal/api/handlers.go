// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdant-labs/verdant/internal/analytics"
	"github.com/verdant-labs/verdant/internal/models"
	"github.com/verdant-labs/verdant/internal/recommend"
	"github.com/verdant-labs/verdant/internal/scheduler"
)

// PlantStore covers the persistence operations the handlers call directly,
// implemented by the database package.
type PlantStore interface {
	Ping(ctx context.Context) error
	CreatePlant(ctx context.Context, plant *models.Plant) error
	GetPlant(ctx context.Context, id string) (*models.Plant, error)
	ListActivePlants(ctx context.Context) ([]models.ActivePlant, error)
	UpdatePlantStage(ctx context.Context, id string, stage models.GrowthStage, changedAt time.Time) error
	CreateEnvironmentSample(ctx context.Context, sample *models.EnvironmentSample) error
	CreateActivityLogEntry(ctx context.Context, entry *models.ActivityLogEntry) error
	GetAnalyticsByPlant(ctx context.Context, plantID string, limit int) ([]models.AnalyticsRecord, error)
	GetAnalyticsTrends(ctx context.Context, plantID string, days int) (*models.AnalyticsTrends, error)
}

// AnalyticsService computes per-plant analytics on demand.
type AnalyticsService interface {
	Process(ctx context.Context, plantID string, opts analytics.Options) (*models.AnalyticsRecord, error)
}

// RecommendService generates recommendation sets and accepts feedback.
type RecommendService interface {
	Generate(ctx context.Context, plantID string, opts recommend.Options) (*models.RecommendationSet, error)
	SubmitFeedback(ctx context.Context, fb *models.FeedbackRecord) error
	GetHistory(ctx context.Context, plantID string, limit int) ([]models.RecommendationHistoryEntry, error)
	ClearPlantCache(plantID string) int
}

// SchedulerService exposes scheduler state and manual batch runs.
type SchedulerService interface {
	GetStatus() scheduler.Status
	ForceProcessAllPlants(ctx context.Context) (*scheduler.BatchResult, error)
}

// Handler carries the services the HTTP endpoints delegate to.
type Handler struct {
	store     PlantStore
	analytics AnalyticsService
	recommend RecommendService
	scheduler SchedulerService
	logger    zerolog.Logger
}

// NewHandler creates the API handler. The scheduler may be nil when the
// background jobs are disabled; its endpoints then return 503.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(store PlantStore, analyticsSvc AnalyticsService, recommendSvc RecommendService, schedulerSvc SchedulerService, logger zerolog.Logger) *Handler {
	return &Handler{
		store:     store,
		analytics: analyticsSvc,
		recommend: recommendSvc,
		scheduler: schedulerSvc,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}
