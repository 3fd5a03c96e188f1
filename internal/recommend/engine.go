// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/rs/zerolog"

	"github.com/verdant-labs/verdant/internal/analytics"
	"github.com/verdant-labs/verdant/internal/metrics"
	"github.com/verdant-labs/verdant/internal/models"
)

// Store defines the persistence operations the engine needs, implemented by
// the database package.
type Store interface {
	GetPlant(ctx context.Context, id string) (*models.Plant, error)
	GetLatestAnalytics(ctx context.Context, plantID string) (*models.AnalyticsRecord, error)
	GetAnalyticsByPlant(ctx context.Context, plantID string, limit int) ([]models.AnalyticsRecord, error)
	GetEnvironmentSamples(ctx context.Context, tent string, from, to time.Time) ([]models.EnvironmentSample, error)
	GetActivityLog(ctx context.Context, plantID string, from, to time.Time) ([]models.ActivityLogEntry, error)
	GetRecommendationHistory(ctx context.Context, plantID string, limit int) ([]models.RecommendationHistoryEntry, error)
	GetRecommendationHistoryEntry(ctx context.Context, plantID, recommendationID string) (*models.RecommendationHistoryEntry, error)
	CreateFeedback(ctx context.Context, fb *models.FeedbackRecord) error
	UpsertRecommendationHistory(ctx context.Context, plantID string, rec models.Recommendation, fb *models.FeedbackRecord) error
}

// Engine generates recommendation sets by running the deterministic rule
// pipeline over a plant's state. Safe for concurrent use.
type Engine struct {
	store  Store
	config Config
	logger zerolog.Logger
	rules  []Rule
	cache  *cache

	// now is swappable for tests.
	now func() time.Time
}

// NewEngine creates a recommendation engine with the standard rule set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store Store, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Rule order is fixed: environmental, nutrient, cultivation, harvest.
	// Ties in the final sort resolve to this order, keeping output stable.
	var rules []Rule
	rules = append(rules, environmentalRules()...)
	rules = append(rules, nutrientRules()...)
	rules = append(rules, cultivationRules()...)
	rules = append(rules, harvestRules()...)

	return &Engine{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		rules:  rules,
		cache:  newCache(),
		now:    time.Now,
	}, nil
}

// Generate produces (or returns the cached) recommendation set for a plant.
//
// The cache key covers the plant and every option that affects the output,
// so differing thresholds never share an entry. A cached set is returned
// as-is; callers must not mutate it.
func (e *Engine) Generate(ctx context.Context, plantID string, opts Options) (*models.RecommendationSet, error) {
	now := e.now()
	key := e.cacheKey(plantID, opts)

	if !opts.ForceRefresh {
		if set, ok := e.cache.get(key, now); ok {
			metrics.RecommendCacheHits.Inc()
			e.logger.Debug().Str("plant_id", plantID).Msg("recommendation cache hit")
			return set, nil
		}
		metrics.RecommendCacheMisses.Inc()
	}

	in, err := e.gatherInput(ctx, plantID, now)
	if err != nil {
		return nil, err
	}

	recommendations := e.evaluateRules(*in)
	recommendations = e.filterByConfidence(recommendations, opts)
	if !opts.IncludeHistorical {
		recommendations = suppressImplemented(recommendations, in.History)
	}
	sortByPriority(recommendations)

	set := &models.RecommendationSet{
		PlantID:              plantID,
		Recommendations:      recommendations,
		LastUpdated:          now,
		TotalRecommendations: len(recommendations),
		Confidence:           meanConfidence(recommendations),
	}

	for _, rec := range recommendations {
		metrics.RecommendGenerated.WithLabelValues(string(rec.Category), string(rec.Priority)).Inc()
	}

	e.cache.store(key, plantID, set, now.Add(e.config.CacheTTL))

	e.logger.Debug().
		Str("plant_id", plantID).
		Int("recommendations", len(recommendations)).
		Float64("confidence", set.Confidence).
		Msg("recommendation set generated")

	return set, nil
}

// ClearPlantCache drops every cached set for a plant, forcing the next
// Generate to recompute. Returns the number of entries removed.
func (e *Engine) ClearPlantCache(plantID string) int {
	removed := e.cache.invalidatePlant(plantID)
	if removed > 0 {
		e.logger.Debug().Str("plant_id", plantID).Int("removed", removed).Msg("plant cache cleared")
	}
	return removed
}

// gatherInput loads everything the rules may consult. Only a missing plant
// fails; absent analytics, samples, or history degrade to nil/empty.
func (e *Engine) gatherInput(ctx context.Context, plantID string, now time.Time) (*RuleInput, error) {
	plant, err := e.store.GetPlant(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("get plant: %w", err)
	}

	record, err := e.store.GetLatestAnalytics(ctx, plantID)
	if err != nil && !errors.Is(err, models.ErrAnalyticsNotFound) {
		return nil, fmt.Errorf("get latest analytics: %w", err)
	}

	analyticsHistory, err := e.store.GetAnalyticsByPlant(ctx, plantID, e.config.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("get analytics history: %w", err)
	}

	samples, err := e.store.GetEnvironmentSamples(ctx, plant.Tent, now.Add(-e.config.SampleWindow), now)
	if err != nil {
		return nil, fmt.Errorf("get environment samples: %w", err)
	}
	var latest *models.EnvironmentSample
	if len(samples) > 0 {
		latest = &samples[len(samples)-1]
	}

	activities, err := e.store.GetActivityLog(ctx, plantID, now.Add(-e.config.ActivityWindow), now)
	if err != nil {
		return nil, fmt.Errorf("get activity log: %w", err)
	}

	history, err := e.store.GetRecommendationHistory(ctx, plantID, e.config.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("get recommendation history: %w", err)
	}

	return &RuleInput{
		Plant:            plant,
		Class:            analytics.ClassifyStrain(plant.Strain),
		Medium:           analytics.NormalizeMedium(plant.Medium),
		DaysInStage:      plant.DaysInStage(now),
		Analytics:        record,
		AnalyticsHistory: analyticsHistory,
		LatestSample:     latest,
		Activities:       activities,
		History:          history,
		Now:              now,
	}, nil
}

// evaluateRules runs every rule in registration order.
func (e *Engine) evaluateRules(in RuleInput) []models.Recommendation {
	var out []models.Recommendation
	for _, rule := range e.rules {
		out = append(out, rule.Evaluate(in)...)
	}
	return out
}

// filterByConfidence drops recommendations below the applicable threshold.
func (e *Engine) filterByConfidence(recs []models.Recommendation, opts Options) []models.Recommendation {
	threshold := e.config.ConfidenceThreshold
	if opts.ConfidenceThreshold != nil {
		threshold = *opts.ConfidenceThreshold
	}

	kept := recs[:0]
	for _, rec := range recs {
		if rec.Confidence >= threshold {
			kept = append(kept, rec)
		}
	}
	return kept
}

// suppressImplemented drops recommendations the user has already marked
// implemented, per the history.
func suppressImplemented(recs []models.Recommendation, history []models.RecommendationHistoryEntry) []models.Recommendation {
	if len(history) == 0 {
		return recs
	}

	implemented := make(map[string]struct{}, len(history))
	for _, entry := range history {
		if entry.Implemented {
			implemented[entry.RecommendationID] = struct{}{}
		}
	}

	kept := recs[:0]
	for _, rec := range recs {
		if _, ok := implemented[rec.ID]; ok {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// sortByPriority orders recommendations by priority weight times confidence,
// descending. The sort is stable so equal scores keep rule order.
func sortByPriority(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Weight()*recs[i].Confidence >
			recs[j].Priority.Weight()*recs[j].Confidence
	})
}

// meanConfidence is the unweighted mean of the surfaced confidences.
func meanConfidence(recs []models.Recommendation) float64 {
	if len(recs) == 0 {
		return 0
	}
	var sum float64
	for _, rec := range recs {
		sum += rec.Confidence
	}
	return sum / float64(len(recs))
}

// cacheKeyOptions is the hashed subset of Options: every field that changes
// the generated output, and nothing that doesn't (ForceRefresh is a cache
// directive, not an output parameter).
type cacheKeyOptions struct {
	ConfidenceThreshold *float64
	IncludeHistorical   bool
}

func (e *Engine) cacheKey(plantID string, opts Options) string {
	hash, err := hashstructure.Hash(cacheKeyOptions{
		ConfidenceThreshold: opts.ConfidenceThreshold,
		IncludeHistorical:   opts.IncludeHistorical,
	}, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing a plain struct cannot fail in practice; fall back to a
		// key that still isolates the plant.
		return fmt.Sprintf("rec:%s:opts", plantID)
	}
	return fmt.Sprintf("rec:%s:%d", plantID, hash)
}
