// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/verdant-labs/verdant/internal/models"
	"github.com/verdant-labs/verdant/internal/validation"
)

// SubmitFeedback records user feedback for a recommendation and updates the
// durable per-recommendation history.
//
// The referenced recommendation is resolved from the plant's cached sets
// first, then from history (feedback may arrive after the cache expired).
// Feedback against an id that was never generated for the plant returns
// models.ErrRecommendationNotFound. The plant's cached sets are invalidated
// so the next Generate reflects the new implemented state.
func (e *Engine) SubmitFeedback(ctx context.Context, fb *models.FeedbackRecord) error {
	if verr := validation.ValidateStruct(fb); verr != nil {
		return models.NewValidationError(verr.Messages()...)
	}

	rec, err := e.resolveRecommendation(ctx, fb.PlantID, fb.RecommendationID)
	if err != nil {
		return err
	}

	if err := e.store.CreateFeedback(ctx, fb); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	if err := e.store.UpsertRecommendationHistory(ctx, fb.PlantID, *rec, fb); err != nil {
		return fmt.Errorf("upsert recommendation history: %w", err)
	}

	e.cache.invalidatePlant(fb.PlantID)

	e.logger.Info().
		Str("plant_id", fb.PlantID).
		Str("recommendation_id", fb.RecommendationID).
		Bool("implemented", fb.Implemented).
		Str("effectiveness", string(fb.Effectiveness)).
		Msg("feedback recorded")

	return nil
}

// GetHistory returns a plant's recommendation history, newest first.
func (e *Engine) GetHistory(ctx context.Context, plantID string, limit int) ([]models.RecommendationHistoryEntry, error) {
	if limit <= 0 {
		limit = e.config.HistoryLimit
	}
	entries, err := e.store.GetRecommendationHistory(ctx, plantID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recommendation history: %w", err)
	}
	return entries, nil
}

// resolveRecommendation finds the recommendation snapshot for a feedback
// submission: cached sets first, then the durable history.
func (e *Engine) resolveRecommendation(ctx context.Context, plantID, recommendationID string) (*models.Recommendation, error) {
	if rec, ok := e.cache.findRecommendation(plantID, recommendationID); ok {
		return rec, nil
	}

	entry, err := e.store.GetRecommendationHistoryEntry(ctx, plantID, recommendationID)
	if err != nil {
		if errors.Is(err, models.ErrRecommendationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get recommendation history entry: %w", err)
	}
	return &entry.Recommendation, nil
}
