// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verdant-labs/verdant/internal/models"
	"github.com/verdant-labs/verdant/internal/recommend"
)

// GetRecommendations returns the plant's recommendation set, generated on
// demand or served from the engine cache.
//
// Query parameters:
//   - confidence_threshold: override the configured minimum (0..1)
//   - include_historical: keep recommendations already marked implemented
//   - force_refresh: bypass the cache
//
// Method: GET
// Path: /api/v1/plants/{id}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	opts := recommend.Options{
		IncludeHistorical: getBoolParam(r, "include_historical"),
		ForceRefresh:      getBoolParam(r, "force_refresh"),
	}
	if threshold := getFloatParam(r, "confidence_threshold"); threshold != nil {
		if *threshold < 0 || *threshold > 1 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "confidence_threshold must be between 0 and 1", nil)
			return
		}
		opts.ConfidenceThreshold = threshold
	}

	set, err := h.recommend.Generate(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, set, start)
}

// ClearRecommendationCache drops the plant's cached recommendation sets.
//
// Method: DELETE
// Path: /api/v1/plants/{id}/recommendations/cache
func (h *Handler) ClearRecommendationCache(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	removed := h.recommend.ClearPlantCache(id)
	respondData(w, http.StatusOK, map[string]any{"plant_id": id, "removed": removed}, start)
}

// GetRecommendationHistory returns the plant's feedback-backed history,
// newest first.
//
// Method: GET
// Path: /api/v1/plants/{id}/recommendations/history
func (h *Handler) GetRecommendationHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := getIntParam(r, "limit", 0)
	entries, err := h.recommend.GetHistory(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, entries, start)
}

// SubmitFeedback records user feedback for a recommendation.
//
// Method: POST
// Path: /api/v1/feedback
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var fb models.FeedbackRecord
	if err := decodeJSON(r, &fb); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Malformed request body", nil)
		return
	}

	if err := h.recommend.SubmitFeedback(r.Context(), &fb); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, &fb, start)
}
