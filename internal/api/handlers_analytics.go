// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verdant-labs/verdant/internal/analytics"
)

// GetAnalytics returns the plant's current analytics, computing a fresh
// record when the stored one has aged out. The force query parameter
// bypasses the freshness check.
//
// Method: GET
// Path: /api/v1/plants/{id}/analytics
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	record, err := h.analytics.Process(r.Context(), chi.URLParam(r, "id"), analytics.Options{
		Force: getBoolParam(r, "force"),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, record, start)
}

// GetAnalyticsHistory returns the plant's stored analytics records, newest
// first. The limit query parameter caps the result (default 30).
//
// Method: GET
// Path: /api/v1/plants/{id}/analytics/history
func (h *Handler) GetAnalyticsHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := getIntParam(r, "limit", 30)
	if limit < 1 || limit > 1000 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 1000", nil)
		return
	}

	records, err := h.store.GetAnalyticsByPlant(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, records, start)
}

// GetAnalyticsTrends returns the plant's yield, growth, and efficiency
// series over the trailing window. The days query parameter sets the window
// (default 30).
//
// Method: GET
// Path: /api/v1/plants/{id}/analytics/trends
func (h *Handler) GetAnalyticsTrends(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	days := getIntParam(r, "days", 30)
	if days < 1 || days > 365 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "days must be between 1 and 365", nil)
		return
	}

	trends, err := h.store.GetAnalyticsTrends(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, trends, start)
}
