// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package api

import (
	"net/http"
	"time"
)

// Health reports liveness and database reachability.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Health check: database unreachable")
		status["status"] = "degraded"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}
	respondData(w, code, status, start)
}

// SchedulerStatus reports the background scheduler's state.
//
// Method: GET
// Path: /api/v1/scheduler/status
func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "SCHEDULER_DISABLED", "Scheduler is not configured", nil)
		return
	}
	respondData(w, http.StatusOK, h.scheduler.GetStatus(), start)
}

// RunSchedulerBatch triggers an immediate batch analytics run over all
// active plants, bypassing freshness.
//
// Method: POST
// Path: /api/v1/scheduler/run
func (h *Handler) RunSchedulerBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "SCHEDULER_DISABLED", "Scheduler is not configured", nil)
		return
	}

	result, err := h.scheduler.ForceProcessAllPlants(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, result, start)
}
