// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP routing table.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/plants", func(r chi.Router) {
			r.Get("/", h.ListPlants)
			r.Post("/", h.CreatePlant)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPlant)
				r.Put("/stage", h.UpdatePlantStage)
				r.Post("/activities", h.CreateActivity)

				r.Get("/analytics", h.GetAnalytics)
				r.Get("/analytics/history", h.GetAnalyticsHistory)
				r.Get("/analytics/trends", h.GetAnalyticsTrends)

				r.Get("/recommendations", h.GetRecommendations)
				r.Delete("/recommendations/cache", h.ClearRecommendationCache)
				r.Get("/recommendations/history", h.GetRecommendationHistory)
			})
		})

		r.Post("/samples", h.CreateSample)
		r.Post("/feedback", h.SubmitFeedback)

		r.Route("/scheduler", func(r chi.Router) {
			r.Get("/status", h.SchedulerStatus)
			r.Post("/run", h.RunSchedulerBatch)
		})
	})

	return r
}
