// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package metrics exposes Prometheus instrumentation for the analytics
// pipeline: computation throughput, recommendation cache efficiency,
// scheduler batch outcomes, and store query latency. Everything is
// registered via promauto on the default registry and served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analytics engine metrics
	AnalyticsComputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verdant_analytics_computations_total",
			Help: "Total number of analytics records computed",
		},
	)

	AnalyticsFreshSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verdant_analytics_fresh_skips_total",
			Help: "Total number of computations skipped because the latest record was fresh",
		},
	)

	AnalyticsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "verdant_analytics_duration_seconds",
			Help:    "Duration of analytics computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Recommendation engine metrics
	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verdant_recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verdant_recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	RecommendGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verdant_recommendations_generated_total",
			Help: "Total number of recommendations surfaced to callers",
		},
		[]string{"category", "priority"},
	)

	// Scheduler metrics
	SchedulerBatchPlants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verdant_scheduler_batch_plants_total",
			Help: "Plants handled by scheduled batch runs, by outcome",
		},
		[]string{"outcome"}, // "processed", "skipped", "error"
	)

	SchedulerJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verdant_scheduler_job_runs_total",
			Help: "Completed scheduler job executions",
		},
		[]string{"job"},
	)

	StaleActivePlants = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "verdant_stale_active_plants",
			Help: "Active plants without an analytics record in the last 24h (health probe)",
		},
	)

	// Store metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "verdant_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)
)

// ObserveQuery records one store query's latency.
func ObserveQuery(operation, table string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
