// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package models

import "time"

// Bounds enforced by the analytics store. Out-of-range values are rejected
// with a ValidationError naming every violated field.
const (
	YieldPredictionMin = 0.0
	YieldPredictionMax = 2000.0
	GrowthRateMin      = 0.0
	GrowthRateMax      = 10.0

	// AnalyticsNoteMaxLen is the longest embedded note message the store
	// accepts; longer notes are dropped from the write, not rejected.
	AnalyticsNoteMaxLen = 500
)

// EnvironmentalEfficiency holds the five canonical efficiency sub-scores,
// each in [0,1], plus the weighted overall score.
//
// OverallScore is the fixed weighted sum of the sub-scores: temperature 0.25,
// humidity 0.25, VPD 0.30, light 0.20. The CO2 sub-score is reported for the
// dashboard but carries zero weight in the overall score.
type EnvironmentalEfficiency struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	VPD          float64 `json:"vpd"`
	Light        float64 `json:"light"`
	CO2          float64 `json:"co2"`
	OverallScore float64 `json:"overall_score"`
}

// AnalyticsNote is a short human-readable recommendation embedded in an
// analytics record (the legacy dashboard path, distinct from the rule-based
// Recommendation objects).
type AnalyticsNote struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AnalyticsRecord is one computed snapshot of derived metrics for a plant.
// Multiple records per plant form a time series; the most recent record by
// CalculatedAt is authoritative for "current" queries, history is retained
// for trend charts until the retention sweep prunes it.
type AnalyticsRecord struct {
	ID      string `json:"id"`
	PlantID string `json:"plant_id"`

	// YieldPrediction is the predicted dry yield in grams, clamped to
	// [0,2000] before storage.
	YieldPrediction float64 `json:"yield_prediction"`

	// GrowthRate is the estimated growth rate in cm/day, clamped to
	// [0,10] before storage.
	GrowthRate float64 `json:"growth_rate"`

	Efficiency EnvironmentalEfficiency `json:"environmental_efficiency"`

	// Notes is the bounded list (at most 5) of textual recommendations
	// generated alongside the metrics.
	Notes []AnalyticsNote `json:"recommendations,omitempty"`

	CalculatedAt time.Time `json:"calculated_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AnalyticsInput is the raw payload handed to the analytics store for
// persistence. Efficiency arrives as a loose key->score map; the store
// coerces it into the canonical five-key shape, dropping unrecognized keys
// and defaulting missing ones to zero.
type AnalyticsInput struct {
	PlantID         string             `json:"plant_id"`
	YieldPrediction float64            `json:"yield_prediction"`
	GrowthRate      float64            `json:"growth_rate"`
	Efficiency      map[string]float64 `json:"environmental_efficiency"`
	OverallScore    float64            `json:"overall_score"`
	Notes           []AnalyticsNote    `json:"recommendations,omitempty"`
	CalculatedAt    time.Time          `json:"calculated_at"`
}

// TrendPoint is one raw (timestamp, value) sample in a trend series.
// No interpolation is applied; charts receive the stored points as-is.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// AnalyticsTrends carries the three parallel time series the dashboard
// charts: predicted yield, growth rate, and overall environmental efficiency.
type AnalyticsTrends struct {
	PlantID    string       `json:"plant_id"`
	Days       int          `json:"days"`
	Yield      []TrendPoint `json:"yield"`
	Growth     []TrendPoint `json:"growth"`
	Efficiency []TrendPoint `json:"efficiency"`
}
