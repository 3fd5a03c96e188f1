// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package models

import "time"

// Priority ranks a recommendation's urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the numeric weight used for prioritization. Unknown
// priorities weigh zero so malformed values sink to the bottom.
func (p Priority) Weight() float64 {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// RecommendationCategory groups rules by concern.
type RecommendationCategory string

const (
	CategoryEnvironmental RecommendationCategory = "environmental"
	CategoryNutrient      RecommendationCategory = "nutrient"
	CategoryCultivation   RecommendationCategory = "cultivation"
	CategoryHarvest       RecommendationCategory = "harvest"
)

// RecommendedAction is one concrete, ordered step within a recommendation.
type RecommendedAction struct {
	// Parameter names the controllable quantity (e.g. "vpd", "temperature").
	Parameter string `json:"parameter"`

	// Directive is the imperative instruction ("raise", "lower", "hold").
	Directive string `json:"directive"`

	// Current is the observed value of the parameter, when known.
	Current float64 `json:"current"`

	// TargetMin/TargetMax bound the desired range for the parameter.
	TargetMin float64 `json:"target_min"`
	TargetMax float64 `json:"target_max"`

	ExpectedBenefit string `json:"expected_benefit,omitempty"`
}

// Recommendation is a prioritized, confidence-scored suggestion produced by
// one rule evaluator. Recommendations live in the engine cache unless
// feedback is submitted, which persists a history entry.
type Recommendation struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Category RecommendationCategory `json:"category"`
	Priority Priority               `json:"priority"`
	Title    string                 `json:"title"`

	Description string              `json:"description"`
	Actions     []RecommendedAction `json:"actions,omitempty"`

	// Confidence is the deterministic heuristic score in [0,1]; callers
	// only ever see recommendations at or above their threshold.
	Confidence float64 `json:"confidence"`

	Reasoning       string `json:"reasoning,omitempty"`
	ExpectedBenefit string `json:"expected_benefit,omitempty"`
}

// RecommendationSet is the result of one recommendation engine invocation.
type RecommendationSet struct {
	PlantID              string           `json:"plant_id"`
	Recommendations      []Recommendation `json:"recommendations"`
	LastUpdated          time.Time        `json:"last_updated"`
	TotalRecommendations int              `json:"total_recommendations"`

	// Confidence is the unweighted mean of the surfaced recommendations'
	// confidences, zero when none survive the threshold.
	Confidence float64 `json:"confidence"`
}
