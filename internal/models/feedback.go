// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package models

import "time"

// Effectiveness rates the outcome of an implemented recommendation.
type Effectiveness string

const (
	EffectivenessPositive Effectiveness = "positive"
	EffectivenessNeutral  Effectiveness = "neutral"
	EffectivenessNegative Effectiveness = "negative"
)

// FeedbackRecord links a recommendation id to user-reported outcome data.
// Effectiveness is required whenever Implemented is true.
type FeedbackRecord struct {
	ID               string `json:"id"`
	RecommendationID string `json:"recommendation_id" validate:"required"`
	PlantID          string `json:"plant_id" validate:"required"`
	Implemented      bool   `json:"implemented"`

	Effectiveness Effectiveness `json:"effectiveness,omitempty" validate:"required_if=Implemented true,omitempty,oneof=positive neutral negative"`

	Notes string `json:"notes,omitempty"`

	// Outcome is an optional free-form payload describing the observed
	// result (e.g. measured VPD after adjustment).
	Outcome map[string]any `json:"outcome,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// RecommendationHistoryEntry is the durable, one-per-recommendation-id record
// created on first feedback and updated on subsequent feedback. It carries
// the recommendation snapshot so statistics survive cache expiry.
type RecommendationHistoryEntry struct {
	RecommendationID string         `json:"recommendation_id"`
	PlantID          string         `json:"plant_id"`
	Recommendation   Recommendation `json:"recommendation"`
	Implemented      bool           `json:"implemented"`
	Effectiveness    Effectiveness  `json:"effectiveness,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	FeedbackCount    int            `json:"feedback_count"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
