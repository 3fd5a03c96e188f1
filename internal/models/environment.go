// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package models

import "time"

// EnvironmentSample is one timestamped reading from a tent's sensors.
// Samples form an append-only, chronologically ordered sequence per tent.
//
// Units:
//   - Temperature: degrees Celsius
//   - Humidity: relative humidity percent (0-100)
//   - VPD: vapor pressure deficit in kPa
//   - CO2: parts per million
//   - PPFD: photosynthetic photon flux density in umol/m2/s
type EnvironmentSample struct {
	ID          string    `json:"id"`
	Tent        string    `json:"tent"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	VPD         float64   `json:"vpd"`
	CO2         float64   `json:"co2"`
	PPFD        float64   `json:"ppfd"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// ActivityType classifies a logged cultivation activity.
type ActivityType string

const (
	ActivityWatering    ActivityType = "watering"
	ActivityFeeding     ActivityType = "feeding"
	ActivityTraining    ActivityType = "training"
	ActivityPruning     ActivityType = "pruning"
	ActivityMeasurement ActivityType = "measurement"
	ActivityTransplant  ActivityType = "transplant"
	ActivityNote        ActivityType = "note"
)

// ActivityLogEntry is one discrete cultivation event tied to a plant.
// Measurement entries carry the plant height in Value (cm); other types may
// carry an optional numeric payload (feeding EC, watering liters, ...).
type ActivityLogEntry struct {
	ID      string       `json:"id"`
	PlantID string       `json:"plant_id"`
	Type    ActivityType `json:"type"`

	// Value is the optional numeric payload. Nil when the activity has
	// no measurable quantity.
	Value *float64 `json:"value,omitempty"`

	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HeightMeasurement is a (timestamp, height) pair extracted from measurement
// activity entries, the input shape of the growth-rate metric.
type HeightMeasurement struct {
	RecordedAt time.Time `json:"recorded_at"`
	HeightCM   float64   `json:"height_cm"`
}
