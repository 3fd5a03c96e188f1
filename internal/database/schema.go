// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

/*
schema.go - Database Schema Management

All tables are defined in the initial CREATE TABLE statements; there are no
migrations. Tables:
  - plants: cultivated plants with stage, strain, medium, and tent
  - environment_samples: per-tent sensor readings (temp, RH, VPD, CO2, PPFD)
  - activity_log: care activities per plant; measurement rows carry a value
  - analytics_records: computed metric snapshots, one row per computation
  - feedback: user feedback on delivered recommendations
  - recommendation_history: latest state per recommendation id per plant

Indexes cover the hot query paths: samples by tent and time, activities and
analytics by plant and time, and history by plant.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS plants (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			strain TEXT NOT NULL,
			stage TEXT NOT NULL,
			medium TEXT,
			tent TEXT NOT NULL,
			planted_at TIMESTAMP NOT NULL,
			stage_changed_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS environment_samples (
			id UUID PRIMARY KEY,
			tent TEXT NOT NULL,
			temperature DOUBLE,
			humidity DOUBLE,
			vpd DOUBLE,
			co2 DOUBLE,
			ppfd DOUBLE,
			recorded_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS activity_log (
			id UUID PRIMARY KEY,
			plant_id UUID NOT NULL,
			activity_type TEXT NOT NULL,
			value DOUBLE,
			note TEXT,
			recorded_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analytics_records (
			id UUID PRIMARY KEY,
			plant_id UUID NOT NULL,
			yield_prediction DOUBLE NOT NULL,
			growth_rate DOUBLE NOT NULL,
			eff_temperature DOUBLE NOT NULL,
			eff_humidity DOUBLE NOT NULL,
			eff_vpd DOUBLE NOT NULL,
			eff_light DOUBLE NOT NULL,
			eff_co2 DOUBLE NOT NULL,
			eff_overall DOUBLE NOT NULL,
			notes TEXT NOT NULL DEFAULT '[]',
			calculated_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS feedback (
			id UUID PRIMARY KEY,
			plant_id UUID NOT NULL,
			recommendation_id TEXT NOT NULL,
			implemented BOOLEAN NOT NULL,
			effectiveness TEXT,
			notes TEXT,
			outcome TEXT,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recommendation_history (
			plant_id UUID NOT NULL,
			recommendation_id TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			implemented BOOLEAN NOT NULL,
			effectiveness TEXT,
			notes TEXT,
			feedback_count INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (plant_id, recommendation_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plants_stage ON plants(stage)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_tent_time ON environment_samples(tent, recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_plant_time ON activity_log(plant_id, recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_plant_time ON analytics_records(plant_id, calculated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_plant ON feedback(plant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_history_plant ON recommendation_history(plant_id)`,
	}
}
