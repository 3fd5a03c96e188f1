// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-labs/verdant/internal/models"
)

// CreateEnvironmentSample appends one sensor reading for a tent.
func (db *DB) CreateEnvironmentSample(ctx context.Context, sample *models.EnvironmentSample) error {
	if sample.ID == "" {
		sample.ID = uuid.New().String()
	}
	if sample.Tent == "" {
		return models.NewValidationError("tent")
	}
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = time.Now().UTC()
	}

	query := `INSERT INTO environment_samples (
		id, tent, temperature, humidity, vpd, co2, ppfd, recorded_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		sample.ID, sample.Tent, sample.Temperature, sample.Humidity,
		sample.VPD, sample.CO2, sample.PPFD, sample.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create environment sample: %w", err)
	}

	return nil
}

// GetEnvironmentSamples returns a tent's readings in [from, to], oldest
// first. An empty result is not an error; the metric library degrades.
func (db *DB) GetEnvironmentSamples(ctx context.Context, tent string, from, to time.Time) ([]models.EnvironmentSample, error) {
	query := `SELECT id, tent, temperature, humidity, vpd, co2, ppfd, recorded_at
	FROM environment_samples
	WHERE tent = ? AND recorded_at >= ? AND recorded_at <= ?
	ORDER BY recorded_at`

	rows, err := db.conn.QueryContext(ctx, query, tent, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query environment samples: %w", err)
	}
	defer closeWithLog(rows, "environment sample rows")

	var samples []models.EnvironmentSample
	for rows.Next() {
		var s models.EnvironmentSample
		if err := rows.Scan(&s.ID, &s.Tent, &s.Temperature, &s.Humidity, &s.VPD, &s.CO2, &s.PPFD, &s.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan environment sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate environment samples: %w", err)
	}

	return samples, nil
}

// CreateActivityLogEntry appends one care activity for a plant.
func (db *DB) CreateActivityLogEntry(ctx context.Context, entry *models.ActivityLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.PlantID == "" {
		return models.NewValidationError("plant_id")
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	query := `INSERT INTO activity_log (
		id, plant_id, activity_type, value, note, recorded_at
	) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		entry.ID, entry.PlantID, string(entry.Type), entry.Value, entry.Notes, entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log entry: %w", err)
	}

	return nil
}

// GetActivityLog returns a plant's activities in [from, to], oldest first.
func (db *DB) GetActivityLog(ctx context.Context, plantID string, from, to time.Time) ([]models.ActivityLogEntry, error) {
	query := `SELECT id, plant_id, activity_type, value, note, recorded_at
	FROM activity_log
	WHERE plant_id = ? AND recorded_at >= ? AND recorded_at <= ?
	ORDER BY recorded_at`

	rows, err := db.conn.QueryContext(ctx, query, plantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer closeWithLog(rows, "activity log rows")

	var entries []models.ActivityLogEntry
	for rows.Next() {
		var (
			e            models.ActivityLogEntry
			activityType string
			value        sql.NullFloat64
			note         sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.PlantID, &activityType, &value, &note, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity log entry: %w", err)
		}
		e.Type = models.ActivityType(activityType)
		if value.Valid {
			v := value.Float64
			e.Value = &v
		}
		e.Notes = note.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity log: %w", err)
	}

	return entries, nil
}
