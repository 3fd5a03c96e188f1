// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/verdant-labs/verdant/internal/metrics"
	"github.com/verdant-labs/verdant/internal/models"
)

// CreateFeedback appends one feedback record. Every submission is kept;
// the per-recommendation state lives in recommendation_history.
func (db *DB) CreateFeedback(ctx context.Context, fb *models.FeedbackRecord) error {
	defer metrics.ObserveQuery("insert", "feedback", time.Now())

	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	var outcomeJSON any
	if len(fb.Outcome) > 0 {
		encoded, err := json.Marshal(fb.Outcome)
		if err != nil {
			return fmt.Errorf("failed to encode feedback outcome: %w", err)
		}
		outcomeJSON = string(encoded)
	}

	query := `INSERT INTO feedback (
		id, plant_id, recommendation_id, implemented, effectiveness, notes, outcome, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		fb.ID, fb.PlantID, fb.RecommendationID, fb.Implemented,
		string(fb.Effectiveness), fb.Notes, outcomeJSON, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// UpsertRecommendationHistory creates the durable history entry for a
// recommendation on first feedback and updates it on subsequent feedback,
// incrementing the feedback counter.
func (db *DB) UpsertRecommendationHistory(ctx context.Context, plantID string, rec models.Recommendation, fb *models.FeedbackRecord) error {
	defer metrics.ObserveQuery("upsert", "recommendation_history", time.Now())

	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode recommendation snapshot: %w", err)
	}

	now := time.Now().UTC()

	query := `INSERT INTO recommendation_history (
		plant_id, recommendation_id, recommendation, implemented,
		effectiveness, notes, feedback_count, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
	ON CONFLICT (plant_id, recommendation_id) DO UPDATE SET
		implemented = excluded.implemented,
		effectiveness = excluded.effectiveness,
		notes = excluded.notes,
		feedback_count = recommendation_history.feedback_count + 1,
		updated_at = excluded.updated_at`

	_, err = db.conn.ExecContext(ctx, query,
		plantID, rec.ID, string(recJSON), fb.Implemented,
		string(fb.Effectiveness), fb.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert recommendation history: %w", err)
	}

	return nil
}

// GetRecommendationHistory returns a plant's history entries newest first,
// capped at limit (<=0 means no cap).
func (db *DB) GetRecommendationHistory(ctx context.Context, plantID string, limit int) ([]models.RecommendationHistoryEntry, error) {
	defer metrics.ObserveQuery("select", "recommendation_history", time.Now())

	query := `SELECT
		plant_id, recommendation_id, recommendation, implemented,
		effectiveness, notes, feedback_count, created_at, updated_at
	FROM recommendation_history
	WHERE plant_id = ?
	ORDER BY updated_at DESC`

	args := []any{plantID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendation history: %w", err)
	}
	defer closeWithLog(rows, "recommendation history rows")

	var entries []models.RecommendationHistoryEntry
	for rows.Next() {
		var (
			e             models.RecommendationHistoryEntry
			recJSON       string
			effectiveness sql.NullString
			notes         sql.NullString
		)
		if err := rows.Scan(
			&e.PlantID, &e.RecommendationID, &recJSON, &e.Implemented,
			&effectiveness, &notes, &e.FeedbackCount, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation history entry: %w", err)
		}
		if err := json.Unmarshal([]byte(recJSON), &e.Recommendation); err != nil {
			return nil, fmt.Errorf("failed to decode recommendation snapshot: %w", err)
		}
		e.Effectiveness = models.Effectiveness(effectiveness.String)
		e.Notes = notes.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendation history: %w", err)
	}

	return entries, nil
}

// GetRecommendationHistoryEntry returns one history entry, or
// models.ErrRecommendationNotFound when none exists.
func (db *DB) GetRecommendationHistoryEntry(ctx context.Context, plantID, recommendationID string) (*models.RecommendationHistoryEntry, error) {
	defer metrics.ObserveQuery("select_one", "recommendation_history", time.Now())

	query := `SELECT
		plant_id, recommendation_id, recommendation, implemented,
		effectiveness, notes, feedback_count, created_at, updated_at
	FROM recommendation_history
	WHERE plant_id = ? AND recommendation_id = ?`

	var (
		e             models.RecommendationHistoryEntry
		recJSON       string
		effectiveness sql.NullString
		notes         sql.NullString
	)
	err := db.conn.QueryRowContext(ctx, query, plantID, recommendationID).Scan(
		&e.PlantID, &e.RecommendationID, &recJSON, &e.Implemented,
		&effectiveness, &notes, &e.FeedbackCount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("failed to get recommendation history entry: %w", err)
	}

	if err := json.Unmarshal([]byte(recJSON), &e.Recommendation); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation snapshot: %w", err)
	}
	e.Effectiveness = models.Effectiveness(effectiveness.String)
	e.Notes = notes.String

	return &e, nil
}
