// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

/*
analytics_store.go - Analytics Record Persistence

The write path enforces the record invariants so no malformed snapshot ever
reaches the table:
  - yield_prediction outside [0,2000] or growth_rate outside [0,10] rejects
    the whole write with a ValidationError carrying every violated field
  - the efficiency map is coerced into the canonical five keys (temperature,
    humidity, vpd, light, co2): unrecognized keys are dropped, missing keys
    default to 0, and every sub-score plus the overall score is clamped
    to [0,1]
  - embedded notes with an empty or over-long message are dropped from the
    write, not treated as an error

Reads never mutate: GetLatestAnalytics is the freshness-check primitive,
GetAnalyticsTrends feeds the dashboard charts raw stored points.
*/

//nolint:staticcheck // File documentation, not package doc
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

// efficiencyKeys is the canonical sub-score key set, in storage column order.
var efficiencyKeys = []string{"temperature", "humidity", "vpd", "light", "co2"}

// CreateAnalyticsRecord validates, coerces, and persists one analytics
// snapshot, returning the stored record.
func (db *DB) CreateAnalyticsRecord(ctx context.Context, in models.AnalyticsInput) (*models.AnalyticsRecord, error) {
	defer metrics.ObserveQuery("insert", "analytics_records", time.Now())

	var violations []string
	if in.PlantID == "" {
		violations = append(violations, "plant_id must not be empty")
	}
	if in.YieldPrediction < models.YieldPredictionMin || in.YieldPrediction > models.YieldPredictionMax {
		violations = append(violations, fmt.Sprintf("yield_prediction %v outside [%v,%v]",
			in.YieldPrediction, models.YieldPredictionMin, models.YieldPredictionMax))
	}
	if in.GrowthRate < models.GrowthRateMin || in.GrowthRate > models.GrowthRateMax {
		violations = append(violations, fmt.Sprintf("growth_rate %v outside [%v,%v]",
			in.GrowthRate, models.GrowthRateMin, models.GrowthRateMax))
	}
	if len(violations) > 0 {
		return nil, models.NewValidationError(violations...)
	}

	eff := coerceEfficiency(in.Efficiency, in.OverallScore)
	notes := filterNotes(in.Notes)

	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notes: %w", err)
	}

	rec := &models.AnalyticsRecord{
		ID:              uuid.New().String(),
		PlantID:         in.PlantID,
		YieldPrediction: in.YieldPrediction,
		GrowthRate:      in.GrowthRate,
		Efficiency:      eff,
		Notes:           notes,
		CalculatedAt:    in.CalculatedAt,
		CreatedAt:       time.Now().UTC(),
	}
	if rec.CalculatedAt.IsZero() {
		rec.CalculatedAt = rec.CreatedAt
	}
	rec.UpdatedAt = rec.CreatedAt

	query := `INSERT INTO analytics_records (
		id, plant_id, yield_prediction, growth_rate,
		eff_temperature, eff_humidity, eff_vpd, eff_light, eff_co2, eff_overall,
		notes, calculated_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.conn.ExecContext(ctx, query,
		rec.ID, rec.PlantID, rec.YieldPrediction, rec.GrowthRate,
		eff.Temperature, eff.Humidity, eff.VPD, eff.Light, eff.CO2, eff.OverallScore,
		string(notesJSON), rec.CalculatedAt, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics record: %w", err)
	}

	return rec, nil
}

// coerceEfficiency maps a loose key->score map into the canonical shape.
func coerceEfficiency(raw map[string]float64, overall float64) models.EnvironmentalEfficiency {
	scores := make(map[string]float64, len(efficiencyKeys))
	for _, key := range efficiencyKeys {
		scores[key] = clampScore(raw[key])
	}
	return models.EnvironmentalEfficiency{
		Temperature:  scores["temperature"],
		Humidity:     scores["humidity"],
		VPD:          scores["vpd"],
		Light:        scores["light"],
		CO2:          scores["co2"],
		OverallScore: clampScore(overall),
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// filterNotes drops malformed notes: empty types, empty messages, and
// messages longer than the storage cap.
func filterNotes(notes []models.AnalyticsNote) []models.AnalyticsNote {
	kept := make([]models.AnalyticsNote, 0, len(notes))
	for _, n := range notes {
		if n.Type == "" || n.Message == "" || len(n.Message) > models.AnalyticsNoteMaxLen {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// GetLatestAnalytics returns a plant's most recent record by calculated_at,
// or models.ErrAnalyticsNotFound when the plant has none.
func (db *DB) GetLatestAnalytics(ctx context.Context, plantID string) (*models.AnalyticsRecord, error) {
	defer metrics.ObserveQuery("select_latest", "analytics_records", time.Now())

	query := `SELECT
		id, plant_id, yield_prediction, growth_rate,
		eff_temperature, eff_humidity, eff_vpd, eff_light, eff_co2, eff_overall,
		notes, calculated_at, created_at, updated_at
	FROM analytics_records
	WHERE plant_id = ?
	ORDER BY calculated_at DESC
	LIMIT 1`

	rec, err := scanAnalyticsRecord(db.conn.QueryRowContext(ctx, query, plantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrAnalyticsNotFound
		}
		return nil, fmt.Errorf("failed to get latest analytics: %w", err)
	}

	return rec, nil
}

// GetAnalyticsByPlant returns a plant's records newest first, capped at
// limit (<=0 means no cap).
func (db *DB) GetAnalyticsByPlant(ctx context.Context, plantID string, limit int) ([]models.AnalyticsRecord, error) {
	defer metrics.ObserveQuery("select_by_plant", "analytics_records", time.Now())

	query := `SELECT
		id, plant_id, yield_prediction, growth_rate,
		eff_temperature, eff_humidity, eff_vpd, eff_light, eff_co2, eff_overall,
		notes, calculated_at, created_at, updated_at
	FROM analytics_records
	WHERE plant_id = ?
	ORDER BY calculated_at DESC`

	args := []any{plantID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics records: %w", err)
	}
	defer closeWithLog(rows, "analytics record rows")

	var records []models.AnalyticsRecord
	for rows.Next() {
		rec, err := scanAnalyticsRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analytics record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analytics records: %w", err)
	}

	return records, nil
}

// GetAnalyticsTrends returns the yield, growth, and overall-efficiency time
// series for a plant over the last days days, oldest first. Points are the
// raw stored values; no interpolation.
func (db *DB) GetAnalyticsTrends(ctx context.Context, plantID string, days int) (*models.AnalyticsTrends, error) {
	defer metrics.ObserveQuery("select_trends", "analytics_records", time.Now())

	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	query := `SELECT yield_prediction, growth_rate, eff_overall, calculated_at
	FROM analytics_records
	WHERE plant_id = ? AND calculated_at >= ?
	ORDER BY calculated_at`

	rows, err := db.conn.QueryContext(ctx, query, plantID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics trends: %w", err)
	}
	defer closeWithLog(rows, "analytics trend rows")

	trends := &models.AnalyticsTrends{PlantID: plantID, Days: days}
	for rows.Next() {
		var (
			yield, growth, overall float64
			calculatedAt           time.Time
		)
		if err := rows.Scan(&yield, &growth, &overall, &calculatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		trends.Yield = append(trends.Yield, models.TrendPoint{Timestamp: calculatedAt, Value: yield})
		trends.Growth = append(trends.Growth, models.TrendPoint{Timestamp: calculatedAt, Value: growth})
		trends.Efficiency = append(trends.Efficiency, models.TrendPoint{Timestamp: calculatedAt, Value: overall})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trend points: %w", err)
	}

	return trends, nil
}

// DeleteAnalyticsByPlant removes every record for a plant (plant deletion
// cleanup). Returns the number of rows removed.
func (db *DB) DeleteAnalyticsByPlant(ctx context.Context, plantID string) (int64, error) {
	defer metrics.ObserveQuery("delete_by_plant", "analytics_records", time.Now())

	res, err := db.conn.ExecContext(ctx, `DELETE FROM analytics_records WHERE plant_id = ?`, plantID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete analytics for plant: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAnalyticsOlderThan prunes records calculated before the cutoff, the
// retention sweep primitive. Returns the number of rows removed.
func (db *DB) DeleteAnalyticsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	defer metrics.ObserveQuery("delete_old", "analytics_records", time.Now())

	res, err := db.conn.ExecContext(ctx, `DELETE FROM analytics_records WHERE calculated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old analytics: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOrphanedAnalytics removes records whose plant no longer exists.
// Returns the number of rows removed.
func (db *DB) DeleteOrphanedAnalytics(ctx context.Context) (int64, error) {
	defer metrics.ObserveQuery("delete_orphaned", "analytics_records", time.Now())

	query := `DELETE FROM analytics_records
	WHERE plant_id NOT IN (SELECT id FROM plants)`

	res, err := db.conn.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned analytics: %w", err)
	}
	return res.RowsAffected()
}

// CountStaleActivePlants counts non-terminal plants whose newest analytics
// record is older than the cutoff (or that have no record at all), the
// health probe's staleness signal.
func (db *DB) CountStaleActivePlants(ctx context.Context, cutoff time.Time) (int, error) {
	defer metrics.ObserveQuery("count_stale", "plants", time.Now())

	query := `SELECT COUNT(*)
	FROM plants p
	LEFT JOIN (
		SELECT plant_id, MAX(calculated_at) AS latest
		FROM analytics_records
		GROUP BY plant_id
	) a ON a.plant_id = p.id
	WHERE p.stage != ? AND (a.latest IS NULL OR a.latest < ?)`

	var count int
	if err := db.conn.QueryRowContext(ctx, query, string(models.StageHarvest), cutoff).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count stale active plants: %w", err)
	}

	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan code.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalyticsRecord(row rowScanner) (*models.AnalyticsRecord, error) {
	var (
		rec       models.AnalyticsRecord
		notesJSON string
	)
	err := row.Scan(
		&rec.ID, &rec.PlantID, &rec.YieldPrediction, &rec.GrowthRate,
		&rec.Efficiency.Temperature, &rec.Efficiency.Humidity, &rec.Efficiency.VPD,
		&rec.Efficiency.Light, &rec.Efficiency.CO2, &rec.Efficiency.OverallScore,
		&notesJSON, &rec.CalculatedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notesJSON != "" && notesJSON != "[]" && notesJSON != "null" {
		if err := json.Unmarshal([]byte(notesJSON), &rec.Notes); err != nil {
			return nil, fmt.Errorf("failed to decode notes: %w", err)
		}
	}

	return &rec, nil
}
