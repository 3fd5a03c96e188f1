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

	"github.com/google/uuid"

	"github.com/verdant-labs/verdant/internal/models"
)

// CreatePlant inserts a new plant. Missing IDs and timestamps are filled in.
func (db *DB) CreatePlant(ctx context.Context, plant *models.Plant) error {
	if plant.ID == "" {
		plant.ID = uuid.New().String()
	}
	if !plant.Stage.Valid() {
		return models.NewValidationError("stage")
	}
	if plant.CreatedAt.IsZero() {
		plant.CreatedAt = time.Now().UTC()
	}
	plant.UpdatedAt = plant.CreatedAt

	query := `INSERT INTO plants (
		id, name, strain, stage, medium, tent,
		planted_at, stage_changed_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		plant.ID, plant.Name, plant.Strain, string(plant.Stage), plant.Medium, plant.Tent,
		plant.PlantedAt, nullableTime(plant.StageChangedAt), plant.CreatedAt, plant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create plant: %w", err)
	}

	return nil
}

// GetPlant retrieves a plant by ID. Returns models.ErrPlantNotFound when no
// row matches.
func (db *DB) GetPlant(ctx context.Context, id string) (*models.Plant, error) {
	query := `SELECT
		id, name, strain, stage, medium, tent,
		planted_at, stage_changed_at, created_at, updated_at
	FROM plants WHERE id = ?`

	var (
		p              models.Plant
		stage          string
		stageChangedAt sql.NullTime
	)
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Strain, &stage, &p.Medium, &p.Tent,
		&p.PlantedAt, &stageChangedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPlantNotFound
		}
		return nil, fmt.Errorf("failed to get plant: %w", err)
	}

	p.Stage = models.GrowthStage(stage)
	if stageChangedAt.Valid {
		p.StageChangedAt = stageChangedAt.Time
	}

	return &p, nil
}

// ListActivePlants returns the id/stage projection of every plant not in a
// terminal stage, the scheduler's batch input.
func (db *DB) ListActivePlants(ctx context.Context) ([]models.ActivePlant, error) {
	query := `SELECT id, stage FROM plants WHERE stage != ? ORDER BY created_at`

	rows, err := db.conn.QueryContext(ctx, query, string(models.StageHarvest))
	if err != nil {
		return nil, fmt.Errorf("failed to list active plants: %w", err)
	}
	defer closeWithLog(rows, "active plants rows")

	var plants []models.ActivePlant
	for rows.Next() {
		var (
			p     models.ActivePlant
			stage string
		)
		if err := rows.Scan(&p.ID, &stage); err != nil {
			return nil, fmt.Errorf("failed to scan active plant: %w", err)
		}
		p.Stage = models.GrowthStage(stage)
		plants = append(plants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active plants: %w", err)
	}

	return plants, nil
}

// UpdatePlantStage advances a plant to a new stage, stamping
// stage_changed_at so day-in-stage derivations restart.
func (db *DB) UpdatePlantStage(ctx context.Context, id string, stage models.GrowthStage, changedAt time.Time) error {
	if !stage.Valid() {
		return models.NewValidationError("stage")
	}

	query := `UPDATE plants SET stage = ?, stage_changed_at = ?, updated_at = ? WHERE id = ?`

	res, err := db.conn.ExecContext(ctx, query, string(stage), changedAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update plant stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return models.ErrPlantNotFound
	}

	return nil
}

// nullableTime maps a zero time.Time to NULL for optional timestamp columns.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
