// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package database

import (
	"context"
	"testing"
	"time"

	"github.com/verdant-labs/verdant/internal/config"
	"github.com/verdant-labs/verdant/internal/models"
)

// testDBSemaphore serializes DuckDB lifecycles. Concurrent CGO-backed
// connections can hang under CI resource pressure, so only one test holds an
// open database at a time; released via t.Cleanup when the test completes.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory test database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

func testPlant(stage models.GrowthStage) *models.Plant {
	now := time.Now().UTC()
	return &models.Plant{
		Name:           "Test Plant",
		Strain:         "Northern Lights",
		Stage:          stage,
		Medium:         "soil",
		Tent:           "tent-1",
		PlantedAt:      now.AddDate(0, 0, -60),
		StageChangedAt: now.AddDate(0, 0, -20),
	}
}

func TestNewAndPing(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestCreateAndGetPlant(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	plant := testPlant(models.StageFlowering)
	if err := db.CreatePlant(ctx, plant); err != nil {
		t.Fatalf("CreatePlant: %v", err)
	}
	if plant.ID == "" {
		t.Fatal("CreatePlant must assign an ID")
	}

	got, err := db.GetPlant(ctx, plant.ID)
	if err != nil {
		t.Fatalf("GetPlant: %v", err)
	}
	if got.Name != plant.Name || got.Strain != plant.Strain || got.Tent != plant.Tent {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
	if got.Stage != models.StageFlowering {
		t.Errorf("stage = %q, want flowering", got.Stage)
	}
	if got.StageChangedAt.IsZero() {
		t.Error("stage_changed_at must round-trip")
	}
}

func TestGetPlantNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetPlant(context.Background(), "00000000-0000-0000-0000-000000000000")
	if err != models.ErrPlantNotFound {
		t.Fatalf("expected ErrPlantNotFound, got %v", err)
	}
}

func TestCreatePlantRejectsInvalidStage(t *testing.T) {
	db := setupTestDB(t)

	plant := testPlant("sprouting")
	err := db.CreatePlant(context.Background(), plant)
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListActivePlantsExcludesHarvested(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	stages := []models.GrowthStage{
		models.StageSeedling,
		models.StageVegetative,
		models.StageFlowering,
		models.StageHarvest,
	}
	for _, stage := range stages {
		if err := db.CreatePlant(ctx, testPlant(stage)); err != nil {
			t.Fatalf("CreatePlant(%s): %v", stage, err)
		}
	}

	active, err := db.ListActivePlants(ctx)
	if err != nil {
		t.Fatalf("ListActivePlants: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("got %d active plants, want 3", len(active))
	}
	for _, p := range active {
		if p.Stage.Terminal() {
			t.Errorf("harvested plant %s listed as active", p.ID)
		}
	}
}

func TestUpdatePlantStage(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	plant := testPlant(models.StageVegetative)
	if err := db.CreatePlant(ctx, plant); err != nil {
		t.Fatalf("CreatePlant: %v", err)
	}

	changedAt := time.Now().UTC()
	if err := db.UpdatePlantStage(ctx, plant.ID, models.StageFlowering, changedAt); err != nil {
		t.Fatalf("UpdatePlantStage: %v", err)
	}

	got, err := db.GetPlant(ctx, plant.ID)
	if err != nil {
		t.Fatalf("GetPlant: %v", err)
	}
	if got.Stage != models.StageFlowering {
		t.Errorf("stage = %q, want flowering", got.Stage)
	}

	if err := db.UpdatePlantStage(ctx, "00000000-0000-0000-0000-000000000000", models.StageHarvest, changedAt); err != models.ErrPlantNotFound {
		t.Errorf("expected ErrPlantNotFound for unknown plant, got %v", err)
	}
}

func TestEnvironmentSampleRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		sample := &models.EnvironmentSample{
			Tent:        "tent-1",
			Temperature: 23.5,
			Humidity:    50,
			VPD:         1.3,
			CO2:         1100,
			PPFD:        700,
			RecordedAt:  now.Add(time.Duration(-i) * time.Hour),
		}
		if err := db.CreateEnvironmentSample(ctx, sample); err != nil {
			t.Fatalf("CreateEnvironmentSample: %v", err)
		}
	}
	// A sample for another tent must not appear in the result.
	other := &models.EnvironmentSample{Tent: "tent-2", Temperature: 30, RecordedAt: now}
	if err := db.CreateEnvironmentSample(ctx, other); err != nil {
		t.Fatalf("CreateEnvironmentSample(other tent): %v", err)
	}

	samples, err := db.GetEnvironmentSamples(ctx, "tent-1", now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("GetEnvironmentSamples: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].RecordedAt.Before(samples[i-1].RecordedAt) {
			t.Fatal("samples must be oldest first")
		}
	}
	if samples[0].VPD != 1.3 || samples[0].PPFD != 700 {
		t.Errorf("sample fields mismatch: %+v", samples[0])
	}
}

func TestActivityLogRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	plant := testPlant(models.StageVegetative)
	if err := db.CreatePlant(ctx, plant); err != nil {
		t.Fatalf("CreatePlant: %v", err)
	}

	height := 24.5
	entries := []*models.ActivityLogEntry{
		{PlantID: plant.ID, Type: models.ActivityWatering, RecordedAt: now.Add(-2 * time.Hour)},
		{PlantID: plant.ID, Type: models.ActivityMeasurement, Value: &height, RecordedAt: now.Add(-time.Hour)},
	}
	for _, e := range entries {
		if err := db.CreateActivityLogEntry(ctx, e); err != nil {
			t.Fatalf("CreateActivityLogEntry: %v", err)
		}
	}

	got, err := db.GetActivityLog(ctx, plant.ID, now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("GetActivityLog: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Type != models.ActivityWatering || got[0].Value != nil {
		t.Errorf("watering entry mismatch: %+v", got[0])
	}
	if got[1].Type != models.ActivityMeasurement {
		t.Errorf("measurement entry mismatch: %+v", got[1])
	}
	if got[1].Value == nil || *got[1].Value != height {
		t.Errorf("measurement value must round-trip, got %v", got[1].Value)
	}
}
