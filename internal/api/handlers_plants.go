// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verdant-labs/verdant/internal/models"
	"github.com/verdant-labs/verdant/internal/validation"
)

// CreatePlantRequest is the POST /plants payload.
type CreatePlantRequest struct {
	Name      string    `json:"name" validate:"required,max=200"`
	Strain    string    `json:"strain" validate:"required,max=200"`
	Stage     string    `json:"stage" validate:"required,oneof=seedling vegetative flowering late_flowering harvest"`
	Medium    string    `json:"medium" validate:"required,max=50"`
	Tent      string    `json:"tent" validate:"required,max=100"`
	PlantedAt time.Time `json:"planted_at"`
}

// CreatePlant registers a plant.
//
// Method: POST
// Path: /api/v1/plants
func (h *Handler) CreatePlant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreatePlantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Malformed request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", verr.Messages())
		return
	}

	plantedAt := req.PlantedAt
	if plantedAt.IsZero() {
		plantedAt = time.Now().UTC()
	}

	plant := &models.Plant{
		Name:      req.Name,
		Strain:    req.Strain,
		Stage:     models.GrowthStage(req.Stage),
		Medium:    req.Medium,
		Tent:      req.Tent,
		PlantedAt: plantedAt,
	}
	if err := h.store.CreatePlant(r.Context(), plant); err != nil {
		respondDomainError(w, err)
		return
	}

	h.logger.Info().Str("plant_id", plant.ID).Str("stage", string(plant.Stage)).Msg("Plant created")
	respondData(w, http.StatusCreated, plant, start)
}

// GetPlant returns one plant.
//
// Method: GET
// Path: /api/v1/plants/{id}
func (h *Handler) GetPlant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	plant, err := h.store.GetPlant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, plant, start)
}

// ListPlants returns all non-harvested plants.
//
// Method: GET
// Path: /api/v1/plants
func (h *Handler) ListPlants(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	plants, err := h.store.ListActivePlants(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, plants, start)
}

// UpdateStageRequest is the PUT /plants/{id}/stage payload.
type UpdateStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=seedling vegetative flowering late_flowering harvest"`
}

// UpdatePlantStage advances a plant to a new growth stage.
//
// Method: PUT
// Path: /api/v1/plants/{id}/stage
func (h *Handler) UpdatePlantStage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	var req UpdateStageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Malformed request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", verr.Messages())
		return
	}

	if err := h.store.UpdatePlantStage(r.Context(), id, models.GrowthStage(req.Stage), time.Now().UTC()); err != nil {
		respondDomainError(w, err)
		return
	}

	// A stage change invalidates stage-dependent recommendations.
	h.recommend.ClearPlantCache(id)

	h.logger.Info().Str("plant_id", id).Str("stage", req.Stage).Msg("Plant stage updated")
	respondData(w, http.StatusOK, map[string]string{"id": id, "stage": req.Stage}, start)
}

// CreateSampleRequest is the POST /samples payload.
type CreateSampleRequest struct {
	Tent        string    `json:"tent" validate:"required,max=100"`
	Temperature float64   `json:"temperature" validate:"gte=-20,lte=60"`
	Humidity    float64   `json:"humidity" validate:"gte=0,lte=100"`
	VPD         float64   `json:"vpd" validate:"gte=0,lte=10"`
	CO2         float64   `json:"co2" validate:"gte=0,lte=5000"`
	PPFD        float64   `json:"ppfd" validate:"gte=0,lte=3000"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// CreateSample ingests one environment sample for a tent.
//
// Method: POST
// Path: /api/v1/samples
func (h *Handler) CreateSample(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateSampleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Malformed request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", verr.Messages())
		return
	}

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	sample := &models.EnvironmentSample{
		Tent:        req.Tent,
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		VPD:         req.VPD,
		CO2:         req.CO2,
		PPFD:        req.PPFD,
		RecordedAt:  recordedAt,
	}
	if err := h.store.CreateEnvironmentSample(r.Context(), sample); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, sample, start)
}

// CreateActivityRequest is the POST /plants/{id}/activities payload.
type CreateActivityRequest struct {
	Type       string    `json:"type" validate:"required,oneof=watering feeding training pruning measurement transplant note"`
	Value      *float64  `json:"value,omitempty"`
	Notes      string    `json:"notes,omitempty" validate:"max=500"`
	RecordedAt time.Time `json:"recorded_at"`
}

// CreateActivity logs a care activity against a plant.
//
// Method: POST
// Path: /api/v1/plants/{id}/activities
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	var req CreateActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Malformed request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", verr.Messages())
		return
	}

	// The plant must exist; activities are keyed by plant id.
	if _, err := h.store.GetPlant(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	entry := &models.ActivityLogEntry{
		PlantID:    id,
		Type:       models.ActivityType(req.Type),
		Value:      req.Value,
		Notes:      req.Notes,
		RecordedAt: recordedAt,
	}
	if err := h.store.CreateActivityLogEntry(r.Context(), entry); err != nil {
		respondDomainError(w, err)
		return
	}

	// Fresh care data changes what the care rules would say.
	h.recommend.ClearPlantCache(id)

	respondData(w, http.StatusCreated, entry, start)
}
