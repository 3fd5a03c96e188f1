// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package models

import (
	"time"
)

// GrowthStage identifies a plant's growth phase.
//
// Stages are ordered: a plant progresses seedling -> vegetative -> flowering
// -> late_flowering -> harvest. Harvest is terminal; the background scheduler
// excludes harvested plants from batch recomputation.
type GrowthStage string

const (
	StageSeedling      GrowthStage = "seedling"
	StageVegetative    GrowthStage = "vegetative"
	StageFlowering     GrowthStage = "flowering"
	StageLateFlowering GrowthStage = "late_flowering"
	StageHarvest       GrowthStage = "harvest"
)

// Valid reports whether the stage is one of the known growth stages.
func (s GrowthStage) Valid() bool {
	switch s {
	case StageSeedling, StageVegetative, StageFlowering, StageLateFlowering, StageHarvest:
		return true
	}
	return false
}

// Terminal reports whether the stage excludes the plant from scheduled
// recomputation.
func (s GrowthStage) Terminal() bool {
	return s == StageHarvest
}

// StrainClass groups strains into coarse genetic classes. The class drives
// base-yield lookup and optimal-range offsets; it is derived from the strain
// label by keyword matching, never stored.
type StrainClass string

const (
	StrainIndica StrainClass = "indica"
	StrainSativa StrainClass = "sativa"
	StrainHybrid StrainClass = "hybrid"
	StrainAuto   StrainClass = "auto"
)

// GrowMedium identifies the normalized growing medium.
type GrowMedium string

const (
	MediumSoil  GrowMedium = "soil"
	MediumCoco  GrowMedium = "coco"
	MediumHydro GrowMedium = "hydro"
)

// Plant represents a cultivated plant. Plants are owned by the persistence
// layer; the analytics core treats them as read-only input.
type Plant struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Strain string      `json:"strain"`
	Stage  GrowthStage `json:"stage"`
	Medium string      `json:"medium"`

	// Tent identifies the tent/zone whose environment samples apply to
	// this plant.
	Tent string `json:"tent"`

	PlantedAt time.Time `json:"planted_at"`

	// StageChangedAt is when the plant entered its current stage. Zero
	// means unknown; derived day counts then fall back to PlantedAt.
	StageChangedAt time.Time `json:"stage_changed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DaysInStage returns the whole days the plant has spent in its current
// stage as of now. Derived, never stored.
func (p *Plant) DaysInStage(now time.Time) int {
	since := p.StageChangedAt
	if since.IsZero() {
		since = p.PlantedAt
	}
	return daysBetween(since, now)
}

// TotalDays returns the whole days since planting as of now.
func (p *Plant) TotalDays(now time.Time) int {
	return daysBetween(p.PlantedAt, now)
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// ActivePlant is the minimal projection the scheduler works with when
// listing plants for batch processing.
type ActivePlant struct {
	ID    string      `json:"id"`
	Stage GrowthStage `json:"stage"`
}
