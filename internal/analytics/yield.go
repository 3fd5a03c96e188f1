// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"github.com/verdant-labs/verdant/internal/models"
)

// Yield prediction bounds in grams. Predictions are clamped here regardless
// of how extreme the multiplier inputs are.
const (
	yieldFloorGrams = 10.0
	yieldCapGrams   = 2000.0
)

// Care-quality multiplier parameters: 0.8 baseline plus 0.1 per
// activities-per-30-days unit, capped at 1.2.
const (
	careBaseline = 0.8
	carePerUnit  = 0.1
	careCap      = 1.2
)

// baseYieldGrams is the (strain class x medium) base dry-yield table.
// Hydroponic setups outyield soil; autoflowers run smaller across the board.
var baseYieldGrams = map[models.StrainClass]map[models.GrowMedium]float64{
	models.StrainIndica: {
		models.MediumSoil:  400,
		models.MediumCoco:  450,
		models.MediumHydro: 500,
	},
	models.StrainSativa: {
		models.MediumSoil:  450,
		models.MediumCoco:  500,
		models.MediumHydro: 550,
	},
	models.StrainHybrid: {
		models.MediumSoil:  425,
		models.MediumCoco:  475,
		models.MediumHydro: 525,
	},
	models.StrainAuto: {
		models.MediumSoil:  300,
		models.MediumCoco:  350,
		models.MediumHydro: 400,
	},
}

// stageProgress encodes the stage-progression multiplier heuristic: each
// stage has a floor multiplier that ramps linearly toward the next stage's
// floor over the stage's typical duration in days.
type stageProgress struct {
	floor    float64
	next     float64
	duration float64
}

var stageProgression = map[models.GrowthStage]stageProgress{
	models.StageSeedling:      {floor: 0.25, next: 0.5, duration: 14},
	models.StageVegetative:    {floor: 0.5, next: 0.85, duration: 42},
	models.StageFlowering:     {floor: 0.85, next: 1.0, duration: 42},
	models.StageLateFlowering: {floor: 1.0, next: 1.0, duration: 14},
	models.StageHarvest:       {floor: 1.0, next: 1.0, duration: 1},
}

// BaseYield returns the base dry-yield figure for a strain class and medium.
// Unknown combinations fall back to the hybrid/soil cell.
func BaseYield(class models.StrainClass, medium models.GrowMedium) float64 {
	if byMedium, ok := baseYieldGrams[class]; ok {
		if base, ok := byMedium[medium]; ok {
			return base
		}
	}
	return baseYieldGrams[models.StrainHybrid][models.MediumSoil]
}

// StageProgressionMultiplier returns the yield multiplier for a plant's
// position within its stage.
func StageProgressionMultiplier(stage models.GrowthStage, daysInStage int) float64 {
	p, ok := stageProgression[stage]
	if !ok {
		p = stageProgression[models.StageVegetative]
	}

	progress := float64(daysInStage) / p.duration
	if progress > 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}
	return p.floor + progress*(p.next-p.floor)
}

// CareQualityMultiplier converts logged-activity density into a yield
// multiplier. The rate unit is activities per 30 days over the observation
// window; zero activity bottoms out at the 0.8 baseline.
func CareQualityMultiplier(activityCount, windowDays int) float64 {
	if windowDays <= 0 {
		windowDays = 30
	}
	rate := float64(activityCount) * 30 / float64(windowDays)
	return clamp(careBaseline+carePerUnit*rate, careBaseline, careCap)
}

// YieldPrediction predicts dry yield in grams: the (strain class x medium)
// base multiplied by three independent factors — environmental (0.5 +
// overall efficiency score), stage progression, and care quality — clamped
// to [10,2000].
func YieldPrediction(
	class models.StrainClass,
	medium models.GrowMedium,
	overallScore float64,
	stage models.GrowthStage,
	daysInStage int,
	activityCount int,
	windowDays int,
) float64 {
	base := BaseYield(class, medium)
	environmental := 0.5 + clamp(overallScore, 0, 1)
	progression := StageProgressionMultiplier(stage, daysInStage)
	care := CareQualityMultiplier(activityCount, windowDays)

	return clamp(base*environmental*progression*care, yieldFloorGrams, yieldCapGrams)
}
