// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"github.com/verdant-labs/verdant/internal/models"
)

// OptimalRange bounds an environmental parameter for a growth stage.
// Optimal is the midpoint target; scores decay linearly from Optimal toward
// Min/Max and are zero outside the range.
type OptimalRange struct {
	Min     float64
	Max     float64
	Optimal float64
}

// Shift returns the range moved by delta, preserving its width.
func (r OptimalRange) Shift(delta float64) OptimalRange {
	return OptimalRange{
		Min:     r.Min + delta,
		Max:     r.Max + delta,
		Optimal: r.Optimal + delta,
	}
}

// StageRanges holds the optimal ranges for every scored dimension of a stage.
//
// Units match models.EnvironmentSample: Celsius, percent RH, kPa, umol/m2/s,
// ppm.
type StageRanges struct {
	Temperature OptimalRange
	Humidity    OptimalRange
	VPD         OptimalRange
	Light       OptimalRange
	CO2         OptimalRange
}

// stageRanges encodes per-stage environmental targets. Values follow common
// indoor-cultivation guidance: cooler and more humid early, a steep VPD ramp
// through flower, reduced light and humidity approaching harvest.
var stageRanges = map[models.GrowthStage]StageRanges{
	models.StageSeedling: {
		Temperature: OptimalRange{20, 25, 22.5},
		Humidity:    OptimalRange{65, 80, 72.5},
		VPD:         OptimalRange{0.4, 0.8, 0.6},
		Light:       OptimalRange{100, 300, 200},
		CO2:         OptimalRange{400, 800, 600},
	},
	models.StageVegetative: {
		Temperature: OptimalRange{22, 28, 25},
		Humidity:    OptimalRange{55, 70, 62.5},
		VPD:         OptimalRange{0.8, 1.2, 1.0},
		Light:       OptimalRange{400, 600, 500},
		CO2:         OptimalRange{800, 1200, 1000},
	},
	models.StageFlowering: {
		Temperature: OptimalRange{20, 26, 23},
		Humidity:    OptimalRange{40, 55, 47.5},
		VPD:         OptimalRange{1.2, 1.6, 1.4},
		Light:       OptimalRange{600, 900, 750},
		CO2:         OptimalRange{1000, 1400, 1200},
	},
	models.StageLateFlowering: {
		Temperature: OptimalRange{18, 24, 21},
		Humidity:    OptimalRange{35, 50, 42.5},
		VPD:         OptimalRange{1.3, 1.7, 1.5},
		Light:       OptimalRange{500, 800, 650},
		CO2:         OptimalRange{800, 1200, 1000},
	},
	models.StageHarvest: {
		Temperature: OptimalRange{18, 22, 20},
		Humidity:    OptimalRange{45, 55, 50},
		VPD:         OptimalRange{1.0, 1.4, 1.2},
		Light:       OptimalRange{0, 400, 200},
		CO2:         OptimalRange{400, 800, 600},
	},
}

// RangesFor returns the optimal ranges for a stage. Unknown stages fall back
// to vegetative targets, the broadest of the tables.
func RangesFor(stage models.GrowthStage) StageRanges {
	if r, ok := stageRanges[stage]; ok {
		return r
	}
	return stageRanges[models.StageVegetative]
}

// RangeOffset shifts a stage's optimal ranges for a strain class. Indica
// lines prefer cooler, drier air; sativa lines the opposite; autoflowers run
// slightly cool and are otherwise tolerant.
type RangeOffset struct {
	Temperature float64
	Humidity    float64
	VPD         float64
}

var strainOffsets = map[models.StrainClass]RangeOffset{
	models.StrainIndica: {Temperature: -1.0, Humidity: -5.0, VPD: 0.1},
	models.StrainSativa: {Temperature: 1.0, Humidity: 5.0, VPD: -0.1},
	models.StrainHybrid: {},
	models.StrainAuto:   {Temperature: -0.5},
}

// OffsetFor returns the range offset for a strain class, zero for unknown
// classes.
func OffsetFor(class models.StrainClass) RangeOffset {
	return strainOffsets[class]
}

// RangesForStrain returns the stage ranges shifted by the strain-class
// offsets. Light and CO2 targets do not vary by class.
func RangesForStrain(stage models.GrowthStage, class models.StrainClass) StageRanges {
	r := RangesFor(stage)
	off := OffsetFor(class)
	r.Temperature = r.Temperature.Shift(off.Temperature)
	r.Humidity = r.Humidity.Shift(off.Humidity)
	r.VPD = r.VPD.Shift(off.VPD)
	return r
}
