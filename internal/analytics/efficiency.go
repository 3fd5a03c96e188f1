// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"math"

	"github.com/verdant-labs/verdant/internal/models"
)

// Overall-score weights. VPD is weighted highest because it drives
// transpiration and nutrient uptake; CO2 is reported but unweighted.
const (
	WeightTemperature = 0.25
	WeightHumidity    = 0.25
	WeightVPD         = 0.30
	WeightLight       = 0.20
)

// EnvironmentReadings is the averaged sensor input to StageEfficiency.
// Nil fields mark missing dimensions, which score zero without affecting
// the others.
type EnvironmentReadings struct {
	Temperature *float64
	Humidity    *float64
	VPD         *float64
	PPFD        *float64
	CO2         *float64
}

// StageEfficiency scores averaged readings against the stage's optimal
// ranges. Every sub-score lies in [0,1]; OverallScore is the fixed weighted
// sum of the temperature, humidity, VPD, and light sub-scores.
func StageEfficiency(stage models.GrowthStage, readings EnvironmentReadings) models.EnvironmentalEfficiency {
	ranges := RangesFor(stage)

	eff := models.EnvironmentalEfficiency{
		Temperature: scoreReading(readings.Temperature, ranges.Temperature),
		Humidity:    scoreReading(readings.Humidity, ranges.Humidity),
		VPD:         scoreReading(readings.VPD, ranges.VPD),
		Light:       scoreReading(readings.PPFD, ranges.Light),
		CO2:         scoreReading(readings.CO2, ranges.CO2),
	}
	eff.OverallScore = WeightTemperature*eff.Temperature +
		WeightHumidity*eff.Humidity +
		WeightVPD*eff.VPD +
		WeightLight*eff.Light

	return eff
}

// scoreReading computes the piecewise proximity score for one dimension:
// 1 at the optimal value, decaying linearly to 0 at the nearer of the range
// bounds, and 0 everywhere outside [Min,Max]. Missing readings score 0.
func scoreReading(value *float64, r OptimalRange) float64 {
	if value == nil {
		return 0
	}
	v := *value
	if v < r.Min || v > r.Max {
		return 0
	}

	span := math.Max(r.Optimal-r.Min, r.Max-r.Optimal)
	if span <= 0 {
		return 1
	}

	score := 1 - math.Abs(v-r.Optimal)/span
	return clamp(score, 0, 1)
}

// AverageReadings collapses a window of samples into per-dimension means.
// An empty window yields all-nil readings, so every dimension scores zero.
func AverageReadings(samples []models.EnvironmentSample) EnvironmentReadings {
	if len(samples) == 0 {
		return EnvironmentReadings{}
	}

	var temp, hum, vpd, ppfd, co2 float64
	for _, s := range samples {
		temp += s.Temperature
		hum += s.Humidity
		vpd += s.VPD
		ppfd += s.PPFD
		co2 += s.CO2
	}

	n := float64(len(samples))
	return EnvironmentReadings{
		Temperature: ptr(temp / n),
		Humidity:    ptr(hum / n),
		VPD:         ptr(vpd / n),
		PPFD:        ptr(ppfd / n),
		CO2:         ptr(co2 / n),
	}
}

func ptr(v float64) *float64 { return &v }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
