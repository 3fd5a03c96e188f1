// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/verdant-labs/verdant/internal/models"
)

const scoreEpsilon = 1e-9

func TestStageEfficiencyAtOptimalMidpoints(t *testing.T) {
	t.Parallel()

	// Every stage scored exactly at its optimal midpoints must produce a
	// perfect overall score.
	for stage := range stageRanges {
		r := RangesFor(stage)
		eff := StageEfficiency(stage, EnvironmentReadings{
			Temperature: ptr(r.Temperature.Optimal),
			Humidity:    ptr(r.Humidity.Optimal),
			VPD:         ptr(r.VPD.Optimal),
			PPFD:        ptr(r.Light.Optimal),
			CO2:         ptr(r.CO2.Optimal),
		})

		if math.Abs(eff.OverallScore-1.0) > scoreEpsilon {
			t.Errorf("stage %s: overall = %v, want 1.0", stage, eff.OverallScore)
		}
	}
}

func TestStageEfficiencyFloweringMidpointsScenario(t *testing.T) {
	t.Parallel()

	eff := StageEfficiency(models.StageFlowering, EnvironmentReadings{
		Temperature: ptr(23.0),
		Humidity:    ptr(47.5),
		VPD:         ptr(1.4),
		PPFD:        ptr(750.0),
		CO2:         ptr(1200.0),
	})

	if math.Abs(eff.OverallScore-1.0) > scoreEpsilon {
		t.Errorf("overall = %v, want 1.0", eff.OverallScore)
	}
	for name, score := range map[string]float64{
		"temperature": eff.Temperature,
		"humidity":    eff.Humidity,
		"vpd":         eff.VPD,
		"light":       eff.Light,
		"co2":         eff.CO2,
	} {
		if math.Abs(score-1.0) > scoreEpsilon {
			t.Errorf("%s = %v, want 1.0", name, score)
		}
	}
}

func TestStageEfficiencySubScoreBounds(t *testing.T) {
	t.Parallel()

	// Sweep well past both range bounds for every stage; no sub-score may
	// ever leave [0,1].
	for stage := range stageRanges {
		for v := -100.0; v <= 2000.0; v += 37.0 {
			eff := StageEfficiency(stage, EnvironmentReadings{
				Temperature: ptr(v),
				Humidity:    ptr(v),
				VPD:         ptr(v),
				PPFD:        ptr(v),
				CO2:         ptr(v),
			})
			for name, score := range map[string]float64{
				"temperature": eff.Temperature,
				"humidity":    eff.Humidity,
				"vpd":         eff.VPD,
				"light":       eff.Light,
				"co2":         eff.CO2,
				"overall":     eff.OverallScore,
			} {
				if score < 0 || score > 1 {
					t.Fatalf("stage %s value %v: %s = %v out of [0,1]", stage, v, name, score)
				}
			}
		}
	}
}

func TestStageEfficiencyOverallIsWeightedSum(t *testing.T) {
	t.Parallel()

	eff := StageEfficiency(models.StageVegetative, EnvironmentReadings{
		Temperature: ptr(23.0),
		Humidity:    ptr(60.0),
		VPD:         ptr(1.1),
		PPFD:        ptr(450.0),
		CO2:         ptr(900.0),
	})

	want := WeightTemperature*eff.Temperature +
		WeightHumidity*eff.Humidity +
		WeightVPD*eff.VPD +
		WeightLight*eff.Light
	if math.Abs(eff.OverallScore-want) > scoreEpsilon {
		t.Errorf("overall = %v, want weighted sum %v", eff.OverallScore, want)
	}
}

func TestStageEfficiencyMissingDimension(t *testing.T) {
	t.Parallel()

	// A missing PPFD reading zeroes only the light sub-score.
	r := RangesFor(models.StageFlowering)
	eff := StageEfficiency(models.StageFlowering, EnvironmentReadings{
		Temperature: ptr(r.Temperature.Optimal),
		Humidity:    ptr(r.Humidity.Optimal),
		VPD:         ptr(r.VPD.Optimal),
		CO2:         ptr(r.CO2.Optimal),
	})

	if eff.Light != 0 {
		t.Errorf("light = %v, want 0 for missing reading", eff.Light)
	}
	if eff.Temperature != 1 || eff.Humidity != 1 || eff.VPD != 1 || eff.CO2 != 1 {
		t.Errorf("other dimensions affected: %+v", eff)
	}
	want := WeightTemperature + WeightHumidity + WeightVPD
	if math.Abs(eff.OverallScore-want) > scoreEpsilon {
		t.Errorf("overall = %v, want %v", eff.OverallScore, want)
	}
}

func TestStageEfficiencyOutOfRangeScoresZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value float64
	}{
		{"below min", 10.0},
		{"above max", 35.0},
	}
	for _, tt := range tests {
		eff := StageEfficiency(models.StageFlowering, EnvironmentReadings{Temperature: ptr(tt.value)})
		if eff.Temperature != 0 {
			t.Errorf("%s: temperature = %v, want 0", tt.name, eff.Temperature)
		}
	}
}

func TestAverageReadings(t *testing.T) {
	t.Parallel()

	if got := AverageReadings(nil); got.Temperature != nil || got.VPD != nil {
		t.Error("empty window should yield all-nil readings")
	}

	now := time.Now()
	samples := []models.EnvironmentSample{
		{Temperature: 22, Humidity: 50, VPD: 1.2, CO2: 1000, PPFD: 700, RecordedAt: now},
		{Temperature: 24, Humidity: 54, VPD: 1.4, CO2: 1200, PPFD: 800, RecordedAt: now},
	}
	got := AverageReadings(samples)
	if *got.Temperature != 23 || *got.Humidity != 52 || *got.CO2 != 1100 || *got.PPFD != 750 {
		t.Errorf("unexpected averages: %+v", got)
	}
	if math.Abs(*got.VPD-1.3) > scoreEpsilon {
		t.Errorf("vpd avg = %v, want 1.3", *got.VPD)
	}
}

func TestRangesForStrainOffsets(t *testing.T) {
	t.Parallel()

	base := RangesFor(models.StageFlowering)
	indica := RangesForStrain(models.StageFlowering, models.StrainIndica)

	if indica.Temperature.Optimal != base.Temperature.Optimal-1.0 {
		t.Errorf("indica temp optimal = %v, want %v", indica.Temperature.Optimal, base.Temperature.Optimal-1.0)
	}
	if indica.Humidity.Optimal != base.Humidity.Optimal-5.0 {
		t.Errorf("indica humidity optimal = %v", indica.Humidity.Optimal)
	}
	if indica.Light != base.Light {
		t.Error("light range must not shift by strain class")
	}

	hybrid := RangesForStrain(models.StageFlowering, models.StrainHybrid)
	if hybrid != base {
		t.Error("hybrid offsets must be zero")
	}
}
