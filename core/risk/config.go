package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const weightSumTolerance = 1e-9

// Weights blends the static zone attributes into a single vulnerability
// index. All weights must be non-negative and sum to 1.
type Weights struct {
	RiverProximity float64 `json:"river_proximity"`
	ElevationRisk  float64 `json:"elevation_risk"`
	PopDensity     float64 `json:"pop_density"`
	CritInfra      float64 `json:"crit_infra"`
}

// DefaultWeights returns the documented attribute weighting.
func DefaultWeights() Weights {
	return Weights{
		RiverProximity: 0.35,
		ElevationRisk:  0.25,
		PopDensity:     0.20,
		CritInfra:      0.20,
	}
}

// Validate checks non-negativity and that the weights sum to 1.
func (w Weights) Validate() error {
	vals := []float64{w.RiverProximity, w.ElevationRisk, w.PopDensity, w.CritInfra}
	names := []string{"river_proximity", "elevation_risk", "pop_density", "crit_infra"}
	for i, v := range vals {
		if v < 0 {
			return fmt.Errorf("vulnerability weight %s must not be negative: %v", names[i], v)
		}
	}
	if sum := floats.Sum(vals); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("vulnerability weights must sum to 1: %v", sum)
	}
	return nil
}

// Thresholds are the lower bounds of the Moderate, High and Severe bands.
// Everything below Moderate is Low. Bounds must be strictly increasing and
// lie inside (0,1) so that no band collapses to an empty interval.
type Thresholds struct {
	Moderate float64 `json:"moderate"`
	High     float64 `json:"high"`
	Severe   float64 `json:"severe"`
}

// DefaultThresholds returns the standard band cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{Moderate: 0.25, High: 0.5, Severe: 0.75}
}

// Validate checks ordering and range of the cut points.
func (t Thresholds) Validate() error {
	if t.Moderate <= 0 || t.Severe >= 1 || t.Moderate >= t.High || t.High >= t.Severe {
		return fmt.Errorf("band thresholds must be strictly increasing inside (0,1): moderate=%v high=%v severe=%v",
			t.Moderate, t.High, t.Severe)
	}
	return nil
}
