package risk

import (
	"fmt"

	"github.com/floodlab/riskdispatch/core/model"
)

// DefaultCriticalFloor is the minimum classified probability for zones
// hosting hospitals or flagged as critical infrastructure.
const DefaultCriticalFloor = 0.15

// Scorer derives per-zone flood probabilities from one global forecast.
// Vulnerability above the 0.5 midpoint amplifies the global probability,
// below it attenuates it; the result is clamped to [0,1].
type Scorer struct {
	Weights       Weights
	CriticalFloor float64
}

// NewScorer returns a scorer with default weights and critical floor.
func NewScorer() Scorer {
	return Scorer{Weights: DefaultWeights(), CriticalFloor: DefaultCriticalFloor}
}

// Validate checks the scorer configuration.
func (s Scorer) Validate() error {
	if err := s.Weights.Validate(); err != nil {
		return err
	}
	if s.CriticalFloor < 0 || s.CriticalFloor > 1 {
		return fmt.Errorf("critical infra floor out of range [0,1]: %v", s.CriticalFloor)
	}
	return nil
}

// Vulnerability returns the weighted vulnerability index of a zone.
func (s Scorer) Vulnerability(z model.Zone) float64 {
	return s.Weights.RiverProximity*z.RiverProximity +
		s.Weights.ElevationRisk*z.ElevationRisk +
		s.Weights.PopDensity*z.PopDensity +
		s.Weights.CritInfra*z.CritInfraScore
}

// Score computes each zone's localized probability, preserving zone order.
// Bands are left unset; run the result through a Classifier to populate
// them. Zones with hospitals or the critical infrastructure flag are
// floored at CriticalFloor even when the global probability is 0.
func (s Scorer) Score(f model.ForecastInput, zones []model.Zone) []model.ZoneRisk {
	out := make([]model.ZoneRisk, 0, len(zones))
	for _, z := range zones {
		v := s.Vulnerability(z)
		p := clamp01(f.GlobalPf * (1 + (v - 0.5)))
		if (z.HospitalCount > 0 || z.IsCriticalInfra) && p < s.CriticalFloor {
			p = s.CriticalFloor
		}
		out = append(out, model.ZoneRisk{
			ZoneID:          z.ID,
			Probability:     p,
			IsCriticalInfra: z.IsCriticalInfra,
			HospitalCount:   z.HospitalCount,
		})
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
