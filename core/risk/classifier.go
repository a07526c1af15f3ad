package risk

import "github.com/floodlab/riskdispatch/core/model"

// Classifier buckets zone probabilities into risk bands. Each band is a
// half-open interval except Severe, which includes 1.0, so every
// probability in [0,1] maps to exactly one band.
type Classifier struct {
	Thresholds Thresholds
}

// NewClassifier returns a classifier with the default cut points.
func NewClassifier() Classifier {
	return Classifier{Thresholds: DefaultThresholds()}
}

// Validate checks the classifier configuration.
func (c Classifier) Validate() error {
	return c.Thresholds.Validate()
}

// Classify returns a copy of risks with bands populated.
func (c Classifier) Classify(risks []model.ZoneRisk) []model.ZoneRisk {
	out := make([]model.ZoneRisk, len(risks))
	copy(out, risks)
	for i := range out {
		out[i].Band = c.Band(out[i].Probability)
	}
	return out
}

// Band maps a single probability onto its risk band.
func (c Classifier) Band(p float64) model.RiskBand {
	switch {
	case p >= c.Thresholds.Severe:
		return model.BandSevere
	case p >= c.Thresholds.High:
		return model.BandHigh
	case p >= c.Thresholds.Moderate:
		return model.BandModerate
	default:
		return model.BandLow
	}
}
