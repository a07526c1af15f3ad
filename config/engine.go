package config

import (
	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/plan"
	"github.com/floodlab/riskdispatch/core/risk"
)

// EngineConfig tunes risk scoring, band classification and crisp demand.
// Zero values select the documented defaults.
type EngineConfig struct {
	Weights       risk.Weights           `json:"weights"`
	CriticalFloor float64                `json:"critical_floor"`
	Thresholds    risk.Thresholds        `json:"thresholds"`
	Demand        allocation.DemandTable `json:"demand"`
}

// SetDefaults fills unset sections with the default tuning.
func (c *EngineConfig) SetDefaults() {
	if c.Weights == (risk.Weights{}) {
		c.Weights = risk.DefaultWeights()
	}
	if c.CriticalFloor == 0 {
		c.CriticalFloor = risk.DefaultCriticalFloor
	}
	if c.Thresholds == (risk.Thresholds{}) {
		c.Thresholds = risk.DefaultThresholds()
	}
	if c.Demand == (allocation.DemandTable{}) {
		c.Demand = allocation.DefaultDemand()
	}
}

// Validate checks the tuning the same way engine construction does.
func (c EngineConfig) Validate() error {
	scorer := risk.Scorer{Weights: c.Weights, CriticalFloor: c.CriticalFloor}
	if err := scorer.Validate(); err != nil {
		return err
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	return c.Demand.Validate()
}

// Plan converts the section into the engine configuration struct.
func (c EngineConfig) Plan() plan.Config {
	return plan.Config(c)
}
