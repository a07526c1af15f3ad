package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
	"github.com/floodlab/riskdispatch/core/risk"
)

type ZoneDef struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	RiverProximity  float64 `yaml:"river_proximity"`
	ElevationRisk   float64 `yaml:"elevation_risk"`
	PopDensity      float64 `yaml:"pop_density"`
	CritInfraScore  float64 `yaml:"crit_infra_score"`
	HospitalCount   int     `yaml:"hospital_count"`
	IsCriticalInfra bool    `yaml:"is_critical_infra"`
}

func (z ZoneDef) ToModel() model.Zone {
	return model.Zone{
		ID:              z.ID,
		Name:            z.Name,
		RiverProximity:  z.RiverProximity,
		ElevationRisk:   z.ElevationRisk,
		PopDensity:      z.PopDensity,
		CritInfraScore:  z.CritInfraScore,
		HospitalCount:   z.HospitalCount,
		IsCriticalInfra: z.IsCriticalInfra,
	}
}

type ForecastDef struct {
	GlobalPf     float64 `yaml:"global_pf"`
	LeadTimeDays int     `yaml:"lead_time_days"`
}

func (f ForecastDef) ToModel() model.ForecastInput {
	lead := f.LeadTimeDays
	if lead == 0 {
		lead = 1
	}
	return model.ForecastInput{
		GlobalPf:     f.GlobalPf,
		LeadTimeDays: lead,
		ForecastDate: time.Unix(0, 0).UTC(),
	}
}

type RequestDef struct {
	TotalUnits      int    `yaml:"total_units"`
	Mode            string `yaml:"mode"`
	MaxUnitsPerZone int    `yaml:"max_units_per_zone"`
}

func (r RequestDef) ToModel() (allocation.Request, error) {
	mode, err := allocation.ParseMode(r.Mode)
	if err != nil {
		return allocation.Request{}, err
	}
	return allocation.Request{
		TotalUnits:      r.TotalUnits,
		Mode:            mode,
		MaxUnitsPerZone: r.MaxUnitsPerZone,
	}, nil
}

type Expected struct {
	// Allocations maps zone id to its exact expected unit count.
	Allocations map[string]int `yaml:"allocations,omitempty"`
	// Bands maps zone id to its expected band name.
	Bands map[string]string `yaml:"bands,omitempty"`
	// TotalAllocated asserts the summary total when set.
	TotalAllocated *int `yaml:"total_allocated,omitempty"`
}

type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Zones       []ZoneDef   `yaml:"zones"`
	Forecast    ForecastDef `yaml:"forecast"`
	Request     RequestDef  `yaml:"request"`
	// Thresholds overrides the default band cut points when non-empty.
	Thresholds []float64 `yaml:"thresholds,omitempty"`
	Expected   Expected  `yaml:"expected"`
}

// EngineConfig returns the default tuning with the scenario overrides
// applied.
func (sc *Scenario) EngineConfig() (plan.Config, error) {
	cfg := plan.DefaultConfig()
	switch len(sc.Thresholds) {
	case 0:
	case 3:
		cfg.Thresholds = risk.Thresholds{
			Moderate: sc.Thresholds[0],
			High:     sc.Thresholds[1],
			Severe:   sc.Thresholds[2],
		}
	default:
		return plan.Config{}, fmt.Errorf("scenario %s: thresholds needs 3 values, got %d", sc.Name, len(sc.Thresholds))
	}
	return cfg, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
