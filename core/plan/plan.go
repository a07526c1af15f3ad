package plan

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/floodlab/riskdispatch/core/model"
)

// PlanEntry is one zone's line in a dispatch plan, most urgent first.
type PlanEntry struct {
	ZoneID          string         `json:"zone_id"`
	ZoneName        string         `json:"zone_name"`
	Probability     float64        `json:"probability"`
	Band            model.RiskBand `json:"band"`
	ImpactLevel     string         `json:"impact_level"`
	UnitsAllocated  int            `json:"units_allocated"`
	IsCriticalInfra bool           `json:"is_critical_infra"`
}

// Summary aggregates a plan for operators and dashboards.
type Summary struct {
	ZonesPerBand     map[string]int `json:"zones_per_band"`
	TotalAllocated   int            `json:"total_allocated"`
	TotalUnallocated int            `json:"total_unallocated"`
	MeanProbability  float64        `json:"mean_probability"`
	PeakProbability  float64        `json:"peak_probability"`
}

// DispatchPlan is the ordered outcome of one evaluation. It is fully
// determined by its inputs and carries nothing clock or identity
// derived, so recomputing with the same arguments reproduces it byte
// for byte.
type DispatchPlan struct {
	Forecast model.ForecastInput `json:"forecast"`
	Mode     string              `json:"mode"`
	Entries  []PlanEntry         `json:"entries"`
	Summary  Summary             `json:"summary"`
}

func summarize(entries []PlanEntry, totalUnits int) Summary {
	s := Summary{ZonesPerBand: map[string]int{
		model.BandLow.String():      0,
		model.BandModerate.String(): 0,
		model.BandHigh.String():     0,
		model.BandSevere.String():   0,
	}}
	probs := make([]float64, 0, len(entries))
	for _, e := range entries {
		s.ZonesPerBand[e.Band.String()]++
		s.TotalAllocated += e.UnitsAllocated
		probs = append(probs, e.Probability)
	}
	s.TotalUnallocated = totalUnits - s.TotalAllocated
	if len(probs) > 0 {
		s.MeanProbability = stat.Mean(probs, nil)
		s.PeakProbability = floats.Max(probs)
	}
	return s
}
