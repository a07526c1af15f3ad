package allocation

import (
	"fmt"

	"github.com/floodlab/riskdispatch/core/model"
)

// DemandTable maps each risk band to the unit count a zone in that band
// requests under crisp allocation.
type DemandTable struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Severe   int `json:"severe"`
}

// DefaultDemand returns the standard per-band demand.
func DefaultDemand() DemandTable {
	return DemandTable{Low: 1, Moderate: 2, High: 3, Severe: 4}
}

// Validate rejects negative demands and demand that shrinks as severity
// grows.
func (d DemandTable) Validate() error {
	if d.Low < 0 {
		return fmt.Errorf("band demand for Low must not be negative: %d", d.Low)
	}
	if d.Moderate < d.Low || d.High < d.Moderate || d.Severe < d.High {
		return fmt.Errorf("band demand must not decrease with severity: low=%d moderate=%d high=%d severe=%d",
			d.Low, d.Moderate, d.High, d.Severe)
	}
	return nil
}

// For returns the demand for a band.
func (d DemandTable) For(b model.RiskBand) int {
	switch b {
	case model.BandSevere:
		return d.Severe
	case model.BandHigh:
		return d.High
	case model.BandModerate:
		return d.Moderate
	default:
		return d.Low
	}
}

// CrispAllocator serves zones fully in urgency order until the budget
// runs out. The zone that would overflow the budget receives only the
// remainder; every zone after it receives nothing.
type CrispAllocator struct {
	Demand DemandTable
}

// Allocate implements Allocator.
func (a CrispAllocator) Allocate(risks []model.ZoneRisk, req Request) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ranked := rankRisks(risks)
	results := zeroResults(ranked)

	remaining := req.TotalUnits
	for i, r := range ranked {
		if remaining == 0 {
			break
		}
		units := a.Demand.For(r.Band)
		if req.MaxUnitsPerZone > 0 && units > req.MaxUnitsPerZone {
			units = req.MaxUnitsPerZone
		}
		if units > remaining {
			units = remaining
		}
		results[i].UnitsAllocated = units
		remaining -= units
	}
	return results, nil
}
