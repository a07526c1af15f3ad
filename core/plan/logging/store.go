package logging

import (
	"context"
	"time"

	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
)

// PlanRecord captures one computed dispatch plan with its inputs.
type PlanRecord struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Forecast  model.ForecastInput `json:"forecast"`
	Request   RequestRecord       `json:"request"`
	PeakBand  string              `json:"peak_band"`
	Plan      plan.DispatchPlan   `json:"plan"`
}

// RequestRecord mirrors allocation.Request for storage purposes.
type RequestRecord struct {
	TotalUnits      int    `json:"total_units"`
	Mode            string `json:"mode"`
	MaxUnitsPerZone int    `json:"max_units_per_zone"`
}

// NewPlanRecord wraps a computed plan for persistence. The peak band is
// the most severe band any zone reached, kept denormalized so stores
// can filter on it cheaply.
func NewPlanRecord(id string, ts time.Time, req allocation.Request, p plan.DispatchPlan) PlanRecord {
	peak := model.BandLow
	for _, e := range p.Entries {
		if e.Band > peak {
			peak = e.Band
		}
	}
	return PlanRecord{
		ID:        id,
		Timestamp: ts,
		Forecast:  p.Forecast,
		Request: RequestRecord{
			TotalUnits:      req.TotalUnits,
			Mode:            req.Mode.String(),
			MaxUnitsPerZone: req.MaxUnitsPerZone,
		},
		PeakBand: peak.String(),
		Plan:     p,
	}
}

// PlanQuery defines filters for retrieving records. Zero values match
// everything. ZoneID selects plans that assigned units to the zone;
// Band matches the record's peak band.
type PlanQuery struct {
	Start  time.Time
	End    time.Time
	ZoneID string
	Band   string
	Mode   string
}

// PlanStore persists PlanRecords and supports querying.
type PlanStore interface {
	Append(ctx context.Context, rec PlanRecord) error
	Query(ctx context.Context, q PlanQuery) ([]PlanRecord, error)
	Close() error
}

// matches applies the non-indexed filters to a decoded record.
func (q PlanQuery) matches(r PlanRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Mode != "" && r.Request.Mode != q.Mode {
		return false
	}
	if q.Band != "" && r.PeakBand != q.Band {
		return false
	}
	if q.ZoneID != "" {
		served := false
		for _, e := range r.Plan.Entries {
			if e.ZoneID == q.ZoneID && e.UnitsAllocated > 0 {
				served = true
				break
			}
		}
		if !served {
			return false
		}
	}
	return true
}
