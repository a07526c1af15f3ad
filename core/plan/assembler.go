package plan

import (
	"fmt"

	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/model"
)

// Assembler joins allocation results with zone identity into the final
// plan. It is a pure join: a result naming a zone absent from the
// snapshot is a caller bug and is surfaced, not swallowed.
type Assembler struct{}

// Assemble builds the plan in the order the results arrive, which the
// allocators guarantee to be urgency order.
func (Assembler) Assemble(results []allocation.Result, zones []model.Zone, f model.ForecastInput, req allocation.Request) (DispatchPlan, error) {
	byID := make(map[string]model.Zone, len(zones))
	for _, z := range zones {
		byID[z.ID] = z
	}

	entries := make([]PlanEntry, 0, len(results))
	for _, r := range results {
		z, ok := byID[r.ZoneID]
		if !ok {
			return DispatchPlan{}, fmt.Errorf("allocation result references unknown zone %q", r.ZoneID)
		}
		entries = append(entries, PlanEntry{
			ZoneID:          z.ID,
			ZoneName:        z.Name,
			Probability:     r.Probability,
			Band:            r.Band,
			ImpactLevel:     r.Band.String(),
			UnitsAllocated:  r.UnitsAllocated,
			IsCriticalInfra: z.IsCriticalInfra,
		})
	}

	return DispatchPlan{
		Forecast: f,
		Mode:     req.Mode.String(),
		Entries:  entries,
		Summary:  summarize(entries, req.TotalUnits),
	}, nil
}
