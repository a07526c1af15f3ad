package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/floodlab/riskdispatch/core/plan"
)

// WriteJSON writes the dispatch plan to w in JSON format.
func WriteJSON(w io.Writer, p plan.DispatchPlan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// WriteCSV writes the plan entries to w in CSV format, most urgent zone
// first. The summary is not exported; CSV consumers recompute totals.
func WriteCSV(w io.Writer, p plan.DispatchPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"zone_id", "zone_name", "probability", "impact_level", "units_allocated", "critical_infra"}); err != nil {
		return err
	}
	for _, e := range p.Entries {
		rec := []string{
			e.ZoneID,
			e.ZoneName,
			strconv.FormatFloat(e.Probability, 'f', -1, 64),
			e.ImpactLevel,
			strconv.Itoa(e.UnitsAllocated),
			strconv.FormatBool(e.IsCriticalInfra),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
