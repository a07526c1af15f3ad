package scenarios

import (
	"reflect"
	"testing"

	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
)

// RunScenario drives the engine with the scenario inputs and checks the
// expected outcome. Every scenario runs twice: the second plan must be
// identical to the first, so each file doubles as a determinism check.
func RunScenario(t *testing.T, sc *Scenario) {
	cfg, err := sc.EngineConfig()
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	engine, err := plan.NewEngine(cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	zones := make([]model.Zone, len(sc.Zones))
	for i, z := range sc.Zones {
		zones[i] = z.ToModel()
	}
	req, err := sc.Request.ToModel()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	forecast := sc.Forecast.ToModel()

	p, err := engine.ComputePlan(forecast, zones, req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	again, err := engine.ComputePlan(forecast, zones, req)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !reflect.DeepEqual(p, again) {
		t.Errorf("scenario %s is not deterministic", sc.Name)
	}

	checkInvariants(t, sc, req.TotalUnits, req.MaxUnitsPerZone, p)

	byZone := make(map[string]plan.PlanEntry, len(p.Entries))
	for _, e := range p.Entries {
		byZone[e.ZoneID] = e
	}
	for id, want := range sc.Expected.Allocations {
		got, ok := byZone[id]
		if !ok {
			t.Errorf("scenario %s: zone %s missing from plan", sc.Name, id)
			continue
		}
		if got.UnitsAllocated != want {
			t.Errorf("scenario %s: zone %s expected %d units, got %d", sc.Name, id, want, got.UnitsAllocated)
		}
	}
	for id, want := range sc.Expected.Bands {
		got, ok := byZone[id]
		if !ok {
			t.Errorf("scenario %s: zone %s missing from plan", sc.Name, id)
			continue
		}
		if got.Band.String() != want {
			t.Errorf("scenario %s: zone %s expected band %s, got %s", sc.Name, id, want, got.Band)
		}
	}
	if sc.Expected.TotalAllocated != nil && p.Summary.TotalAllocated != *sc.Expected.TotalAllocated {
		t.Errorf("scenario %s: expected %d total units, got %d", sc.Name, *sc.Expected.TotalAllocated, p.Summary.TotalAllocated)
	}
}

// checkInvariants asserts the budget and cap postconditions every policy
// must satisfy, independent of the scenario's explicit expectations.
func checkInvariants(t *testing.T, sc *Scenario, totalUnits, maxPerZone int, p plan.DispatchPlan) {
	sum := 0
	for _, e := range p.Entries {
		sum += e.UnitsAllocated
		if maxPerZone > 0 && e.UnitsAllocated > maxPerZone {
			t.Errorf("scenario %s: zone %s over cap: %d > %d", sc.Name, e.ZoneID, e.UnitsAllocated, maxPerZone)
		}
	}
	if sum != p.Summary.TotalAllocated {
		t.Errorf("scenario %s: summary total %d does not match entries %d", sc.Name, p.Summary.TotalAllocated, sum)
	}
	if sum > totalUnits {
		t.Errorf("scenario %s: allocated %d units over budget %d", sc.Name, sum, totalUnits)
	}
	for i := 1; i < len(p.Entries); i++ {
		if p.Entries[i].Probability > p.Entries[i-1].Probability {
			t.Errorf("scenario %s: entries not in urgency order at %d", sc.Name, i)
		}
	}
}
