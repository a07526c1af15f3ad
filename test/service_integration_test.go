package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/floodlab/riskdispatch/app"
	"github.com/floodlab/riskdispatch/config"
	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/events"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan/logging"
)

func writeZoneFile(t *testing.T) string {
	t.Helper()
	zones := `{"zones": [
  {"id": "floodplain", "name": "Floodplain", "river_proximity": 0.9, "elevation_risk": 0.9, "pop_density": 0.8, "crit_infra_score": 0.7, "hospital_count": 1},
  {"id": "uplands", "name": "Uplands", "river_proximity": 0.2, "elevation_risk": 0.1, "pop_density": 0.3, "crit_infra_score": 0.1}
]}`
	path := filepath.Join(t.TempDir(), "zones.json")
	if err := os.WriteFile(path, []byte(zones), 0644); err != nil {
		t.Fatalf("write zones: %v", err)
	}
	return path
}

// The service composes engine, registry and plan store without any
// broker: computing a plan must append a queryable record and emit a
// PlanEvent on the bus.
func TestServiceComputeAppendsRecord(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Registry.Path = writeZoneFile(t)
	cfg.Logging.Path = filepath.Join(t.TempDir(), "plans.log")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	sub := svc.Bus().Subscribe()

	forecast := model.ForecastInput{GlobalPf: 0.6, LeadTimeDays: 2, ForecastDate: time.Unix(0, 0).UTC()}
	req := allocation.Request{TotalUnits: 6, Mode: allocation.ModeProportional}
	p, err := svc.Compute(forecast, req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if p.Summary.TotalAllocated != 6 {
		t.Errorf("expected 6 units allocated, got %d", p.Summary.TotalAllocated)
	}

	select {
	case ev := <-sub:
		pe, ok := ev.(events.PlanEvent)
		if !ok {
			t.Fatalf("expected PlanEvent, got %T", ev)
		}
		if pe.RecordID == "" {
			t.Error("plan event without record id")
		}
	case <-time.After(time.Second):
		t.Fatal("no plan event published")
	}

	records, err := svc.Store().Query(context.Background(), logging.PlanQuery{Mode: "proportional"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(records))
	}
	if records[0].Plan.Summary.TotalAllocated != 6 {
		t.Errorf("stored record total %d", records[0].Plan.Summary.TotalAllocated)
	}

	if got := len(svc.Zones()); got != 2 {
		t.Errorf("expected 2 zones in snapshot, got %d", got)
	}
}
