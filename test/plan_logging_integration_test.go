package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/floodlab/riskdispatch/api/plans"
	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
	"github.com/floodlab/riskdispatch/core/plan/logging"
)

func testZones() []model.Zone {
	return []model.Zone{
		{ID: "floodplain", Name: "Floodplain", RiverProximity: 0.9, ElevationRisk: 0.9, PopDensity: 0.8, CritInfraScore: 0.7, HospitalCount: 1},
		{ID: "uplands", Name: "Uplands", RiverProximity: 0.2, ElevationRisk: 0.1, PopDensity: 0.3, CritInfraScore: 0.1},
	}
}

func TestPlanLoggingIntegration(t *testing.T) {
	store, err := logging.NewSQLiteStore("file:planlog.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer func() { _ = store.Close() }()

	engine, err := plan.NewEngine(plan.DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	forecast := model.ForecastInput{GlobalPf: 0.6, LeadTimeDays: 2, ForecastDate: time.Unix(0, 0).UTC()}
	req := allocation.Request{TotalUnits: 6, Mode: allocation.ModeProportional}
	p, err := engine.ComputePlan(forecast, testZones(), req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	rec := logging.NewPlanRecord("rec-1", time.Unix(100, 0).UTC(), req, p)
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	h := plans.NewQueryHandler(store, "token")
	srv := httptest.NewServer(h)
	defer srv.Close()

	httpReq, _ := http.NewRequest(http.MethodGet, srv.URL+"?zone_id=floodplain&mode=proportional", nil)
	httpReq.Header.Set("Authorization", "Bearer token")
	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out []logging.PlanRecord
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record got %d", len(out))
	}
	if out[0].ID != "rec-1" || out[0].Plan.Summary.TotalAllocated != 6 {
		t.Errorf("unexpected record: %+v", out[0])
	}

	unauth, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp2, err := http.DefaultClient.Do(unauth)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp2.StatusCode)
	}
}
