package plans

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
	"github.com/floodlab/riskdispatch/core/plan/logging"
)

type memStore struct{ recs []logging.PlanRecord }

func (m *memStore) Append(ctx context.Context, r logging.PlanRecord) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memStore) Query(ctx context.Context, q logging.PlanQuery) ([]logging.PlanRecord, error) {
	var res []logging.PlanRecord
	for _, r := range m.recs {
		if q.Mode != "" && r.Request.Mode != q.Mode {
			continue
		}
		if q.Band != "" && r.PeakBand != q.Band {
			continue
		}
		if q.ZoneID != "" {
			found := false
			for _, e := range r.Plan.Entries {
				if e.ZoneID == q.ZoneID && e.UnitsAllocated > 0 {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		res = append(res, r)
	}
	return res, nil
}

func (m *memStore) Close() error { return nil }

type stubComputer struct {
	got plan.DispatchPlan
	err error
}

func (s stubComputer) Compute(f model.ForecastInput, req allocation.Request) (plan.DispatchPlan, error) {
	if s.err != nil {
		return plan.DispatchPlan{}, s.err
	}
	return s.got, nil
}

func TestQueryHandler_AuthAndFilters(t *testing.T) {
	store := &memStore{}
	rec := logging.PlanRecord{
		ID:        "rec-1",
		Timestamp: time.Now(),
		Request:   logging.RequestRecord{Mode: "crisp", TotalUnits: 5},
		PeakBand:  "Severe",
		Plan: plan.DispatchPlan{
			Entries: []plan.PlanEntry{{ZoneID: "riverside", UnitsAllocated: 4}},
		},
	}
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	h := NewQueryHandler(store, "tok")

	req := httptest.NewRequest("GET", "/api/plans?zone_id=riverside&mode=crisp", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []logging.PlanRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].ID != "rec-1" {
		t.Fatalf("expected 1 record, got %+v", out)
	}

	// zone without units stays out
	req = httptest.NewRequest("GET", "/api/plans?zone_id=uplands", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no records, got %d", len(out))
	}

	// band filter normalizes case
	req = httptest.NewRequest("GET", "/api/plans?band=severe", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("band filter lost the record")
	}

	// unauthorized
	req = httptest.NewRequest("GET", "/api/plans", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestComputeHandler(t *testing.T) {
	want := plan.DispatchPlan{Mode: "crisp", Entries: []plan.PlanEntry{{ZoneID: "a", UnitsAllocated: 2}}}
	h := NewComputeHandler(stubComputer{got: want}, "")

	body := `{"forecast":{"global_pf":0.4,"lead_time_days":2},"request":{"total_units":5,"mode":"crisp"}}`
	req := httptest.NewRequest("POST", "/api/plans/compute", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out plan.DispatchPlan
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Mode != "crisp" || len(out.Entries) != 1 {
		t.Fatalf("plan mismatch: %+v", out)
	}
}

func TestComputeHandler_Rejections(t *testing.T) {
	h := NewComputeHandler(stubComputer{err: fmt.Errorf("globalPf out of range [0,1]: 1.4")}, "tok")

	// wrong token
	req := httptest.NewRequest("POST", "/api/plans/compute", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer wrong")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	// wrong method
	req = httptest.NewRequest("GET", "/api/plans/compute", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}

	// malformed body
	req = httptest.NewRequest("POST", "/api/plans/compute", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	// unknown mode
	req = httptest.NewRequest("POST", "/api/plans/compute",
		strings.NewReader(`{"forecast":{"global_pf":0.4,"lead_time_days":1},"request":{"total_units":5,"mode":"psychic"}}`))
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	// computer validation error surfaces as 400
	req = httptest.NewRequest("POST", "/api/plans/compute",
		strings.NewReader(`{"forecast":{"global_pf":1.4,"lead_time_days":1},"request":{"total_units":5,"mode":"crisp"}}`))
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}
