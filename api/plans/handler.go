package plans

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
	"github.com/floodlab/riskdispatch/core/plan/logging"
)

// Computer evaluates a forecast against the current zone snapshot.
type Computer interface {
	Compute(f model.ForecastInput, req allocation.Request) (plan.DispatchPlan, error)
}

// computeRequest is the POST /api/plans/compute body.
type computeRequest struct {
	Forecast model.ForecastInput `json:"forecast"`
	Request  struct {
		TotalUnits      int    `json:"total_units"`
		Mode            string `json:"mode"`
		MaxUnitsPerZone int    `json:"max_units_per_zone"`
	} `json:"request"`
}

// NewComputeHandler returns an HTTP handler computing plans on demand via
// POST /api/plans/compute. Requests must include an Authorization header
// with "Bearer <token>" when token is non-empty.
func NewComputeHandler(c Computer, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body computeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
			return
		}
		mode, err := allocation.ParseMode(body.Request.Mode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req := allocation.Request{
			TotalUnits:      body.Request.TotalUnits,
			Mode:            mode,
			MaxUnitsPerZone: body.Request.MaxUnitsPerZone,
		}
		result, err := c.Compute(body.Forecast, req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewQueryHandler returns an HTTP handler exposing stored plan records via
// GET /api/plans. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewQueryHandler(store logging.PlanStore, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := logging.PlanQuery{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.ZoneID = r.URL.Query().Get("zone_id")
		q.Mode = r.URL.Query().Get("mode")
		if b := r.URL.Query().Get("band"); b != "" {
			if band, err := model.BandFromString(b); err == nil {
				q.Band = band.String()
			}
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
