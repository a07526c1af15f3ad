package zones

import (
	"encoding/json"
	"net/http"

	"github.com/floodlab/riskdispatch/core/model"
)

// SnapshotProvider exposes the current zone registry snapshot.
type SnapshotProvider interface {
	Zones() []model.Zone
}

// NewHandler returns an HTTP handler exposing the zone registry via
// GET /api/zones.
func NewHandler(reg SnapshotProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reg.Zones()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
