package model

import "fmt"

// attrTolerance is the drift allowed outside [0,1] before a zone
// attribute is rejected instead of clamped.
const attrTolerance = 1e-9

// Zone represents a static response area with its flood vulnerability
// attributes. All numeric attributes are normalized to [0,1] when the
// registry is loaded and never change during an evaluation.
type Zone struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	RiverProximity float64 `json:"river_proximity"` // 1 = directly adjacent to a watercourse
	ElevationRisk  float64 `json:"elevation_risk"`  // 1 = lowest-lying terrain
	PopDensity     float64 `json:"pop_density"`
	CritInfraScore float64 `json:"crit_infra_score"`
	HospitalCount  int     `json:"hospital_count"`
	IsCriticalInfra bool   `json:"is_critical_infra"`
}

// Validate checks that the zone record is sound. Numeric attributes must
// already be inside [0,1]; use ClampAttributes first when loading raw data.
func (z Zone) Validate() error {
	if z.ID == "" {
		return fmt.Errorf("zone id must not be empty")
	}
	for _, a := range []struct {
		name  string
		value float64
	}{
		{"river_proximity", z.RiverProximity},
		{"elevation_risk", z.ElevationRisk},
		{"pop_density", z.PopDensity},
		{"crit_infra_score", z.CritInfraScore},
	} {
		if a.value < 0 || a.value > 1 {
			return fmt.Errorf("zone %s: attribute %s out of range [0,1]: %v", z.ID, a.name, a.value)
		}
	}
	if z.HospitalCount < 0 {
		return fmt.Errorf("zone %s: hospital_count must not be negative: %d", z.ID, z.HospitalCount)
	}
	return nil
}

// ClampAttributes snaps attribute values within attrTolerance of the [0,1]
// bounds back onto them. Values further out are left untouched so that
// Validate reports them.
func (z Zone) ClampAttributes() Zone {
	z.RiverProximity = clampNear01(z.RiverProximity)
	z.ElevationRisk = clampNear01(z.ElevationRisk)
	z.PopDensity = clampNear01(z.PopDensity)
	z.CritInfraScore = clampNear01(z.CritInfraScore)
	return z
}

func clampNear01(v float64) float64 {
	if v < 0 && v >= -attrTolerance {
		return 0
	}
	if v > 1 && v <= 1+attrTolerance {
		return 1
	}
	return v
}

// Registry is a read-only snapshot of the zone inventory. A snapshot is
// built once per load and shared by any number of concurrent evaluations;
// refreshing the registry produces a new snapshot and leaves in-flight
// callers on the one they started with.
type Registry struct {
	zones []Zone
	byID  map[string]int
}

// NewRegistry validates the zones, rejects duplicate IDs and returns an
// immutable snapshot preserving the given order.
func NewRegistry(zones []Zone) (*Registry, error) {
	r := &Registry{
		zones: make([]Zone, 0, len(zones)),
		byID:  make(map[string]int, len(zones)),
	}
	for _, z := range zones {
		z = z.ClampAttributes()
		if err := z.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[z.ID]; dup {
			return nil, fmt.Errorf("duplicate zone id %q in registry", z.ID)
		}
		r.byID[z.ID] = len(r.zones)
		r.zones = append(r.zones, z)
	}
	return r, nil
}

// Zones returns a copy of the snapshot in registry order.
func (r *Registry) Zones() []Zone {
	out := make([]Zone, len(r.zones))
	copy(out, r.zones)
	return out
}

// Get returns the zone with the given id.
func (r *Registry) Get(id string) (Zone, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Zone{}, false
	}
	return r.zones[i], true
}

// Len returns the number of zones in the snapshot.
func (r *Registry) Len() int { return len(r.zones) }
