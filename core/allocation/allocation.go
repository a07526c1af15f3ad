package allocation

import (
	"fmt"

	"github.com/floodlab/riskdispatch/core/model"
)

// Mode selects the allocation policy. The set is closed; parse incoming
// strings once at the boundary instead of re-dispatching per zone.
type Mode int

const (
	ModeCrisp Mode = iota
	ModeFuzzy
	ModeProportional
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCrisp:
		return "crisp"
	case ModeFuzzy:
		return "fuzzy"
	case ModeProportional:
		return "proportional"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name onto its enum value.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "crisp":
		return ModeCrisp, nil
	case "fuzzy":
		return ModeFuzzy, nil
	case "proportional":
		return ModeProportional, nil
	default:
		return ModeCrisp, fmt.Errorf("unknown allocation mode %q", s)
	}
}

// Request describes one allocation call. MaxUnitsPerZone of 0 disables
// the per-zone cap.
type Request struct {
	TotalUnits      int
	Mode            Mode
	MaxUnitsPerZone int
}

// Validate rejects negative budgets and caps and unrecognized modes.
func (r Request) Validate() error {
	if r.TotalUnits < 0 {
		return fmt.Errorf("total units must not be negative: %d", r.TotalUnits)
	}
	if r.MaxUnitsPerZone < 0 {
		return fmt.Errorf("max units per zone must not be negative: %d", r.MaxUnitsPerZone)
	}
	switch r.Mode {
	case ModeCrisp, ModeFuzzy, ModeProportional:
		return nil
	default:
		return fmt.Errorf("unknown allocation mode %d", r.Mode)
	}
}

// Result is the outcome for one zone. Allocators return results in
// urgency order, most urgent first.
type Result struct {
	ZoneID         string
	Probability    float64
	Band           model.RiskBand
	UnitsAllocated int
}

// Allocator distributes a bounded unit budget across scored zones.
// Implementations are stateless and safe for concurrent use.
type Allocator interface {
	Allocate(risks []model.ZoneRisk, req Request) ([]Result, error)
}

// New resolves the allocator for a mode. The demand table only drives
// crisp mode; the weighted modes ignore it.
func New(mode Mode, demand DemandTable) (Allocator, error) {
	switch mode {
	case ModeCrisp:
		return CrispAllocator{Demand: demand}, nil
	case ModeFuzzy:
		return FuzzyAllocator{}, nil
	case ModeProportional:
		return ProportionalAllocator{}, nil
	default:
		return nil, fmt.Errorf("unknown allocation mode %d", mode)
	}
}

// zeroResults seeds a result row per ranked zone with no units assigned.
func zeroResults(ranked []model.ZoneRisk) []Result {
	out := make([]Result, len(ranked))
	for i, r := range ranked {
		out[i] = Result{ZoneID: r.ZoneID, Probability: r.Probability, Band: r.Band}
	}
	return out
}
