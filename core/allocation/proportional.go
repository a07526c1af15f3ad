package allocation

import "github.com/floodlab/riskdispatch/core/model"

// ProportionalAllocator distributes units in direct proportion to each
// zone's probability. Same rounding and capping mechanics as fuzzy mode,
// without the band semantics.
type ProportionalAllocator struct{}

// Allocate implements Allocator.
func (ProportionalAllocator) Allocate(risks []model.ZoneRisk, req Request) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ranked := rankRisks(risks)
	weights := make([]float64, len(ranked))
	for i, r := range ranked {
		weights[i] = r.Probability
	}
	return distributeByWeight(ranked, weights, req), nil
}
