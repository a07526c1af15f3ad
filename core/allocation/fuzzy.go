package allocation

import "github.com/floodlab/riskdispatch/core/model"

// Triangular membership centres for the four bands. Each triangle peaks
// at its centre and reaches zero at the neighbouring centres; the outer
// bands are half-triangles.
var fuzzyCentres = [4]float64{0, 0.33, 0.66, 1}

// severityScores weight each band's pull on the defuzzified urgency.
var severityScores = [4]float64{1, 2, 3, 4}

// memberships evaluates the four band memberships at probability p.
// Degrees lie in [0,1] and need not sum to 1.
func memberships(p float64) [4]float64 {
	var mu [4]float64
	for b := range fuzzyCentres {
		c := fuzzyCentres[b]
		switch {
		case p == c:
			mu[b] = 1
		case p < c && b > 0:
			left := fuzzyCentres[b-1]
			if p > left {
				mu[b] = (p - left) / (c - left)
			}
		case p > c && b < len(fuzzyCentres)-1:
			right := fuzzyCentres[b+1]
			if p < right {
				mu[b] = (right - p) / (right - c)
			}
		}
	}
	return mu
}

// defuzzify collapses the membership vector into a single urgency
// weight, the membership-weighted mean of the band severity scores.
func defuzzify(p float64) float64 {
	mu := memberships(p)
	var num, den float64
	for b := range mu {
		num += mu[b] * severityScores[b]
		den += mu[b]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// FuzzyAllocator grades each zone against the overlapping band
// memberships and distributes units proportionally to the defuzzified
// urgency, smoothing the hard band steps of crisp mode.
type FuzzyAllocator struct{}

// Allocate implements Allocator.
func (FuzzyAllocator) Allocate(risks []model.ZoneRisk, req Request) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ranked := rankRisks(risks)
	weights := make([]float64, len(ranked))
	for i, r := range ranked {
		weights[i] = defuzzify(r.Probability)
	}
	return distributeByWeight(ranked, weights, req), nil
}
