package allocation

import (
	"math"
	"sort"

	"github.com/floodlab/riskdispatch/core/model"
)

// distributeByWeight spreads req.TotalUnits across the ranked zones in
// proportion to their weights, rounding with the largest-remainder
// method. Zones pushed over the per-zone cap are clamped and their
// surplus is re-spread over the remaining uncapped zones by the same
// procedure. Each pass caps at least one new zone, so the loop is
// bounded by the zone count. ranked and weights are parallel slices in
// urgency order.
func distributeByWeight(ranked []model.ZoneRisk, weights []float64, req Request) []Result {
	results := zeroResults(ranked)
	n := len(ranked)
	if req.TotalUnits == 0 || n == 0 {
		return results
	}

	units := make([]int, n)
	capped := make([]bool, n)
	limit := req.MaxUnitsPerZone
	pool := req.TotalUnits

	for iter := 0; iter <= n && pool > 0; iter++ {
		open := make([]int, 0, n)
		var wsum float64
		for i := 0; i < n; i++ {
			if !capped[i] && weights[i] > 0 {
				open = append(open, i)
				wsum += weights[i]
			}
		}
		if len(open) == 0 || wsum == 0 {
			// Nothing left to attract units; the pool stays unallocated.
			break
		}

		apportion(pool, open, weights, wsum, units)
		pool = 0

		if limit > 0 {
			for _, i := range open {
				if units[i] > limit {
					pool += units[i] - limit
					units[i] = limit
					capped[i] = true
				}
			}
		}
	}

	for i := range results {
		results[i].UnitsAllocated = units[i]
	}
	return results
}

// apportion adds amount units onto units[i] for each i in open,
// proportional to weights. Fractional shares are floored and the
// leftover handed out one unit at a time to the largest remainders;
// equal remainders fall back to urgency order, which open preserves.
func apportion(amount int, open []int, weights []float64, wsum float64, units []int) {
	type share struct {
		idx int
		rem float64
	}
	shares := make([]share, 0, len(open))
	assigned := 0
	for _, i := range open {
		exact := float64(amount) * weights[i] / wsum
		base := int(math.Floor(exact))
		units[i] += base
		assigned += base
		shares = append(shares, share{idx: i, rem: exact - float64(base)})
	}
	sort.SliceStable(shares, func(a, b int) bool { return shares[a].rem > shares[b].rem })
	for k := 0; k < amount-assigned; k++ {
		units[shares[k%len(shares)].idx]++
	}
}
