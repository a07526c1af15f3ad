package allocation

import (
	"sort"

	"github.com/floodlab/riskdispatch/core/model"
)

// moreUrgent is the shared ranking key of every policy: probability
// descending, critical infrastructure first, hospital count descending,
// zone id ascending. The last key is unique, so the order is total.
func moreUrgent(a, b model.ZoneRisk) bool {
	if a.Probability != b.Probability {
		return a.Probability > b.Probability
	}
	if a.IsCriticalInfra != b.IsCriticalInfra {
		return a.IsCriticalInfra
	}
	if a.HospitalCount != b.HospitalCount {
		return a.HospitalCount > b.HospitalCount
	}
	return a.ZoneID < b.ZoneID
}

// rankRisks returns a copy of risks sorted most urgent first.
func rankRisks(risks []model.ZoneRisk) []model.ZoneRisk {
	out := make([]model.ZoneRisk, len(risks))
	copy(out, risks)
	sort.Slice(out, func(i, j int) bool { return moreUrgent(out[i], out[j]) })
	return out
}
