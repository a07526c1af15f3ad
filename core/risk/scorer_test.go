package risk

import (
	"math"
	"strings"
	"testing"

	"github.com/floodlab/riskdispatch/core/model"
)

// uniformZone has the same value on every attribute, so with weights
// summing to 1 its vulnerability index equals that value.
func uniformZone(id string, attr float64) model.Zone {
	return model.Zone{
		ID:             id,
		RiverProximity: attr,
		ElevationRisk:  attr,
		PopDensity:     attr,
		CritInfraScore: attr,
	}
}

func TestScore_VulnerabilityOrderingPreserved(t *testing.T) {
	s := NewScorer()
	f := model.ForecastInput{GlobalPf: 0.6, LeadTimeDays: 2}
	zones := []model.Zone{
		uniformZone("exposed", 0.8),
		uniformZone("average", 0.5),
		uniformZone("sheltered", 0.2),
	}

	risks := s.Score(f, zones)
	if len(risks) != 3 {
		t.Fatalf("expected 3 risks, got %d", len(risks))
	}
	if !(risks[0].Probability > risks[1].Probability && risks[1].Probability > risks[2].Probability) {
		t.Errorf("probabilities should follow vulnerability ordering: %v %v %v",
			risks[0].Probability, risks[1].Probability, risks[2].Probability)
	}
	if math.Abs(risks[1].Probability-0.6) > 1e-9 {
		t.Errorf("midpoint vulnerability should leave the global probability unchanged, got %v", risks[1].Probability)
	}
	if math.Abs(risks[0].Probability-0.78) > 1e-9 {
		t.Errorf("expected amplified probability 0.78, got %v", risks[0].Probability)
	}
}

func TestScore_MonotonicInGlobalPf(t *testing.T) {
	s := NewScorer()
	z := []model.Zone{uniformZone("z", 0.7)}
	prev := -1.0
	for pf := 0.0; pf <= 1.0; pf += 0.05 {
		p := s.Score(model.ForecastInput{GlobalPf: pf, LeadTimeDays: 1}, z)[0].Probability
		if p < prev {
			t.Fatalf("probability decreased from %v to %v at global pf %v", prev, p, pf)
		}
		prev = p
	}
}

func TestScore_ClampsToUnitInterval(t *testing.T) {
	s := NewScorer()
	z := []model.Zone{uniformZone("z", 1.0)}
	p := s.Score(model.ForecastInput{GlobalPf: 0.9, LeadTimeDays: 1}, z)[0].Probability
	// 0.9 * 1.5 = 1.35 before clamping.
	if p != 1 {
		t.Errorf("expected clamp to 1, got %v", p)
	}
}

func TestScore_CriticalFloor(t *testing.T) {
	s := NewScorer()
	zones := []model.Zone{
		{ID: "hospital", HospitalCount: 2},
		{ID: "plant", IsCriticalInfra: true},
		{ID: "plain"},
	}
	risks := s.Score(model.ForecastInput{GlobalPf: 0, LeadTimeDays: 1}, zones)
	if risks[0].Probability != DefaultCriticalFloor {
		t.Errorf("hospital zone should be floored at %v, got %v", DefaultCriticalFloor, risks[0].Probability)
	}
	if risks[1].Probability != DefaultCriticalFloor {
		t.Errorf("critical infra zone should be floored at %v, got %v", DefaultCriticalFloor, risks[1].Probability)
	}
	if risks[2].Probability != 0 {
		t.Errorf("ordinary zone should stay at 0 under a zero forecast, got %v", risks[2].Probability)
	}
}

func TestScore_CopiesRankingMetadata(t *testing.T) {
	s := NewScorer()
	zones := []model.Zone{{ID: "z", HospitalCount: 3, IsCriticalInfra: true}}
	r := s.Score(model.ForecastInput{GlobalPf: 0.4, LeadTimeDays: 1}, zones)[0]
	if !r.IsCriticalInfra || r.HospitalCount != 3 {
		t.Errorf("risk should carry the zone flags used for ranking: %+v", r)
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights rejected: %v", err)
	}
	w := Weights{RiverProximity: 0.5, ElevationRisk: 0.5, PopDensity: 0.5, CritInfra: 0.5}
	err := w.Validate()
	if err == nil {
		t.Fatal("expected error for weights not summing to 1")
	}
	if !strings.Contains(err.Error(), "sum to 1") {
		t.Errorf("unexpected message: %v", err)
	}
	w = Weights{RiverProximity: -0.1, ElevationRisk: 0.5, PopDensity: 0.3, CritInfra: 0.3}
	if err := w.Validate(); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestScorerValidate_FloorRange(t *testing.T) {
	s := NewScorer()
	s.CriticalFloor = 1.5
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for floor above 1")
	}
}
