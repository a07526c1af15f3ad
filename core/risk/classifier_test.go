package risk

import (
	"testing"

	"github.com/floodlab/riskdispatch/core/model"
)

func TestClassifier_BandBoundaries(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		p    float64
		want model.RiskBand
	}{
		{0, model.BandLow},
		{0.2499, model.BandLow},
		{0.25, model.BandModerate},
		{0.4999, model.BandModerate},
		{0.5, model.BandHigh},
		{0.7499, model.BandHigh},
		{0.75, model.BandSevere},
		{1.0, model.BandSevere},
	}
	for _, tc := range cases {
		if got := c.Band(tc.p); got != tc.want {
			t.Errorf("probability %v: got %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestClassifier_EveryProbabilityHasOneBand(t *testing.T) {
	c := NewClassifier()
	for p := 0.0; p <= 1.0; p += 0.001 {
		b := c.Band(p)
		if b < model.BandLow || b > model.BandSevere {
			t.Fatalf("probability %v mapped outside the band lattice: %v", p, b)
		}
	}
}

func TestClassify_PopulatesBandsWithoutMutatingInput(t *testing.T) {
	c := NewClassifier()
	in := []model.ZoneRisk{{ZoneID: "a", Probability: 0.8}, {ZoneID: "b", Probability: 0.1}}
	out := c.Classify(in)
	if out[0].Band != model.BandSevere || out[1].Band != model.BandLow {
		t.Errorf("unexpected bands: %v %v", out[0].Band, out[1].Band)
	}
	if in[0].Band != model.BandLow {
		t.Error("input slice must not be mutated")
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("default thresholds rejected: %v", err)
	}
	bad := []Thresholds{
		{Moderate: 0.5, High: 0.5, Severe: 0.75},
		{Moderate: 0.6, High: 0.5, Severe: 0.75},
		{Moderate: 0, High: 0.5, Severe: 0.75},
		{Moderate: 0.25, High: 0.5, Severe: 1},
	}
	for _, th := range bad {
		if err := th.Validate(); err == nil {
			t.Errorf("expected rejection of %+v", th)
		}
	}
}
