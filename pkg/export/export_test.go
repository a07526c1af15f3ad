package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
)

func samplePlan() plan.DispatchPlan {
	return plan.DispatchPlan{
		Mode: "crisp",
		Entries: []plan.PlanEntry{
			{ZoneID: "z1", ZoneName: "Riverside", Probability: 0.8, Band: model.BandSevere, ImpactLevel: "Severe", UnitsAllocated: 4, IsCriticalInfra: true},
			{ZoneID: "z2", ZoneName: "Uptown", Probability: 0.3, Band: model.BandModerate, ImpactLevel: "Moderate", UnitsAllocated: 2},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, samplePlan()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if !strings.Contains(buf.String(), `"zone_id": "z1"`) {
		t.Errorf("missing zone entry in %s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samplePlan()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[1] != "z1,Riverside,0.8,Severe,4,true" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}
