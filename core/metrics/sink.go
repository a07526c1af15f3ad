package metrics

import "time"

// PlanComputation summarizes one evaluation for observability purposes.
type PlanComputation struct {
	Mode             string
	GlobalPf         float64
	LeadTimeDays     int
	ZoneCount        int
	TotalAllocated   int
	TotalUnallocated int
	ZonesPerBand     map[string]int
	Duration         time.Duration
	Time             time.Time
}

// MetricsSink records plan computations.
type MetricsSink interface {
	RecordPlan(ev PlanComputation) error
}

// ZoneAllocation is one zone's outcome inside a plan.
type ZoneAllocation struct {
	ZoneID      string
	Band        string
	Probability float64
	Units       int
	Critical    bool
	Time        time.Time
}

// ZoneAllocationRecorder is implemented by sinks able to record
// per-zone outcomes.
type ZoneAllocationRecorder interface {
	RecordZoneAllocations(allocs []ZoneAllocation) error
}

// ForecastIngest captures a forecast received from a connector.
type ForecastIngest struct {
	Source   string
	GlobalPf float64
	Time     time.Time
}

// IngestRecorder records forecast ingestion.
type IngestRecorder interface {
	RecordIngest(ev ForecastIngest) error
}

// DegenerateInput marks an evaluation that produced an all-zero plan.
type DegenerateInput struct {
	Reason string
	Time   time.Time
}

// DegenerateRecorder records degenerate evaluations.
type DegenerateRecorder interface {
	RecordDegenerate(ev DegenerateInput) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanComputation) error { return nil }

func (NopSink) RecordZoneAllocations([]ZoneAllocation) error { return nil }
func (NopSink) RecordIngest(ForecastIngest) error            { return nil }
func (NopSink) RecordDegenerate(DegenerateInput) error       { return nil }
