package metrics

// MultiSink fans plan computations out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the computation to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordPlan(ev PlanComputation) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordZoneAllocations forwards per-zone outcomes to capable sinks.
func (m *MultiSink) RecordZoneAllocations(allocs []ZoneAllocation) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ZoneAllocationRecorder); ok {
			if err := rec.RecordZoneAllocations(allocs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordIngest forwards ingestion events to capable sinks.
func (m *MultiSink) RecordIngest(ev ForecastIngest) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(IngestRecorder); ok {
			if err := rec.RecordIngest(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordDegenerate forwards degenerate evaluations to capable sinks.
func (m *MultiSink) RecordDegenerate(ev DegenerateInput) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DegenerateRecorder); ok {
			if err := rec.RecordDegenerate(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
