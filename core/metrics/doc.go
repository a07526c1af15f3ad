package metrics

// Package metrics defines the sink interfaces for observing plan
// computations. Sinks like PromSink and InfluxSink record evaluations,
// per-zone allocations and forecast ingestion, and can be combined with
// NewMultiSink. Capability interfaces let a sink opt in to event kinds
// beyond the base RecordPlan.
