package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/floodlab/riskdispatch/core/metrics"
)

// PromSink records plan computations in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	zonesByBand *prometheus.GaugeVec
	allocated   prometheus.Gauge
	unallocated prometheus.Gauge
	severeRatio prometheus.Gauge
	ingested    *prometheus.CounterVec
	degenerate  *prometheus.CounterVec
}

// NewPromSink registers plan metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plans_computed_total",
		Help: "Total number of dispatch plans computed",
	}, []string{"mode"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plan_compute_seconds",
		Help:    "Time spent computing a dispatch plan",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"}))
	if err != nil {
		return nil, err
	}
	zonesByBand, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plan_zones_per_band",
		Help: "Zone count per risk band in the latest plan",
	}, []string{"band"}))
	if err != nil {
		return nil, err
	}
	allocated, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plan_units_allocated",
		Help: "Units allocated by the latest plan",
	}))
	if err != nil {
		return nil, err
	}
	unallocated, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plan_units_unallocated",
		Help: "Units left unallocated by the latest plan",
	}))
	if err != nil {
		return nil, err
	}
	severeRatio, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plan_severe_zones_served_ratio",
		Help: "Share of Severe zones that received units in the latest plan",
	}))
	if err != nil {
		return nil, err
	}
	ingested, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "forecasts_ingested_total",
		Help: "Total number of forecasts received",
	}, []string{"source"}))
	if err != nil {
		return nil, err
	}
	degenerate, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "degenerate_evaluations_total",
		Help: "Total number of evaluations that produced an all-zero plan",
	}, []string{"reason"}))
	if err != nil {
		return nil, err
	}

	return &PromSink{
		plans:       plans,
		duration:    duration,
		zonesByBand: zonesByBand,
		allocated:   allocated,
		unallocated: unallocated,
		severeRatio: severeRatio,
		ingested:    ingested,
		degenerate:  degenerate,
	}, nil
}

// register adds the collector to the registerer, reusing an existing
// collector when one with the same description is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(C), nil
		}
		return c, err
	}
	return c, nil
}

// RecordPlan updates the plan-level counters and gauges.
func (s *PromSink) RecordPlan(ev coremetrics.PlanComputation) error {
	s.plans.WithLabelValues(ev.Mode).Inc()
	s.duration.WithLabelValues(ev.Mode).Observe(ev.Duration.Seconds())
	for band, count := range ev.ZonesPerBand {
		s.zonesByBand.WithLabelValues(band).Set(float64(count))
	}
	s.allocated.Set(float64(ev.TotalAllocated))
	s.unallocated.Set(float64(ev.TotalUnallocated))
	return nil
}

// RecordZoneAllocations derives the severe service ratio from per-zone
// outcomes.
func (s *PromSink) RecordZoneAllocations(allocs []coremetrics.ZoneAllocation) error {
	severe, served := 0, 0
	for _, a := range allocs {
		if a.Band != "Severe" {
			continue
		}
		severe++
		if a.Units > 0 {
			served++
		}
	}
	if severe > 0 {
		s.severeRatio.Set(float64(served) / float64(severe))
	} else {
		s.severeRatio.Set(1)
	}
	return nil
}

// RecordIngest counts a received forecast.
func (s *PromSink) RecordIngest(ev coremetrics.ForecastIngest) error {
	s.ingested.WithLabelValues(ev.Source).Inc()
	return nil
}

// RecordDegenerate counts an all-zero evaluation.
func (s *PromSink) RecordDegenerate(ev coremetrics.DegenerateInput) error {
	s.degenerate.WithLabelValues(ev.Reason).Inc()
	return nil
}
