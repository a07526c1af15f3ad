package plan

import (
	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/risk"
)

// Config carries every engine tunable. Defaults live in DefaultConfig;
// the structure is never mutated after construction.
type Config struct {
	Weights       risk.Weights           `json:"weights"`
	CriticalFloor float64                `json:"critical_floor"`
	Thresholds    risk.Thresholds        `json:"thresholds"`
	Demand        allocation.DemandTable `json:"demand"`
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		Weights:       risk.DefaultWeights(),
		CriticalFloor: risk.DefaultCriticalFloor,
		Thresholds:    risk.DefaultThresholds(),
		Demand:        allocation.DefaultDemand(),
	}
}

// Engine composes scoring, classification, allocation and assembly into
// one evaluation entry point. Configuration is validated once here; an
// engine never exists in a half-configured state. The engine performs no
// I/O and is safe for concurrent use against shared zone snapshots.
type Engine struct {
	scorer     risk.Scorer
	classifier risk.Classifier
	demand     allocation.DemandTable
}

// NewEngine validates cfg and builds the engine.
func NewEngine(cfg Config) (*Engine, error) {
	scorer := risk.Scorer{Weights: cfg.Weights, CriticalFloor: cfg.CriticalFloor}
	if err := scorer.Validate(); err != nil {
		return nil, err
	}
	classifier := risk.Classifier{Thresholds: cfg.Thresholds}
	if err := classifier.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Demand.Validate(); err != nil {
		return nil, err
	}
	return &Engine{scorer: scorer, classifier: classifier, demand: cfg.Demand}, nil
}

// ComputePlan evaluates one forecast against a zone snapshot. The
// snapshot is read, never written; concurrent calls may share it.
func (e *Engine) ComputePlan(f model.ForecastInput, zones []model.Zone, req allocation.Request) (DispatchPlan, error) {
	if err := f.Validate(); err != nil {
		return DispatchPlan{}, err
	}
	if err := req.Validate(); err != nil {
		return DispatchPlan{}, err
	}

	risks := e.scorer.Score(f, zones)
	risks = e.classifier.Classify(risks)

	alloc, err := allocation.New(req.Mode, e.demand)
	if err != nil {
		return DispatchPlan{}, err
	}
	results, err := alloc.Allocate(risks, req)
	if err != nil {
		return DispatchPlan{}, err
	}
	return Assembler{}.Assemble(results, zones, f, req)
}
