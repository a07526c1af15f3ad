package events

import (
	"time"

	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
)

// ForecastEvent is published when a new global forecast is accepted for
// evaluation.
type ForecastEvent struct {
	Source   string
	Forecast model.ForecastInput
}

// PlanEvent is published after every successful evaluation.
type PlanEvent struct {
	RecordID string
	Plan     plan.DispatchPlan
	Duration time.Duration
}

// DegenerateEvent marks an evaluation that produced an all-zero plan,
// for example a zero budget or a zero forecast over ordinary zones.
type DegenerateEvent struct {
	Reason   string
	Forecast model.ForecastInput
}
