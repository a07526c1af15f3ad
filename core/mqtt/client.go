package mqtt

import (
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
)

// Publisher represents an MQTT client capable of pushing computed dispatch
// plans to downstream consumers.
type Publisher interface {
	// PublishPlan publishes the plan and returns the message identifier
	// attached to the payload.
	PublishPlan(p plan.DispatchPlan) (messageID string, err error)
}

// ForecastHandler consumes forecasts decoded from the forecast topic.
type ForecastHandler func(f model.ForecastInput)
