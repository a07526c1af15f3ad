package metrics

import (
	"context"
	"time"

	"github.com/floodlab/riskdispatch/core/events"
	coremetrics "github.com/floodlab/riskdispatch/core/metrics"
	"github.com/floodlab/riskdispatch/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// ingest and degenerate events. Plan-level metrics are recorded by the
// service itself so they are never double counted.
// The collector stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.ForecastEvent:
					if r, ok := sink.(coremetrics.IngestRecorder); ok {
						_ = r.RecordIngest(coremetrics.ForecastIngest{
							Source:   e.Source,
							GlobalPf: e.Forecast.GlobalPf,
							Time:     time.Now(),
						})
					}
				case events.DegenerateEvent:
					if r, ok := sink.(coremetrics.DegenerateRecorder); ok {
						_ = r.RecordDegenerate(coremetrics.DegenerateInput{
							Reason: e.Reason,
							Time:   time.Now(),
						})
					}
				}
			}
		}
	}()
}
