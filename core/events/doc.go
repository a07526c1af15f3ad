// Package events defines the evaluation related events emitted on the event bus.
//
// Available event types:
//   - ForecastEvent: new global forecast accepted for evaluation
//   - PlanEvent: dispatch plan computed and recorded
//   - DegenerateEvent: evaluation that produced an all-zero plan
package events
