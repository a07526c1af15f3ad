package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/floodlab/riskdispatch/core/metrics"
	"github.com/floodlab/riskdispatch/infra/logger"
)

// InfluxSink writes plan events to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlan writes the computation summary as a plan_event point.
func (s *InfluxSink) RecordPlan(ev coremetrics.PlanComputation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_event").
		AddTag("mode", ev.Mode).
		AddTag("component", "plan_engine").
		AddField("global_pf", round3(ev.GlobalPf)).
		AddField("lead_time_days", ev.LeadTimeDays).
		AddField("zone_count", ev.ZoneCount).
		AddField("units_allocated", ev.TotalAllocated).
		AddField("units_unallocated", ev.TotalUnallocated).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordZoneAllocations writes one zone_allocation point per zone.
func (s *InfluxSink) RecordZoneAllocations(allocs []coremetrics.ZoneAllocation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, a := range allocs {
		p := write.NewPointWithMeasurement("zone_allocation").
			AddTag("zone_id", a.ZoneID).
			AddTag("band", a.Band).
			AddTag("critical", strconv.FormatBool(a.Critical)).
			AddTag("component", "plan_engine").
			AddField("probability", round3(a.Probability)).
			AddField("units", a.Units).
			SetTime(a.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordIngest writes a received forecast point.
func (s *InfluxSink) RecordIngest(ev coremetrics.ForecastIngest) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("forecast_received").
		AddTag("source", ev.Source).
		AddTag("component", "ingest").
		AddField("global_pf", round3(ev.GlobalPf)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDegenerate writes an all-zero evaluation point.
func (s *InfluxSink) RecordDegenerate(ev coremetrics.DegenerateInput) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("degenerate_evaluation").
		AddTag("reason", ev.Reason).
		AddTag("component", "plan_engine").
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
