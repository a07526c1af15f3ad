package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/floodlab/riskdispatch/api/plans"
	"github.com/floodlab/riskdispatch/api/zones"
	"github.com/floodlab/riskdispatch/config"
	"github.com/floodlab/riskdispatch/core/allocation"
	"github.com/floodlab/riskdispatch/core/events"
	coremetrics "github.com/floodlab/riskdispatch/core/metrics"
	"github.com/floodlab/riskdispatch/core/model"
	"github.com/floodlab/riskdispatch/core/plan"
	"github.com/floodlab/riskdispatch/core/plan/logging"
	"github.com/floodlab/riskdispatch/infra/kafka"
	"github.com/floodlab/riskdispatch/infra/logger"
	"github.com/floodlab/riskdispatch/infra/metrics"
	"github.com/floodlab/riskdispatch/infra/mqtt"
	"github.com/floodlab/riskdispatch/infra/registry"
	"github.com/floodlab/riskdispatch/internal/eventbus"
)

// Service wires the pure plan engine to its collaborators: the zone
// registry snapshot, the plan record store, metrics sinks, the MQTT
// forecast feed and the HTTP API. The engine itself stays free of I/O;
// everything side-effectful happens here.
type Service struct {
	engine     *plan.Engine
	registry   *model.Registry
	defaultReq allocation.Request
	store      logging.PlanStore
	sink       coremetrics.MetricsSink
	bus        eventbus.EventBus
	client     *mqtt.PahoClient
	producer   *kafka.Writer
	clock      clockwork.Clock
	log        logger.Logger
	cfg        *config.Config
	forecasts  chan model.ForecastInput
}

// New creates a Service from the configuration. Every collaborator is
// validated here; a service never starts half wired.
func New(cfg *config.Config) (*Service, error) {
	return newService(cfg, clockwork.NewRealClock())
}

func newService(cfg *config.Config, clock clockwork.Clock) (*Service, error) {
	logg := logger.New("service")

	engine, err := plan.NewEngine(cfg.Engine.Plan())
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	req, err := cfg.Dispatch.Request()
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	reg, err := registry.Load(cfg.Registry.Path, cfg.Registry.Format)
	if err != nil {
		return nil, fmt.Errorf("zone registry: %w", err)
	}
	store, err := newPlanStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("plan store: %w", err)
	}
	sink, err := metrics.FromConfig(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	svc := &Service{
		engine:     engine,
		registry:   reg,
		defaultReq: req,
		store:      store,
		sink:       sink,
		bus:        eventbus.New(),
		clock:      clock,
		log:        logg,
		cfg:        cfg,
		forecasts:  make(chan model.ForecastInput, 1),
	}

	if cfg.MQTT.Enabled() {
		client, err := mqtt.NewPahoClient(cfg.MQTT, svc.ingest)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.client = client
	}
	if cfg.Kafka.Enabled() {
		svc.producer = kafka.NewWriter(cfg.Kafka, logger.New("kafka"))
	}
	return svc, nil
}

// newPlanStore builds the configured plan record backend.
func newPlanStore(cfg config.LoggingConfig) (logging.PlanStore, error) {
	switch cfg.Backend {
	case "jsonl":
		return logging.NewJSONLStore(cfg.Path)
	case "jsonl_rotating":
		return logging.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return logging.NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown plan store backend %q", cfg.Backend)
	}
}

// Zones exposes the current registry snapshot for the zones API.
func (s *Service) Zones() []model.Zone { return s.registry.Zones() }

// Store exposes the plan record store for the plans API.
func (s *Service) Store() logging.PlanStore { return s.store }

// Bus exposes the service event bus.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// ingest receives a forecast decoded from the broker and queues it for
// evaluation with the configured default request. A full queue drops the
// older forecast: a fresher one supersedes it.
func (s *Service) ingest(f model.ForecastInput) {
	s.bus.Publish(events.ForecastEvent{Source: "mqtt", Forecast: f})
	for {
		select {
		case s.forecasts <- f:
			return
		default:
			select {
			case <-s.forecasts:
			default:
			}
		}
	}
}

// Compute evaluates one forecast against the current zone snapshot and
// records the outcome everywhere the configuration asks for: the plan
// store, the metrics sink, the Kafka topic, the plan MQTT topic and the
// event bus.
func (s *Service) Compute(f model.ForecastInput, req allocation.Request) (plan.DispatchPlan, error) {
	start := s.clock.Now()
	p, err := s.engine.ComputePlan(f, s.registry.Zones(), req)
	if err != nil {
		return plan.DispatchPlan{}, err
	}
	elapsed := s.clock.Since(start)

	rec := logging.NewPlanRecord(uuid.NewString(), start, req, p)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Errorf("plan store append: %v", err)
	}
	if s.producer != nil {
		if err := s.producer.WriteRecord(ctx, rec); err != nil {
			s.log.Errorf("kafka write: %v", err)
		}
	}
	if s.client != nil {
		if _, err := s.client.PublishPlan(p); err != nil {
			s.log.Errorf("plan publish: %v", err)
		}
	}

	s.record(p, f, req, elapsed)
	s.bus.Publish(events.PlanEvent{RecordID: rec.ID, Plan: p, Duration: elapsed})
	if reason := degenerateReason(f, req, p); reason != "" {
		s.bus.Publish(events.DegenerateEvent{Reason: reason, Forecast: f})
	}
	return p, nil
}

func (s *Service) record(p plan.DispatchPlan, f model.ForecastInput, req allocation.Request, elapsed time.Duration) {
	if err := s.sink.RecordPlan(coremetrics.PlanComputation{
		Mode:             p.Mode,
		GlobalPf:         f.GlobalPf,
		LeadTimeDays:     f.LeadTimeDays,
		ZoneCount:        len(p.Entries),
		TotalAllocated:   p.Summary.TotalAllocated,
		TotalUnallocated: p.Summary.TotalUnallocated,
		ZonesPerBand:     p.Summary.ZonesPerBand,
		Duration:         elapsed,
		Time:             s.clock.Now(),
	}); err != nil {
		s.log.Errorf("metrics record: %v", err)
	}
	rec, ok := s.sink.(coremetrics.ZoneAllocationRecorder)
	if !ok {
		return
	}
	allocs := make([]coremetrics.ZoneAllocation, 0, len(p.Entries))
	for _, e := range p.Entries {
		allocs = append(allocs, coremetrics.ZoneAllocation{
			ZoneID:      e.ZoneID,
			Band:        e.Band.String(),
			Probability: e.Probability,
			Units:       e.UnitsAllocated,
			Critical:    e.IsCriticalInfra,
			Time:        s.clock.Now(),
		})
	}
	if err := rec.RecordZoneAllocations(allocs); err != nil {
		s.log.Errorf("zone metrics record: %v", err)
	}
}

// degenerateReason names the degenerate input that produced an all-zero
// plan, or returns "" for a plan that allocated units.
func degenerateReason(f model.ForecastInput, req allocation.Request, p plan.DispatchPlan) string {
	if len(p.Entries) == 0 {
		return "empty zone registry"
	}
	if req.TotalUnits == 0 {
		return "zero unit budget"
	}
	if f.GlobalPf == 0 && p.Summary.TotalAllocated == 0 {
		return "zero global forecast"
	}
	return ""
}

// Run starts the metrics server, the HTTP API and the forecast loop, and
// blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	metrics.StartEventCollector(ctx, s.bus, s.sink)

	if s.cfg.API.Enabled {
		go func() {
			if err := s.serveAPI(ctx); err != nil && err != http.ErrServerClosed {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-s.forecasts:
			if _, err := s.Compute(f, s.defaultReq); err != nil {
				s.log.Errorf("compute: %v", err)
			}
		}
	}
}

func (s *Service) serveAPI(ctx context.Context) error {
	mux := http.NewServeMux()
	token := s.cfg.API.AuthToken
	mux.Handle("/api/plans/compute", plans.NewComputeHandler(s, token))
	mux.Handle("/api/plans", plans.NewQueryHandler(s.store, token))
	mux.Handle("/api/zones", zones.NewHandler(s))
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("api listening on %s", s.cfg.API.Addr)
	return srv.ListenAndServe()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.client != nil {
		s.client.Disconnect()
	}
	var err error
	if s.producer != nil {
		err = s.producer.Close()
	}
	s.bus.Close()
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
