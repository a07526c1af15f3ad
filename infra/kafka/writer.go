package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/floodlab/riskdispatch/core/plan/logging"
	"github.com/floodlab/riskdispatch/infra/logger"
)

// Config defines the plan record sink topic. The sink stays disabled
// until brokers are configured.
type Config struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool { return len(c.Brokers) > 0 }

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "flood.plans"
	}
}

// Validate checks mandatory fields when brokers are configured.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Topic == "" {
		return fmt.Errorf("kafka topic is required")
	}
	return nil
}

// Writer produces plan records to a Kafka topic for downstream consumers.
type Writer struct {
	writer *kafkago.Writer
	log    logger.Logger
}

// NewWriter creates a Kafka producer for the configured record topic.
func NewWriter(cfg Config, log logger.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, log: log}
}

// WriteRecord publishes a single plan record.
func (w *Writer) WriteRecord(ctx context.Context, rec logging.PlanRecord) error {
	return w.WriteRecords(ctx, []logging.PlanRecord{rec})
}

// WriteRecords serializes and publishes multiple plan records in a single
// WriteMessages call.
func (w *Writer) WriteRecords(ctx context.Context, recs []logging.PlanRecord) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(recs))
	for i := range recs {
		msg, err := serializeToMessage(recs[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a PlanRecord into a Kafka message.
func serializeToMessage(rec logging.PlanRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize plan record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "mode", Value: []byte(rec.Request.Mode)},
			{Key: "peak_band", Value: []byte(rec.PeakBand)},
			{Key: "computed_at", Value: []byte(rec.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
