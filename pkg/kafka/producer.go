package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Ramsey-B/fern/pkg/tracing"
)

type Config struct {
	Brokers []string
	Topic   string
}

// ParseConfig parses a comma-separated broker string
func ParseConfig(brokers string, topic string) Config {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	return Config{Brokers: list, Topic: topic}
}

// Event types published when a configuration changes.
const (
	EventConfigCreated   = "config.created"
	EventVersionCreated  = "config.version.created"
	EventVersionActivate = "config.version.activated"
	EventConfigRenamed   = "config.renamed"
	EventConfigDeleted   = "config.deleted"
)

// ConfigEvent announces a committed change to a configuration.
type ConfigEvent struct {
	Type          string    `json:"type"`
	BrandID       string    `json:"brand_id"`
	ConfigID      string    `json:"config_id"`
	Name          string    `json:"name,omitempty"`
	Version       int       `json:"version,omitempty"`
	ActiveVersion int       `json:"active_version,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	TraceID       string    `json:"trace_id,omitempty"`
}

// Producer writes config events to one topic.
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

func NewProducer(cfg Config, logger ectologger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Message builds the kafka message for evt. Events for one config share a key so they stay ordered.
func Message(ctx context.Context, evt ConfigEvent) (kafka.Message, error) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.TraceID = tracing.GetTraceID(ctx)

	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal config event: %w", err)
	}

	headers := []kafka.Header{
		{Key: "brand_id", Value: []byte(evt.BrandID)},
		{Key: "config_id", Value: []byte(evt.ConfigID)},
		{Key: "type", Value: []byte(evt.Type)},
	}
	for k, v := range tracing.Carrier(ctx) {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	return kafka.Message{
		Key:     []byte(evt.BrandID + ":" + evt.ConfigID),
		Value:   data,
		Headers: headers,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, evt ConfigEvent) error {
	ctx, span := tracing.StartSpan(ctx, "Kafka.Publish")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", p.topic),
		attribute.String("messaging.operation", "publish"),
		attribute.String("brand_id", evt.BrandID),
		attribute.String("config_id", evt.ConfigID),
		attribute.String("event_type", evt.Type),
	)

	msg, err := Message(ctx, evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal message")
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish message")
		p.logger.WithContext(ctx).WithError(err).Errorf("Failed to publish to Kafka topic %s", p.topic)
		return err
	}

	span.SetStatus(codes.Ok, "message published")
	p.logger.WithContext(ctx).Debugf("Published %s for config %s", evt.Type, evt.ConfigID)
	return nil
}

func (p *Producer) Stats() kafka.WriterStats {
	return p.writer.Stats()
}
