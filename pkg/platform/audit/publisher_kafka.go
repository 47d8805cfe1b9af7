package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher produces trail events to a Kafka topic. Events are keyed by
// entity id so per-entity ordering survives partitioning.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

// WithKafkaLogger sets a logger for produce failures.
func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

// NewKafkaPublisher connects a producer to the given brokers (comma-separated).
func NewKafkaPublisher(brokers, topic string, opts ...KafkaOption) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(brokers, ",")...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &KafkaPublisher{client: client, topic: topic}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Emit produces the event synchronously. Callers treat trail emission as
// fail-open, so a produce error is surfaced but must not abort the operation.
func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	payload, err := json.Marshal(stamp(event))
	if err != nil {
		return fmt.Errorf("marshal trail event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.EntityID),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "trail event produce failed",
				"action", event.Action,
				"error", err,
			)
		}
		return fmt.Errorf("produce trail event: %w", err)
	}
	return nil
}

// Close flushes and releases the producer.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
