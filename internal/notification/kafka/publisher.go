// Package kafka publishes notifications to a Kafka topic with franz-go.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"matchday/internal/notification"
	"matchday/pkg/platform/circuit"
	"matchday/pkg/platform/sentinel"
)

const headerEventType = "event_type"

// producer is the subset of *kgo.Client the publisher uses.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher produces one record per message. While the breaker is open,
// Publish fails fast with sentinel.ErrUnavailable and lets one probe through
// per probe interval.
type Publisher struct {
	client  producer
	topic   string
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

func NewPublisher(client producer, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		topic:   topic,
		breaker: circuit.New("kafka-notifications"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, msg notification.Message) error {
	if !p.breaker.Allow() {
		return fmt.Errorf("kafka publisher %s: %w", p.breaker.Name(), sentinel.ErrUnavailable)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(msg.Key),
		Value: msg.Payload,
		Headers: []kgo.RecordHeader{
			{Key: headerEventType, Value: []byte(msg.EventType)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.logger.WarnContext(ctx, "kafka circuit opened", "topic", p.topic, "error", err)
		}
		return fmt.Errorf("produce %s: %w", msg.EventType, err)
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "kafka circuit closed", "topic", p.topic)
	}
	return nil
}

// Deliver lets the publisher act as a direct notification sink when no
// outbox is configured.
func (p *Publisher) Deliver(ctx context.Context, event notification.Event) error {
	msg, err := notification.MessageFor(event)
	if err != nil {
		return err
	}
	return p.Publish(ctx, msg)
}
