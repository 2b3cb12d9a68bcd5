package repository

import (
	"context"

	"StockTerm/internal/domain/models"
)

// Publisher is the part of pkg/kafka.Producer the event publisher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaEventPublisher emits holding events keyed by symbol so events for one
// holding stay ordered within a partition.
type KafkaEventPublisher struct {
	p     Publisher
	topic string
}

func NewKafkaEventPublisher(p Publisher, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{p: p, topic: topic}
}

func (k *KafkaEventPublisher) PublishHoldingEvent(ctx context.Context, ev models.HoldingEvent) error {
	return k.p.Publish(ctx, k.topic, []byte(ev.Symbol), ev)
}

func (k *KafkaEventPublisher) Close() error { return k.p.Close() }

// NoopEventPublisher drops events. Used when events are disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishHoldingEvent(context.Context, models.HoldingEvent) error { return nil }
func (NoopEventPublisher) Close() error                                                 { return nil }
