// Package events publishes operational lifecycle events (session
// connected, reconnected, contract violation) to Kafka, adapted from
// the teacher's services/collector/internal/publisher package. Unlike
// the teacher's publisher, which ships every ticker/depth/trade tick
// to Kafka as the system of record, this one only ever carries
// lifecycle events: book state itself is never persisted, per this
// system's scope.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"bookagg/internal/book"
)

// Kind identifies the lifecycle event type.
type Kind string

const (
	KindSessionConnected   Kind = "session_connected"
	KindSessionReconnected Kind = "session_reconnected"
	KindContractViolation  Kind = "contract_violation"
)

// Event is one operational lifecycle event.
type Event struct {
	Kind      Kind              `json:"kind"`
	Exchange  book.ExchangeCode `json:"exchange"`
	Reason    string            `json:"reason,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Publisher writes lifecycle events to a single Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

// NewPublisher builds a publisher writing to topic on brokers. As in
// the teacher's publisher, writes are async and batched; lifecycle
// events are an operational signal, not a durability guarantee.
func NewPublisher(brokers []string, topic string, log zerolog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchSize:    50,
			BatchTimeout: 10 * time.Millisecond,
			Async:        true,
			RequiredAcks: kafka.RequireOne,
		},
		log: log,
	}
}

// Publish emits one lifecycle event, keyed by exchange so that all of
// one exchange's events land on the same partition.
func (p *Publisher) Publish(ctx context.Context, ev Event) {
	ev.Timestamp = time.Now()

	value, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal lifecycle event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(ev.Exchange),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("publish lifecycle event")
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
