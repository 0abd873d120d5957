// Package kafka publishes recommendation completion events for downstream
// analytics consumers.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtlebank/teenfin/internal/config"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/recommend"
)

// writerAPI abstracts kafka.Writer for testing.
type writerAPI interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits CompletedEvents to one topic.  Publishing is strictly
// best-effort: failures are logged and dropped, never surfaced to requests.
type Publisher struct {
	writer writerAPI
	topic  string
	log    logging.Logger
}

var _ recommend.EventPublisher = (*Publisher)(nil)

// NewPublisher builds a producer for the configured brokers and topic.
func NewPublisher(cfg config.KafkaConfig, log logging.Logger) *Publisher {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries,
		BatchTimeout: batchTimeout,
		Async:        cfg.Async,
		RequiredAcks: kafka.RequireOne,
	}

	log.Info("kafka publisher ready",
		logging.String("topic", cfg.Topic),
		logging.Any("brokers", cfg.Brokers),
		logging.Bool("async", cfg.Async))

	return &Publisher{writer: writer, topic: cfg.Topic, log: log.Named("kafka")}
}

// RecommendationCompleted publishes one event keyed by request id, so all
// events of a request land in the same partition.
func (p *Publisher) RecommendationCompleted(ctx context.Context, event recommend.CompletedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("completion event marshal failed", logging.Err(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.RequestID),
		Value: payload,
		Time:  event.CompletedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("completion event publish failed",
			logging.String("request_id", event.RequestID),
			logging.String("topic", p.topic),
			logging.Err(err))
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
