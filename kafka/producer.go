package kafka

import (
	"context"
	"encoding/json"
	"time"

	"storefront-api/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// WriteTimeout caps a single write to the brokers.
const WriteTimeout = 2 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes cart events to a Kafka topic, keyed by user so that the
// events of one cart stay ordered within a partition.
type Producer struct {
	writer messageWriter
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: WriteTimeout,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

func (p *Producer) Publish(ctx context.Context, event models.CartEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Event)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		zap.L().Warn("Failed to send Kafka message",
			zap.String("topic", p.topic),
			zap.String("event", event.Event),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.CartEvent) error { return nil }

func (NoopPublisher) Close() {}
