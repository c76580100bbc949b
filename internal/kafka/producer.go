package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paperstreet/stocksim/internal/models"
	"github.com/segmentio/kafka-go"
)

// Producer handles publishing price events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishPriceRecorded publishes a price recorded event
func (p *Producer) PublishPriceRecorded(ctx context.Context, symbol string, price float64) error {
	event := models.PriceEvent{
		EventType: models.EventTypePriceRecorded,
		Symbol:    symbol,
		Price:     price,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, symbol, event)
}

// PublishPollCompleted publishes a poll completed event listing the
// symbols written in the batch
func (p *Producer) PublishPollCompleted(ctx context.Context, symbols []string) error {
	event := models.PollEvent{
		EventType: models.EventTypePollCompleted,
		Symbols:   symbols,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, "poll", event)
}

func (p *Producer) publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
