package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/paperstreet/stocksim/internal/models"
)

// HistoryAppender is the slice of the history store the consumer
// needs to record incoming ticks
type HistoryAppender interface {
	Append(symbol string, point models.PricePoint) error
}

// Consumer ingests external price ticks from Kafka and appends them
// to the price history
type Consumer struct {
	reader  *kafka.Reader
	history HistoryAppender
}

// NewConsumer creates a new Kafka consumer for price tick events
func NewConsumer(brokers []string, topic, groupID string, history HistoryAppender) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:  reader,
		history: history,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting Kafka consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading message: %v", err)
				continue
			}

			if err := c.processMessage(msg); err != nil {
				log.Printf("Error processing message: %v", err)
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(msg kafka.Message) error {
	log.Printf("Received message from partition %d offset %d: key=%s",
		msg.Partition, msg.Offset, string(msg.Key))

	var event models.PriceTickEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal tick event: %w", err)
	}

	if event.EventType != models.EventTypePriceTick {
		log.Printf("Ignoring event type: %s", event.EventType)
		return nil
	}

	point, symbol, err := c.convertEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert tick event: %w", err)
	}

	if err := c.history.Append(symbol, point); err != nil {
		return fmt.Errorf("failed to record tick: %w", err)
	}

	log.Printf("Recorded tick: %s @ %v", symbol, point.Price)
	return nil
}

// convertEvent validates a tick event and maps it to a price point
func (c *Consumer) convertEvent(event models.PriceTickEvent) (models.PricePoint, string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(event.Symbol))
	if symbol == "" {
		return models.PricePoint{}, "", fmt.Errorf("tick event has no symbol")
	}
	if event.Price <= 0 {
		return models.PricePoint{}, "", fmt.Errorf("invalid tick price for %s: %v", symbol, event.Price)
	}

	at := event.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	return models.PricePoint{Time: at, Price: event.Price}, symbol, nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
