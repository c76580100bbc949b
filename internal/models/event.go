package models

import "time"

// Event type constants
const (
	EventTypePriceRecorded = "PRICE_RECORDED"
	EventTypePollCompleted = "POLL_COMPLETED"
	EventTypePriceTick     = "PRICE_TICK"
)

// PriceEvent is published whenever a price is recorded to history.
type PriceEvent struct {
	EventType string    `json:"event_type"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// PollEvent is published after a poll cycle writes its batch.
type PollEvent struct {
	EventType string    `json:"event_type"`
	Symbols   []string  `json:"symbols"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceTickEvent is consumed from external feeds and appended to history.
type PriceTickEvent struct {
	EventType string    `json:"event_type"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
