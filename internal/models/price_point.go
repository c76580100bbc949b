package models

import "time"

// PricePoint is a single recorded price sample for a symbol.
// Points are immutable once appended to history.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// MaxHistoryPoints caps per-symbol history; oldest points are evicted first.
const MaxHistoryPoints = 365
