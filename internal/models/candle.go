package models

// Candle is a single day's OHLC summary with volume.
// Invariant: Low <= min(Open, Close) and High >= max(Open, Close).
type Candle struct {
	Date   string  `json:"time"` // calendar day, YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume,omitempty"`
}

// DaySummary is the aggregated view of one recorded calendar day,
// used for previous-close / next-close lookups.
type DaySummary struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}
