package models

// User holds the account fields the engine cares about. Portfolio
// accounting lives in a separate service; the poller only needs to know
// which symbols users hold.
type User struct {
	Email     string         `json:"email,omitempty"`
	Cash      float64        `json:"cash,omitempty"`
	Holdings  map[string]int `json:"holdings,omitempty"`
	CreatedAt string         `json:"createdAt,omitempty"`
}

// Snapshot is the persisted document shape of the file-backed store:
// all users plus per-symbol price history, capped at MaxHistoryPoints
// entries per symbol.
type Snapshot struct {
	Users        map[string]*User        `json:"users"`
	PriceHistory map[string][]PricePoint `json:"priceHistory"`
}

// NewSnapshot returns an empty snapshot with both maps allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:        make(map[string]*User),
		PriceHistory: make(map[string][]PricePoint),
	}
}
