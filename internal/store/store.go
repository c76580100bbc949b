// Package store defines the price history store and its file-backed
// implementation. History is an append-only, per-symbol, time-ordered
// log capped at models.MaxHistoryPoints entries.
package store

import (
	"time"

	"github.com/paperstreet/stocksim/internal/models"
)

// HistoryStore is the persistence boundary of the price engine. All
// mutations go through Append/AppendBatch; reads return snapshots that
// callers may not rely on being live.
type HistoryStore interface {
	// Append records one price point for a symbol, evicting the oldest
	// point if the symbol is at capacity. Points at identical instants
	// are kept as separate entries.
	Append(symbol string, point models.PricePoint) error

	// AppendBatch records one point per symbol under a shared timestamp
	// as a single read-modify-write of the store.
	AppendBatch(prices map[string]float64, at time.Time) error

	// History returns the recorded points for a symbol in append order,
	// oldest first. A symbol with no history yields an empty slice.
	History(symbol string) ([]models.PricePoint, error)

	// Symbols lists every symbol with recorded history.
	Symbols() ([]string, error)

	// HoldingSymbols lists symbols held by any user account.
	HoldingSymbols() ([]string, error)
}
