// Package engine implements the price-series core: live/synthetic
// price resolution, daily candle synthesis, gap reconciliation over
// recorded history, and intraday session interpolation.
package engine

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/paperstreet/stocksim/internal/quote"
	"github.com/paperstreet/stocksim/internal/rng"
	"github.com/paperstreet/stocksim/internal/store"
)

// Static default prices used when a symbol cannot be resolved any
// other way, keyed by base symbol.
var defaultPrices = map[string]float64{
	"AAPL":  230.5,
	"GOOGL": 175.2,
	"MSFT":  415.8,
	"TSLA":  245.3,
	"AMZN":  198.7,
	"META":  520.4,
	"NVDA":  890.2,
}

// universalDefaultPrice is the last-resort price for unknown symbols.
const universalDefaultPrice = 100

// DefaultSymbols returns the symbols with static default prices,
// sorted. The poller seeds its tracked set from these.
func DefaultSymbols() []string {
	symbols := make([]string, 0, len(defaultPrices))
	for s := range defaultPrices {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Params holds the synthesis model knobs.
type Params struct {
	// BaseVol is the base daily volatility of the diffusion step.
	BaseVol float64
	// JumpProb is the per-day probability of an opening gap.
	JumpProb float64
	// JumpScale bounds the relative size of an opening gap.
	JumpScale float64
}

// DefaultParams returns the standard model configuration.
func DefaultParams() Params {
	return Params{BaseVol: 0.02, JumpProb: 0.08, JumpScale: 0.06}
}

// Engine owns the price-series state: the history store, the live
// quote fetcher, the random source, and the random-prices mode flag.
type Engine struct {
	store   store.HistoryStore
	fetcher quote.Fetcher
	rnd     rng.Source
	cfg     Params

	mu         sync.RWMutex
	randomMode bool

	now func() time.Time
}

// New creates an Engine. Zero-valued params fall back to defaults.
func New(hs store.HistoryStore, fetcher quote.Fetcher, src rng.Source, cfg Params) *Engine {
	def := DefaultParams()
	if cfg.BaseVol == 0 {
		cfg.BaseVol = def.BaseVol
	}
	if cfg.JumpProb == 0 {
		cfg.JumpProb = def.JumpProb
	}
	if cfg.JumpScale == 0 {
		cfg.JumpScale = def.JumpScale
	}
	return &Engine{
		store:   hs,
		fetcher: fetcher,
		rnd:     src,
		cfg:     cfg,
		now:     time.Now,
	}
}

// UseRandomPrices reports whether the engine serves synthetic prices
// instead of live quotes.
func (e *Engine) UseRandomPrices() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.randomMode
}

// SetUseRandomPrices toggles synthetic price mode.
func (e *Engine) SetUseRandomPrices(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.randomMode = enabled
}

// Store exposes the engine's history store to collaborators that
// persist on its behalf (poller, tick consumer).
func (e *Engine) Store() store.HistoryStore {
	return e.store
}

// defaultPrice returns the static default for a symbol, stripped of
// any exchange suffix.
func (e *Engine) defaultPrice(symbol string) float64 {
	base, _, _ := strings.Cut(symbol, ".")
	if p, ok := defaultPrices[base]; ok {
		return p
	}
	if p, ok := defaultPrices[symbol]; ok {
		return p
	}
	return universalDefaultPrice
}
