package engine

import (
	"log"
	"math"

	"github.com/shopspring/decimal"

	"github.com/paperstreet/stocksim/internal/models"
)

// round4 rounds a price to four decimal places.
func round4(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

// SynthesizeDay derives a single day's OHLC and volume from a previous
// close using one lognormal jump-diffusion step. The date field is left
// for the caller to assign.
//
// The routine is pure given the engine's random source: a scripted
// uniform stream reproduces the candle exactly. Draw order: volatility,
// drift, jump check, (jump size), close deviate (two uniforms), high
// fraction, low fraction, volume.
func (e *Engine) SynthesizeDay(prevClose float64) models.Candle {
	sigma := e.cfg.BaseVol * (0.6 + e.rnd.Uniform()*1.4)
	mu := (e.rnd.Uniform() - 0.5) * 0.002

	// gap at open
	open := prevClose
	if e.rnd.Uniform() < e.cfg.JumpProb {
		jump := (e.rnd.Uniform() - 0.5) * 2 * e.cfg.JumpScale
		open = math.Max(0.01, round4(open*(1+jump)))
	}

	// single-day return via lognormal step
	z := e.rnd.Normal()
	factor := math.Exp((mu - 0.5*sigma*sigma) + sigma*z)
	closePrice := math.Max(0.01, round4(open*factor))

	// highs/lows around open/close; high strictly above the body
	up := math.Max(open, closePrice)
	down := math.Min(open, closePrice)
	high := math.Max(up*(1+e.rnd.Uniform()*sigma*1.5), up+0.0001)
	low := math.Min(math.Max(down*(1-e.rnd.Uniform()*sigma*1.5), 0.0001), down)

	return models.Candle{
		Open:   round4(open),
		High:   round4(high),
		Low:    round4(low),
		Close:  round4(closePrice),
		Volume: 50000 + int64(e.rnd.Uniform()*300000),
	}
}

// SynthesizeRun generates `days` consecutive daily candles ending
// yesterday, seeded from the symbol's last recorded price (falling back
// to the per-symbol default) and chaining each close into the next
// day's previous close.
func (e *Engine) SynthesizeRun(symbol string, days int) []models.Candle {
	last := e.lastKnownPrice(symbol)
	today := e.now().UTC()

	candles := make([]models.Candle, 0, days)
	for i := days; i >= 1; i-- {
		candle := e.SynthesizeDay(last)
		candle.Date = DayKey(today.AddDate(0, 0, -i))
		candles = append(candles, candle)
		last = candle.Close
	}
	return candles
}

// lastKnownPrice returns the most recent recorded price for symbol, or
// the static default when history is empty or unreadable.
func (e *Engine) lastKnownPrice(symbol string) float64 {
	history, err := e.store.History(symbol)
	if err != nil {
		log.Printf("history read failed for %s, using default price: %v", symbol, err)
		return e.defaultPrice(symbol)
	}
	if len(history) == 0 {
		return e.defaultPrice(symbol)
	}
	return history[len(history)-1].Price
}
