package engine

import (
	"context"
	"log"
	"math"
	"strings"
)

// Resolve returns a current price for a symbol. It never fails: live
// fetch errors fall through the candidate chain to a static default,
// and random-mode store errors fall through to the same default.
// Callers decide whether to persist the result.
func (e *Engine) Resolve(ctx context.Context, symbol string) float64 {
	s := strings.ToUpper(strings.TrimSpace(symbol))

	if e.UseRandomPrices() {
		last := e.lastKnownPrice(s)
		// random walk: small pct change, +/-1%
		pct := (e.rnd.Uniform() - 0.5) * 0.02
		next := math.Max(0.01, round4(last*(1+pct)))
		log.Printf("Using random price for %s: %v", s, next)
		return next
	}

	// A symbol that already carries an exchange qualifier is tried
	// as-is; otherwise try the market-suffix variants before the bare
	// symbol.
	candidates := []string{s}
	if !strings.ContainsAny(s, ".:") {
		candidates = []string{s + ".NS", s + ".BO", s}
	}

	for _, cand := range candidates {
		price, err := e.fetcher.FetchPrice(ctx, cand)
		if err != nil {
			log.Printf("Failed to fetch real price for %s, trying next (%v)", cand, err)
			continue
		}
		if cand != s {
			log.Printf("Resolved %s -> %s", s, cand)
		}
		return price
	}

	log.Printf("Failed to fetch real price for %s, using default", s)
	return e.defaultPrice(s)
}
