// Package quote fetches live market prices for a single symbol
// candidate. Candidate fallback chains and defaults are the engine's
// concern; a Fetcher only answers "what does this exact ticker trade
// at right now", or fails.
package quote

import "context"

// Fetcher defines the interface for live quote lookup.
type Fetcher interface {
	// FetchPrice returns the current market price for the exact symbol
	// given. It returns an error when the symbol is unknown upstream or
	// the quote carries no price.
	FetchPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}
