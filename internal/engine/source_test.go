package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperstreet/stocksim/internal/models"
	"github.com/paperstreet/stocksim/internal/quote"
	"github.com/paperstreet/stocksim/internal/rng"
)

func TestResolveTriesSuffixCandidatesInOrder(t *testing.T) {
	fetcher := &quote.MockFetcher{Prices: map[string]float64{"INFY": 1430.25}}
	e, _ := newTestEngine(t, fetcher, nil)

	price := e.Resolve(context.Background(), "infy")

	assert.Equal(t, 1430.25, price)
	assert.Equal(t, []string{"INFY.NS", "INFY.BO", "INFY"}, fetcher.Calls)
}

func TestResolveStopsAtFirstSuccessfulCandidate(t *testing.T) {
	fetcher := &quote.MockFetcher{Prices: map[string]float64{"INFY.NS": 1430.25, "INFY": 99}}
	e, _ := newTestEngine(t, fetcher, nil)

	price := e.Resolve(context.Background(), "INFY")

	assert.Equal(t, 1430.25, price)
	assert.Equal(t, []string{"INFY.NS"}, fetcher.Calls)
}

func TestResolveQualifiedSymbolTriedAsIs(t *testing.T) {
	fetcher := &quote.MockFetcher{Prices: map[string]float64{"RELIANCE.BO": 2900}}
	e, _ := newTestEngine(t, fetcher, nil)

	price := e.Resolve(context.Background(), "RELIANCE.BO")

	assert.Equal(t, 2900.0, price)
	assert.Equal(t, []string{"RELIANCE.BO"}, fetcher.Calls)
}

func TestResolveFallsBackToDefaultPrices(t *testing.T) {
	fetcher := &quote.MockFetcher{} // every fetch fails
	e, _ := newTestEngine(t, fetcher, nil)

	// known base symbol, even with an exchange suffix
	assert.Equal(t, 230.5, e.Resolve(context.Background(), "AAPL"))
	assert.Equal(t, 230.5, e.Resolve(context.Background(), "AAPL.NS"))
	// unknown symbol falls to the universal default
	assert.Equal(t, 100.0, e.Resolve(context.Background(), "ZZZZ"))
}

func TestResolveRandomModeWalksLastPrice(t *testing.T) {
	// walk draw: (0.75-0.5)*0.02 = +0.5%
	e, fs := newTestEngine(t, nil, rng.NewScripted(0.75))
	e.SetUseRandomPrices(true)

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, fs.Append("AAPL", models.PricePoint{Time: at, Price: 200}))

	price := e.Resolve(context.Background(), "AAPL")
	assert.Equal(t, 201.0, price)
}

func TestResolveRandomModeSeedsFromDefaults(t *testing.T) {
	e, _ := newTestEngine(t, nil, rng.NewScripted(0.5)) // zero pct change
	e.SetUseRandomPrices(true)

	assert.Equal(t, 415.8, e.Resolve(context.Background(), "MSFT"))
	assert.Equal(t, 100.0, e.Resolve(context.Background(), "ZZZZ"))
}

func TestResolveRandomModeStaysWithinBounds(t *testing.T) {
	e, fs := newTestEngine(t, nil, rng.New(5))
	e.SetUseRandomPrices(true)

	at := time.Now().UTC()
	require.NoError(t, fs.Append("TSLA", models.PricePoint{Time: at, Price: 245.3}))

	for i := 0; i < 500; i++ {
		price := e.Resolve(context.Background(), "TSLA")
		assert.InDelta(t, 245.3, price, 245.3*0.01+1e-9)
		assert.GreaterOrEqual(t, price, 0.01)
	}
}

func TestResolveRandomModeNeverTouchesFetcher(t *testing.T) {
	fetcher := &quote.MockFetcher{}
	e, _ := newTestEngine(t, fetcher, nil)
	e.SetUseRandomPrices(true)

	e.Resolve(context.Background(), "AAPL")
	assert.Empty(t, fetcher.Calls)
}
