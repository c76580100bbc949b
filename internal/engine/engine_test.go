package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paperstreet/stocksim/internal/models"
	"github.com/paperstreet/stocksim/internal/quote"
	"github.com/paperstreet/stocksim/internal/rng"
	"github.com/paperstreet/stocksim/internal/store"
)

// newTestEngine wires an engine over a throwaway file store.
func newTestEngine(t *testing.T, fetcher quote.Fetcher, src rng.Source) (*Engine, *store.FileStore) {
	t.Helper()
	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	if fetcher == nil {
		fetcher = &quote.MockFetcher{}
	}
	if src == nil {
		src = rng.New(1)
	}
	return New(fs, fetcher, src, DefaultParams()), fs
}

// fixedNow pins the engine clock.
func fixedNow(e *Engine, at time.Time) {
	e.now = func() time.Time { return at }
}

func appendAt(t *testing.T, fs *store.FileStore, symbol string, at time.Time, prices ...float64) {
	t.Helper()
	for i, p := range prices {
		require.NoError(t, fs.Append(symbol, models.PricePoint{
			Time:  at.Add(time.Duration(i) * time.Minute),
			Price: p,
		}))
	}
}

func TestDayKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 23, 59, 59, 0, time.FixedZone("IST", 5*3600+1800))
	// 23:59:59+05:30 is 18:29:59 UTC the same day
	require.Equal(t, "2024-03-05", DayKey(at))

	at = time.Date(2024, 3, 5, 2, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	// 02:00+05:30 is 20:30 UTC the previous day
	require.Equal(t, "2024-03-04", DayKey(at))
}
