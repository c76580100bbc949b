package quote

import (
	"context"
	"fmt"
	"sync"
)

// MockFetcher returns controllable fixed prices for development and
// testing. Symbols absent from Prices fail like an unknown ticker.
type MockFetcher struct {
	mu     sync.Mutex
	Prices map[string]float64
	Err    error
	Calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrice(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, symbol)
	if m.Err != nil {
		return 0, m.Err
	}
	price, ok := m.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("mock: no quote for %s", symbol)
	}
	return price, nil
}
