package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperstreet/stocksim/internal/engine"
	"github.com/paperstreet/stocksim/internal/quote"
	"github.com/paperstreet/stocksim/internal/rng"
	"github.com/paperstreet/stocksim/internal/store"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()

	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	fetcher := &quote.MockFetcher{Prices: map[string]float64{
		"AAPL.NS": 230.5,
		"MSFT.NS": 415.8,
	}}
	e := engine.New(fs, fetcher, rng.New(1), engine.Params{})

	handler := NewHandler(e, nil)
	srv := httptest.NewServer(SetupRoutes(handler, apiKey))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, "")

	var body map[string]string
	resp := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestGetQuote(t *testing.T) {
	srv := newTestServer(t, "")

	var body struct {
		Symbol       string  `json:"symbol"`
		CurrentPrice float64 `json:"currentPrice"`
		History      []struct {
			Price float64 `json:"price"`
		} `json:"history"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/quote/aapl", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "AAPL", body.Symbol)
	assert.Equal(t, 230.5, body.CurrentPrice)
	require.Len(t, body.History, 1)
	assert.Equal(t, 230.5, body.History[0].Price)
}

func TestGetChart(t *testing.T) {
	srv := newTestServer(t, "")

	var body struct {
		Symbol    string `json:"symbol"`
		ChartData []struct {
			Price float64 `json:"price"`
		} `json:"chartData"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/chart/AAPL?points=5", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "AAPL", body.Symbol)
	// one live price recorded by the request itself
	require.NotEmpty(t, body.ChartData)
	assert.Equal(t, 230.5, body.ChartData[len(body.ChartData)-1].Price)
}

func TestGetCandles(t *testing.T) {
	srv := newTestServer(t, "")

	var body struct {
		Symbol  string            `json:"symbol"`
		Candles []json.RawMessage `json:"candles"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/candles/AAPL?days=10", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AAPL", body.Symbol)
	// only today's bucket exists, so no completed-day candles yet
	assert.Empty(t, body.Candles)
}

func TestGetSimulatedIncludesToday(t *testing.T) {
	srv := newTestServer(t, "")

	var body struct {
		Symbol  string            `json:"symbol"`
		Candles []json.RawMessage `json:"candles"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/simulate/AAPL", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AAPL", body.Symbol)
	require.Len(t, body.Candles, 1)
}

func TestGetIntradayRejectsBadDate(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/api/v1/intraday/AAPL/not-a-date")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetIntraday(t *testing.T) {
	srv := newTestServer(t, "")

	var body struct {
		Symbol    string `json:"symbol"`
		ChartData []struct {
			Price float64 `json:"price"`
		} `json:"chartData"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/intraday/AAPL/2024-03-05?points=10", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AAPL", body.Symbol)
	assert.Len(t, body.ChartData, 10)
}

func TestRandomPricesToggle(t *testing.T) {
	srv := newTestServer(t, "")

	var state map[string]bool
	resp := getJSON(t, srv.URL+"/api/v1/admin/random-prices", &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, state["enabled"])

	resp2, err := http.Post(srv.URL+"/api/v1/admin/random-prices", "application/json",
		strings.NewReader(`{"enabled":true}`))
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	resp = getJSON(t, srv.URL+"/api/v1/admin/random-prices", &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, state["enabled"])
}

func TestSetRandomPricesValidation(t *testing.T) {
	srv := newTestServer(t, "")

	t.Run("missing enabled", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/v1/admin/random-prices", "application/json",
			strings.NewReader(`{}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/v1/admin/random-prices", "application/json",
			strings.NewReader(`{enabled`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAdminRequiresAPIKey(t *testing.T) {
	srv := newTestServer(t, "secret")

	t.Run("missing header", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/admin/random-prices")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", srv.URL+"/api/v1/admin/random-prices", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", srv.URL+"/api/v1/admin/random-prices", nil)
		req.Header.Set("Authorization", "Bearer secret")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("public routes stay open", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
