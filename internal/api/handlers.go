package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/paperstreet/stocksim/internal/engine"
	"github.com/paperstreet/stocksim/internal/kafka"
)

// Query parameter defaults and bounds.
const (
	defaultChartPoints   = 30
	defaultDays          = 30
	defaultIntradaySteps = 48
	maxDays              = 365
	maxPoints            = 500
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	engine   *engine.Engine
	producer *kafka.Producer
}

// NewHandler creates a new Handler
func NewHandler(e *engine.Engine, producer *kafka.Producer) *Handler {
	return &Handler{
		engine:   e,
		producer: producer,
	}
}

// GetQuote handles GET /quote/{symbol}
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	quote, err := h.engine.Quote(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishPriceRecorded(r.Context(), quote.Symbol, quote.CurrentPrice); err != nil {
			log.Printf("Failed to publish price event for %s: %v", quote.Symbol, err)
		}
	}

	respondJSON(w, http.StatusOK, quote)
}

// GetChart handles GET /chart/{symbol}
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]
	points := queryInt(r, "points", defaultChartPoints, 1, maxPoints)
	days := queryInt(r, "days", defaultDays, 1, maxDays)

	chart, err := h.engine.ChartSeries(r.Context(), symbol, points, days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, chart)
}

// GetCandles handles GET /candles/{symbol}
func (h *Handler) GetCandles(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]
	days := queryInt(r, "days", defaultDays, 1, maxDays)

	candles, err := h.engine.Candles(r.Context(), symbol, days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, candles)
}

// GetSimulated handles GET /simulate/{symbol}
func (h *Handler) GetSimulated(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]
	days := queryInt(r, "days", defaultDays, 1, maxDays)

	candles, err := h.engine.SimulatedSeries(r.Context(), symbol, days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, candles)
}

// GetIntraday handles GET /intraday/{symbol}/{date}
func (h *Handler) GetIntraday(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]
	date := vars["date"]
	points := queryInt(r, "points", defaultIntradaySteps, 2, maxPoints)

	if _, err := engine.ParseDayKey(date); err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	series, err := h.engine.IntradaySeries(symbol, date, points)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, series)
}

// GetRandomPrices handles GET /admin/random-prices
func (h *Handler) GetRandomPrices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"enabled": h.engine.UseRandomPrices()})
}

// SetRandomPrices handles POST /admin/random-prices
func (h *Handler) SetRandomPrices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Enabled == nil {
		http.Error(w, "enabled is required", http.StatusBadRequest)
		return
	}

	h.engine.SetUseRandomPrices(*req.Enabled)
	log.Printf("Random price mode set to %v", *req.Enabled)

	respondJSON(w, http.StatusOK, map[string]bool{"enabled": *req.Enabled})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// queryInt parses an integer query parameter, clamping to [min, max];
// missing or malformed values fall back to the default.
func queryInt(r *http.Request, name string, def, lo, hi int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
