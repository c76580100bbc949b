package engine

import (
	"context"
	"log"
	"strings"

	"github.com/paperstreet/stocksim/internal/models"
)

// QuoteResponse is the recordAndQuote read shape.
type QuoteResponse struct {
	Symbol       string              `json:"symbol"`
	CurrentPrice float64             `json:"currentPrice"`
	History      []models.PricePoint `json:"history"`
}

// ChartResponse is the raw point-series read shape.
type ChartResponse struct {
	Symbol    string              `json:"symbol"`
	ChartData []models.PricePoint `json:"chartData"`
}

// CandlesResponse is the daily-candle read shape.
type CandlesResponse struct {
	Symbol  string          `json:"symbol"`
	Candles []models.Candle `json:"candles"`
}

// quoteHistoryPoints is how many recent points a quote response carries.
const quoteHistoryPoints = 20

// Quote resolves a current price, records it, and returns it with the
// most recent history points. The append error surfaces: a quote that
// silently fails to persist would desynchronize chart reads.
func (e *Engine) Quote(ctx context.Context, symbol string) (*QuoteResponse, error) {
	s := strings.ToUpper(symbol)
	price := e.Resolve(ctx, s)
	if err := e.store.Append(s, models.PricePoint{Time: e.now().UTC(), Price: price}); err != nil {
		return nil, err
	}

	history, err := e.store.History(s)
	if err != nil {
		return nil, err
	}
	if len(history) > quoteHistoryPoints {
		history = history[len(history)-quoteHistoryPoints:]
	}
	return &QuoteResponse{Symbol: s, CurrentPrice: price, History: history}, nil
}

// ChartSeries returns a simple time/price series for charting: the
// close series of a synthetic run in random mode, otherwise the most
// recent recorded points after recording one fresh live price.
func (e *Engine) ChartSeries(ctx context.Context, symbol string, points, days int) (*ChartResponse, error) {
	s := strings.ToUpper(symbol)

	if e.UseRandomPrices() {
		candles := e.SynthesizeRun(s, days)
		chart := make([]models.PricePoint, 0, len(candles))
		for _, c := range candles {
			day, err := ParseDayKey(c.Date)
			if err != nil {
				continue
			}
			chart = append(chart, models.PricePoint{Time: day, Price: c.Close})
		}
		return &ChartResponse{Symbol: s, ChartData: chart}, nil
	}

	// real mode: record a live price so the graph reflects real time;
	// a failed record only costs freshness
	e.recordLivePrice(ctx, s)

	history, err := e.store.History(s)
	if err != nil {
		return nil, err
	}
	if len(history) > points {
		history = history[len(history)-points:]
	}
	return &ChartResponse{Symbol: s, ChartData: history}, nil
}

// Candles returns the most recent `days` daily candles for completed
// sessions, reconciling sparse days through synthesis.
func (e *Engine) Candles(ctx context.Context, symbol string, days int) (*CandlesResponse, error) {
	s := strings.ToUpper(symbol)

	if e.UseRandomPrices() {
		return &CandlesResponse{Symbol: s, Candles: e.SynthesizeRun(s, days)}, nil
	}

	history, err := e.store.History(s)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		// ensure at least one price exists
		price := e.Resolve(ctx, s)
		if err := e.store.Append(s, models.PricePoint{Time: e.now().UTC(), Price: price}); err != nil {
			return nil, err
		}
	}

	// completed sessions only: exclude today's partial bucket
	_, allDays := e.dayGroups(s)
	today := DayKey(e.now())
	completed := make([]string, 0, len(allDays))
	for _, d := range allDays {
		if d < today {
			completed = append(completed, d)
		}
	}

	candles := e.BuildCandles(ctx, s, completed)
	if len(candles) > days {
		candles = candles[len(candles)-days:]
	}
	return &CandlesResponse{Symbol: s, Candles: candles}, nil
}

// SimulatedSeries returns the per-day candle series including today's
// bucket, for real-time chart views. In random mode it degrades to a
// full synthetic run.
func (e *Engine) SimulatedSeries(ctx context.Context, symbol string, days int) (*CandlesResponse, error) {
	s := strings.ToUpper(symbol)

	if e.UseRandomPrices() {
		return &CandlesResponse{Symbol: s, Candles: e.SynthesizeRun(s, days)}, nil
	}

	// record a live price so candles include the latest intraday point
	e.recordLivePrice(ctx, s)

	_, allDays := e.dayGroups(s)
	return &CandlesResponse{Symbol: s, Candles: e.BuildCandles(ctx, s, allDays)}, nil
}

// IntradaySeries interpolates a session path for one calendar day,
// anchored on the closes around it.
func (e *Engine) IntradaySeries(symbol, day string, points int) (*ChartResponse, error) {
	s := strings.ToUpper(symbol)

	prev := e.PreviousCloseOn(s, day)
	next := e.NextCloseOn(s, day)
	series, err := e.InterpolateSession(prev, next, day, points)
	if err != nil {
		return nil, err
	}
	return &ChartResponse{Symbol: s, ChartData: series}, nil
}

func (e *Engine) recordLivePrice(ctx context.Context, symbol string) {
	price := e.Resolve(ctx, symbol)
	if err := e.store.Append(symbol, models.PricePoint{Time: e.now().UTC(), Price: price}); err != nil {
		log.Printf("Live price record failed for %s: %v", symbol, err)
	}
}
