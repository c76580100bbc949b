package engine

import (
	"math"
	"time"

	"github.com/paperstreet/stocksim/internal/models"
)

// Trading session window, 09:30-15:30.
const (
	sessionOpenOffset = 9*time.Hour + 30*time.Minute
	sessionLength     = 6 * time.Hour
)

// sessionWindow returns the trading-session open and close instants
// for a calendar day.
func sessionWindow(day string) (time.Time, time.Time, error) {
	midnight, err := ParseDayKey(day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	open := midnight.Add(sessionOpenOffset)
	return open, open.Add(sessionLength), nil
}

// InterpolateSession simulates an intraday price path for a calendar
// day between two known daily closes. Prices follow a linear trend
// from the previous close to the next close with a normal shock
// proportional to the trend and the realized percentage move. The
// sequence is finite and non-restartable; every call draws fresh
// deviates.
func (e *Engine) InterpolateSession(prev, next *models.DaySummary, day string, points int) ([]models.PricePoint, error) {
	start, end, err := sessionWindow(day)
	if err != nil {
		return nil, err
	}
	if points < 2 {
		points = 2
	}

	startPrice := anchorPrice(prev, next, universalDefaultPrice)
	endPrice := anchorPrice(next, nil, startPrice)

	// volatility proxy scales with the absolute percentage change
	pctChange := math.Abs(endPrice-startPrice) / math.Max(1, startPrice)
	vol := math.Max(0.0005, pctChange*0.02)

	span := end.Sub(start)
	out := make([]models.PricePoint, 0, points)
	for i := 0; i < points; i++ {
		t := float64(i) / float64(points-1)
		trend := startPrice + (endPrice-startPrice)*t
		shock := e.rnd.Normal() * vol * trend
		price := math.Max(0.01, trend+shock)
		ts := start.Add(time.Duration(math.Round(float64(span) * t)))
		out = append(out, models.PricePoint{Time: ts, Price: price})
	}
	return out, nil
}

// anchorPrice picks the close of a day summary, falling back to its
// open, then to the other summary's close, then to fallback.
func anchorPrice(primary, secondary *models.DaySummary, fallback float64) float64 {
	if primary != nil {
		if primary.Close != 0 {
			return primary.Close
		}
		if primary.Open != 0 {
			return primary.Open
		}
	}
	if secondary != nil && secondary.Close != 0 {
		return secondary.Close
	}
	return fallback
}
