package engine

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/paperstreet/stocksim/internal/models"
)

// minRealSamples is the minimum number of recorded points trusted to
// represent a real session shape; sparser days are synthesized.
const minRealSamples = 4

// groupByDay buckets price points into calendar days, returning the
// buckets plus the day keys in ascending order.
func groupByDay(points []models.PricePoint) (map[string][]models.PricePoint, []string) {
	groups := make(map[string][]models.PricePoint)
	for _, p := range points {
		key := DayKey(p.Time)
		groups[key] = append(groups[key], p)
	}
	days := make([]string, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	sort.Strings(days)
	return groups, days
}

// summarizeDay aggregates one day's points: open is the first point,
// close the last, high/low the extremes.
func summarizeDay(date string, points []models.PricePoint) models.DaySummary {
	s := models.DaySummary{
		Date:  date,
		Open:  points[0].Price,
		Close: points[len(points)-1].Price,
		High:  points[0].Price,
		Low:   points[0].Price,
	}
	for _, p := range points[1:] {
		if p.Price > s.High {
			s.High = p.Price
		}
		if p.Price < s.Low {
			s.Low = p.Price
		}
	}
	return s
}

// dayGroups reads and buckets a symbol's full history. A store read
// failure is treated as an empty history.
func (e *Engine) dayGroups(symbol string) (map[string][]models.PricePoint, []string) {
	history, err := e.store.History(symbol)
	if err != nil {
		log.Printf("history read failed for %s, treating as empty: %v", symbol, err)
		return map[string][]models.PricePoint{}, nil
	}
	return groupByDay(history)
}

// closeRelativeTo picks a day summary around a reference day.
// Previous: the latest day strictly before ref, falling back to the
// latest recorded day. Next: the earliest day strictly after ref, with
// the same latest-day fallback. In degenerate histories both lookups
// can land on the same day; that fallback is deliberate.
func closeRelativeTo(groups map[string][]models.PricePoint, days []string, ref string, next bool) *models.DaySummary {
	if len(days) == 0 {
		return nil
	}

	target := ""
	if next {
		for _, d := range days {
			if d > ref {
				target = d
				break
			}
		}
	} else {
		for _, d := range days {
			if d < ref {
				target = d
			}
		}
	}
	if target == "" {
		target = days[len(days)-1]
	}

	s := summarizeDay(target, groups[target])
	return &s
}

// PreviousCloseOn returns the t-1 aggregate for a symbol relative to
// the given day, or nil when the symbol has no history.
func (e *Engine) PreviousCloseOn(symbol, day string) *models.DaySummary {
	groups, days := e.dayGroups(strings.ToUpper(symbol))
	return closeRelativeTo(groups, days, day, false)
}

// NextCloseOn returns the t+1 aggregate for a symbol relative to the
// given day, or nil when the symbol has no history.
func (e *Engine) NextCloseOn(symbol, day string) *models.DaySummary {
	groups, days := e.dayGroups(strings.ToUpper(symbol))
	return closeRelativeTo(groups, days, day, true)
}

// PreviousClose returns the t-1 aggregate relative to today.
func (e *Engine) PreviousClose(symbol string) *models.DaySummary {
	return e.PreviousCloseOn(symbol, DayKey(e.now()))
}

// NextClose returns the t+1 aggregate relative to today.
func (e *Engine) NextClose(symbol string) *models.DaySummary {
	return e.NextCloseOn(symbol, DayKey(e.now()))
}

// strictPreviousClose aggregates the latest recorded day strictly
// before ref, with no fallback: reconciliation must not anchor a day's
// synthesis on that day itself or on its future.
func strictPreviousClose(groups map[string][]models.PricePoint, days []string, ref string) *models.DaySummary {
	target := ""
	for _, d := range days {
		if d < ref {
			target = d
		}
	}
	if target == "" {
		return nil
	}
	s := summarizeDay(target, groups[target])
	return &s
}

// BuildCandles reconciles the given calendar days, ascending, into
// one candle each. Days with enough recorded points aggregate them
// directly; sparse days synthesize from the close of the nearest
// strictly earlier recorded day; days with no usable anchor at all
// degrade to the sparse points, or to a flat candle around a freshly
// resolved price, which is persisted so later reads see it.
func (e *Engine) BuildCandles(ctx context.Context, symbol string, days []string) []models.Candle {
	s := strings.ToUpper(symbol)
	groups, recordedDays := e.dayGroups(s)

	candles := make([]models.Candle, 0, len(days))
	for _, date := range days {
		points := groups[date]

		var candle models.Candle
		switch {
		case len(points) >= minRealSamples:
			candle = realCandle(date, points)
		default:
			if prev := strictPreviousClose(groups, recordedDays, date); prev != nil {
				candle = e.SynthesizeDay(prev.Close)
				candle.Date = date
			} else if len(points) > 0 {
				candle = realCandle(date, points)
			} else {
				// no data at all: resolve a live/synthetic price and
				// emit a flat candle
				price := e.Resolve(ctx, s)
				if err := e.store.Append(s, models.PricePoint{Time: e.now().UTC(), Price: price}); err != nil {
					log.Printf("failed to record fallback price for %s: %v", s, err)
				}
				candle = models.Candle{Date: date, Open: price, High: price, Low: price, Close: price}
			}
		}
		candles = append(candles, candle)
	}
	return candles
}

func realCandle(date string, points []models.PricePoint) models.Candle {
	s := summarizeDay(date, points)
	return models.Candle{Date: date, Open: s.Open, High: s.High, Low: s.Low, Close: s.Close}
}
