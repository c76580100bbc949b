package engine

import "time"

const dayKeyLayout = "2006-01-02"

// DayKey buckets a timestamp into its UTC calendar day. Every piece of
// day-grouping logic (candle building, previous/next close, intraday
// sessions) derives its day keys through this one function.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// ParseDayKey converts a calendar-day key back to midnight UTC.
func ParseDayKey(key string) (time.Time, error) {
	return time.Parse(dayKeyLayout, key)
}
