// Package stats computes view-ready aggregates from locally cached
// check-in records: streaks, completion rates, calendar grids, trend
// series. Every function is pure; callers fetch and cache the records.
package stats

import (
	"time"

	"github.com/cairnapp/cairn/pkg/types"
)

// ParseDay parses a YYYY-MM-DD calendar day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(types.DayFormat, s)
}

// FormatDay formats t as a YYYY-MM-DD calendar day.
func FormatDay(t time.Time) string {
	return t.Format(types.DayFormat)
}

// DaysBetween returns the absolute number of calendar days between a and
// b, ignoring time of day.
func DaysBetween(a, b time.Time) int {
	a = truncateDay(a)
	b = truncateDay(b)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// DateRange enumerates every calendar day from start to end inclusive.
// A single day yields a one-element result; start after end, or an
// unparseable bound, yields an empty result. The walk always terminates.
func DateRange(start, end string) []string {
	s, err := ParseDay(start)
	if err != nil {
		return nil
	}
	e, err := ParseDay(end)
	if err != nil {
		return nil
	}
	if s.After(e) {
		return nil
	}

	dates := make([]string, 0, DaysBetween(s, e)+1)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDay(d))
	}
	return dates
}

// WeekRange returns the first and last day of the week containing t.
// weekStart is 1 for Monday-based weeks, 0 for Sunday-based.
func WeekRange(t time.Time, weekStart int) (string, string) {
	t = truncateDay(t)
	offset := (int(t.Weekday()) - weekStart + 7) % 7
	start := t.AddDate(0, 0, -offset)
	return FormatDay(start), FormatDay(start.AddDate(0, 0, 6))
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return FormatDay(first), FormatDay(first.AddDate(0, 1, -1))
}

// YearRange returns the first and last day of the calendar year
// containing t.
func YearRange(t time.Time) (string, string) {
	return FormatDay(time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)),
		FormatDay(time.Date(t.Year(), 12, 31, 0, 0, 0, 0, time.UTC))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
