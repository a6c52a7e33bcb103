package stats

import (
	"time"

	"github.com/cairnapp/cairn/pkg/types"
)

// Cell is one day slot of a calendar grid, produced fresh per render and
// never persisted. Empty padding slots are nil cells.
type Cell struct {
	Day        int            `json:"day"`
	Date       string         `json:"full_date"`
	IsToday    bool           `json:"is_today"`
	IsWeekend  bool           `json:"is_weekend"`
	HasCheckin bool           `json:"has_checkin"`
	Checkin    *types.Checkin `json:"checkin,omitempty"`
}

// Calendar produces the week rows for the given month: each row has
// exactly 7 slots, Sunday first, nil-padded before the first day of the
// month and after the last, and every day of the month appears exactly
// once. today marks the IsToday cell; checkins, keyed by calendar day,
// fill HasCheckin and the joined record.
func Calendar(year int, month time.Month, today time.Time, checkins map[string]types.Checkin) [][]*Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	todayStr := FormatDay(today)

	var weeks [][]*Cell
	week := make([]*Cell, 0, 7)

	for i := 0; i < int(first.Weekday()); i++ {
		week = append(week, nil)
	}

	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		cell := &Cell{
			Day:       day,
			Date:      FormatDay(date),
			IsToday:   FormatDay(date) == todayStr,
			IsWeekend: date.Weekday() == time.Sunday || date.Weekday() == time.Saturday,
		}
		if c, ok := checkins[cell.Date]; ok {
			cell.HasCheckin = true
			checkin := c
			cell.Checkin = &checkin
		}
		week = append(week, cell)

		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]*Cell, 0, 7)
		}
	}

	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}

	return weeks
}
