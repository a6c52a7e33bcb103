package stats

import (
	"math"
	"sort"
	"time"

	"github.com/cairnapp/cairn/pkg/types"
)

// Streak returns the number of consecutive check-in days ending at or
// just before anchor. The walk starts from the most recent check-in and
// counts backward while the gap between successive days (and between the
// first day and the anchor) is at most one day; the first larger gap
// ends the streak.
//
// The anchor is explicit rather than read from the clock: a live
// as-of-today streak is Streak(checkins, time.Now()), and the caller
// owns the day-boundary behavior that implies.
func Streak(checkins []types.Checkin, anchor time.Time) int {
	days := uniqueDays(checkins)
	if len(days) == 0 {
		return 0
	}
	// Descending, most recent first.
	sort.Sort(sort.Reverse(byDay(days)))

	streak := 0
	current := truncateDay(anchor)
	for _, d := range days {
		if DaysBetween(d, current) > 1 {
			break
		}
		streak++
		current = d
	}
	return streak
}

// BestStreak returns the longest run of consecutive check-in days
// anywhere in the record, regardless of the anchor.
func BestStreak(checkins []types.Checkin) int {
	days := uniqueDays(checkins)
	if len(days) == 0 {
		return 0
	}
	sort.Sort(byDay(days))

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// CompletionRate returns round(checkinDays / totalDays * 100) for the
// inclusive period start..end. An inverted or unparseable period yields
// zero; the helpers in this package only construct ranges with
// start <= end.
func CompletionRate(checkinDays int, start, end string) int {
	s, err := ParseDay(start)
	if err != nil {
		return 0
	}
	e, err := ParseDay(end)
	if err != nil {
		return 0
	}
	if s.After(e) {
		return 0
	}
	total := DaysBetween(s, e) + 1
	return int(math.Round(float64(checkinDays) / float64(total) * 100))
}

// CheckinDays returns the number of distinct check-in days in the
// record, the numerator of CompletionRate.
func CheckinDays(checkins []types.Checkin) int {
	return len(uniqueDays(checkins))
}

// uniqueDays extracts the distinct, parseable calendar days of the
// record. Malformed dates are dropped rather than breaking the walk.
func uniqueDays(checkins []types.Checkin) []time.Time {
	seen := make(map[string]bool, len(checkins))
	days := make([]time.Time, 0, len(checkins))
	for _, c := range checkins {
		if seen[c.Date] {
			continue
		}
		d, err := ParseDay(c.Date)
		if err != nil {
			continue
		}
		seen[c.Date] = true
		days = append(days, d)
	}
	return days
}

type byDay []time.Time

func (d byDay) Len() int           { return len(d) }
func (d byDay) Swap(i, j int)      { d[i], d[j] = d[j], d[i] }
func (d byDay) Less(i, j int) bool { return d[i].Before(d[j]) }
