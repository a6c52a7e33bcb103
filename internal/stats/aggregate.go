package stats

import (
	"sort"
	"time"

	"github.com/cairnapp/cairn/pkg/types"
)

// HabitStat is the per-habit aggregate for a reporting period.
type HabitStat struct {
	Habit          types.Habit `json:"habit"`
	CheckinDays    int         `json:"checkin_days"`
	TotalDays      int         `json:"total_days"`
	CompletionRate int         `json:"completion_rate"`
	StreakDays     int         `json:"streak_days"`
}

// RankHabits computes per-habit aggregates over the inclusive period
// start..end and returns them sorted by completion rate, best first.
// checkins maps habit ID to that habit's records; anchor seeds the
// streak walk.
func RankHabits(habits []types.Habit, checkins map[string][]types.Checkin, start, end string, anchor time.Time) []HabitStat {
	total := len(DateRange(start, end))
	out := make([]HabitStat, 0, len(habits))
	for _, h := range habits {
		recs := checkins[h.ID]
		out = append(out, HabitStat{
			Habit:          h,
			CheckinDays:    CheckinDays(recs),
			TotalDays:      total,
			CompletionRate: CompletionRate(CheckinDays(recs), start, end),
			StreakDays:     Streak(recs, anchor),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletionRate > out[j].CompletionRate
	})
	return out
}

// TrendPoint is one day of a trend chart: the number of check-ins
// recorded on that date.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Trend counts check-ins per day over the inclusive period start..end,
// one point per day whether or not anything was recorded.
func Trend(checkins []types.Checkin, start, end string) []TrendPoint {
	counts := make(map[string]int, len(checkins))
	for _, c := range checkins {
		counts[c.Date]++
	}
	dates := DateRange(start, end)
	points := make([]TrendPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, TrendPoint{Date: d, Count: counts[d]})
	}
	return points
}

// CategoryStat is the rollup of every habit sharing a category.
type CategoryStat struct {
	Category       string `json:"category"`
	Habits         int    `json:"habits"`
	TotalCheckins  int    `json:"total_checkins"`
	CompletionRate int    `json:"completion_rate"`
}

// Categories rolls habits up by category over the inclusive period
// start..end, sorted by aggregate completion rate, best first. A habit
// without a category lands in "other". The aggregate rate is total
// check-in days against habit-count times period length.
func Categories(habits []types.Habit, checkins map[string][]types.Checkin, start, end string) []CategoryStat {
	totalDays := len(DateRange(start, end))

	byCategory := make(map[string]*CategoryStat)
	var order []string
	for _, h := range habits {
		cat := h.Category
		if cat == "" {
			cat = "other"
		}
		st, ok := byCategory[cat]
		if !ok {
			st = &CategoryStat{Category: cat}
			byCategory[cat] = st
			order = append(order, cat)
		}
		st.Habits++
		st.TotalCheckins += CheckinDays(checkins[h.ID])
	}

	out := make([]CategoryStat, 0, len(order))
	for _, cat := range order {
		st := byCategory[cat]
		if totalDays > 0 && st.Habits > 0 {
			st.CompletionRate = roundPercent(st.TotalCheckins, st.Habits*totalDays)
		}
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletionRate > out[j].CompletionRate
	})
	return out
}

func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(float64(part)/float64(whole)*100 + 0.5)
}
