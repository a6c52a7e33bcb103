package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cairnapp/cairn/pkg/types"
)

func TestCalendarFebruary2024(t *testing.T) {
	today := day("2024-02-15")
	weeks := Calendar(2024, time.February, today, nil)

	// 29 days starting on a Thursday fit in exactly 5 rows.
	require.Len(t, weeks, 5)
	for i, w := range weeks {
		assert.Len(t, w, 7, "row %d", i)
	}

	// First row: four leading empty slots, then days 1-3.
	first := weeks[0]
	for i := 0; i < 4; i++ {
		assert.Nil(t, first[i], "slot %d", i)
	}
	assert.Equal(t, 1, first[4].Day)
	assert.Equal(t, 2, first[5].Day)
	assert.Equal(t, 3, first[6].Day)

	// Last row ends with day 29 followed by empty slots.
	last := weeks[4]
	assert.Equal(t, 29, last[4].Day)
	assert.Nil(t, last[5])
	assert.Nil(t, last[6])

	// Every day appears exactly once.
	seen := map[int]int{}
	for _, w := range weeks {
		for _, c := range w {
			if c != nil {
				seen[c.Day]++
			}
		}
	}
	assert.Len(t, seen, 29)
	for d, n := range seen {
		assert.Equal(t, 1, n, "day %d", d)
	}
}

func TestCalendarCellFlags(t *testing.T) {
	today := day("2024-02-15")
	checkins := map[string]types.Checkin{
		"2024-02-10": {HabitID: "h1", Date: "2024-02-10", Note: "done"},
	}
	weeks := Calendar(2024, time.February, today, checkins)

	var cells []*Cell
	for _, w := range weeks {
		for _, c := range w {
			if c != nil {
				cells = append(cells, c)
			}
		}
	}

	byDay := map[int]*Cell{}
	for _, c := range cells {
		byDay[c.Day] = c
	}

	assert.True(t, byDay[15].IsToday)
	assert.False(t, byDay[14].IsToday)

	// Feb 10 2024 is a Saturday, Feb 11 a Sunday, Feb 12 a Monday.
	assert.True(t, byDay[10].IsWeekend)
	assert.True(t, byDay[11].IsWeekend)
	assert.False(t, byDay[12].IsWeekend)

	assert.True(t, byDay[10].HasCheckin)
	require.NotNil(t, byDay[10].Checkin)
	assert.Equal(t, "done", byDay[10].Checkin.Note)
	assert.False(t, byDay[9].HasCheckin)

	assert.Equal(t, "2024-02-10", byDay[10].Date)
}

func TestCalendarMonthStartingOnSunday(t *testing.T) {
	// September 2024 starts on a Sunday: no leading padding.
	weeks := Calendar(2024, time.September, day("2024-09-01"), nil)
	require.NotEmpty(t, weeks)
	assert.Equal(t, 1, weeks[0][0].Day)

	// 30 days from a Sunday: last row is days 29-30 plus five empty slots.
	last := weeks[len(weeks)-1]
	assert.Equal(t, 30, last[1].Day)
	assert.Nil(t, last[2])
}

func TestCalendarMonthEndingOnSaturday(t *testing.T) {
	// August 2024 ends on Saturday the 31st, so the final row is full
	// and no all-empty row is appended.
	weeks := Calendar(2024, time.August, day("2024-08-01"), nil)
	last := weeks[len(weeks)-1]
	assert.Equal(t, 31, last[6].Day)
	for _, w := range weeks {
		nonEmpty := false
		for _, c := range w {
			if c != nil {
				nonEmpty = true
			}
		}
		assert.True(t, nonEmpty, "no row is entirely empty")
	}
}
