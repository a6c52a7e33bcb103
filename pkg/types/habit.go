package types

// DayFormat is the calendar-day layout used everywhere a date identifies
// a day rather than an instant.
const DayFormat = "2006-01-02"

// Habit is a remote-sourced habit record. The remote service is the
// system of record; local copies are read-mostly cache material.
type Habit struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Frequency    string `json:"frequency"`
	ReminderTime string `json:"reminder_time"`
	StreakDays   int    `json:"streak_days"`
}

// Checkin records one completion of a habit on a calendar day.
// Date carries no time component; the time of day lives in Time.
type Checkin struct {
	ID      string `json:"id,omitempty"`
	HabitID string `json:"habit_id"`
	Date    string `json:"checkin_date"`
	Time    string `json:"checkin_time,omitempty"`
	Note    string `json:"note,omitempty"`
	Image   string `json:"image,omitempty"`
}

// CheckinKey is the natural key of a check-in. Re-submitting a check-in
// with the same key is treated by the remote service as a no-op or
// update-in-place, which is what makes at-least-once queue delivery safe.
type CheckinKey struct {
	HabitID string
	Date    string
}

// Key returns the natural key of the check-in.
func (c Checkin) Key() CheckinKey {
	return CheckinKey{HabitID: c.HabitID, Date: c.Date}
}
