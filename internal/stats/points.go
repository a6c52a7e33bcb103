package stats

// Point formulas for check-in rewards. The award flow itself is remote;
// these mirror the remote's arithmetic so the client can show the number
// immediately.
const (
	basePoints   = 10
	weeklyBonus  = 50
	monthlyBonus = 200

	// MakeupCost is the point price of a retroactive check-in.
	MakeupCost = 20
)

// CheckinPoints returns the points earned by a check-in that brings the
// streak to streakDays: a base award plus bonuses on every 7th and every
// 30th consecutive day.
func CheckinPoints(streakDays int) int {
	points := basePoints
	if streakDays > 0 && streakDays%7 == 0 {
		points += weeklyBonus
	}
	if streakDays > 0 && streakDays%30 == 0 {
		points += monthlyBonus
	}
	return points
}
