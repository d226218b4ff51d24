package profile

import "time"

// nextStreak applies the calendar-day continuity rule for a session played at
// now. The boolean reports whether the streak was extended.
func nextStreak(streak int, last *time.Time, now time.Time, loc *time.Location) (int, bool) {
	if last == nil {
		return 1, false
	}
	today := day(now, loc)
	lastDay := day(*last, loc)
	switch {
	case lastDay.Equal(today):
		return streak, false
	case lastDay.Equal(today.AddDate(0, 0, -1)):
		return streak + 1, true
	default:
		return 1, false
	}
}

func day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
