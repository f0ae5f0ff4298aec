package account

import "time"

// advanceStreak applies one day of activity to stats as of now. Days are
// compared in now's location: activity yesterday extends the streak,
// activity earlier today leaves it alone, anything older restarts it at 1.
// The longest streak never decreases.
func advanceStreak(stats LearningStats, now time.Time) (current, longest int) {
	current, longest = stats.CurrentStreak, stats.LongestStreak

	today := startOfDay(now)
	last := startOfDay(stats.LastActivity.In(now.Location()))
	switch {
	case last.Equal(today):
		return current, longest
	case last.Equal(today.AddDate(0, 0, -1)):
		current++
	default:
		current = 1
	}
	if current > longest {
		longest = current
	}
	return current, longest
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
