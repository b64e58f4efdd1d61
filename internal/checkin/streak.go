package checkin

import (
	"sort"
	"time"
)

// Streak counts consecutive local calendar days with at least one completed
// assessment.
type Streak struct {
	Current int       // run ending today or yesterday, else 0
	Longest int       // longest run ever
	LastDay time.Time // most recent check-in day (local midnight), zero if none
}

// Active reports whether the user has checked in today.
func (s Streak) Active(now time.Time) bool {
	return !s.LastDay.IsZero() && s.LastDay.Equal(day(now, now.Location()))
}

// ComputeStreak derives the streak from result timestamps. Days are taken
// in now's location so a late-evening check-in counts for the local day.
func ComputeStreak(takenAt []time.Time, now time.Time) Streak {
	loc := now.Location()
	seen := make(map[time.Time]bool, len(takenAt))
	var days []time.Time
	for _, t := range takenAt {
		d := day(t, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return Streak{}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var s Streak
	run := 0
	for i, d := range days {
		if i > 0 && d.Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
	}
	s.LastDay = days[len(days)-1]

	today := day(now, loc)
	if s.LastDay.Equal(today) || s.LastDay.Equal(today.AddDate(0, 0, -1)) {
		s.Current = run
	}
	return s
}

// NextMilestone returns the next streak length worth celebrating.
func NextMilestone(current int) int {
	milestones := []int{3, 7, 14, 30}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond a month, every 30 days.
	return ((current / 30) + 1) * 30
}

func day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
