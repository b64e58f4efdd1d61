package checkin

import (
	"math"
	"sort"
	"time"

	"github.com/mindcheck/mindcheck/internal/assessment"
)

// Status describes an assessment's re-check state for display.
type Status string

const (
	StatusNever   Status = "never"
	StatusNotDue  Status = "not_due"
	StatusDue     Status = "due"
	StatusOverdue Status = "overdue"
)

// Reminder tracks when an assessment should be taken again.
type Reminder struct {
	AssessmentID string
	Title        string
	IntervalDays int
	LastTaken    time.Time // zero when never taken
	NextDue      time.Time // zero when never taken
	order        int
}

// Never reports whether the assessment has no stored result.
func (r Reminder) Never() bool { return r.LastTaken.IsZero() }

// IsDue returns true if the assessment is due (at or past its date, or never taken).
func (r Reminder) IsDue(now time.Time) bool {
	return r.Never() || !now.Before(r.NextDue)
}

// OverdueDays returns how many days past due the assessment is. Returns 0 if
// not yet due or never taken.
func (r Reminder) OverdueDays(now time.Time) float64 {
	if r.Never() || now.Before(r.NextDue) {
		return 0
	}
	return now.Sub(r.NextDue).Hours() / 24.0
}

// DaysUntil returns whole days until the next due date, rounded up. Returns
// 0 when already due.
func (r Reminder) DaysUntil(now time.Time) int {
	if r.IsDue(now) {
		return 0
	}
	return int(math.Ceil(r.NextDue.Sub(now).Hours() / 24.0))
}

// Status returns the display status. An assessment is overdue once it is
// past due by more than half its interval.
func (r Reminder) Status(now time.Time) Status {
	switch {
	case r.Never():
		return StatusNever
	case !r.IsDue(now):
		return StatusNotDue
	case r.OverdueDays(now) > float64(r.IntervalDays)*0.5:
		return StatusOverdue
	default:
		return StatusDue
	}
}

// Reminders builds one reminder per assessment that declares a re-check
// interval. latest maps assessment id to the newest result time. Due
// reminders come first, most overdue first; the rest keep catalog order.
func Reminders(list []assessment.Assessment, latest map[string]time.Time, now time.Time) []Reminder {
	var out []Reminder
	for i, a := range list {
		if a.RecheckDays <= 0 {
			continue
		}
		r := Reminder{
			AssessmentID: a.ID,
			Title:        a.Title,
			IntervalDays: a.RecheckDays,
			order:        i,
		}
		if t, ok := latest[a.ID]; ok && !t.IsZero() {
			r.LastTaken = t
			r.NextDue = t.AddDate(0, 0, a.RecheckDays)
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].IsDue(now), out[j].IsDue(now)
		if di != dj {
			return di
		}
		if di {
			// Taken-but-overdue before never-taken, then by how late.
			ni, nj := out[i].Never(), out[j].Never()
			if ni != nj {
				return !ni
			}
			oi, oj := out[i].OverdueDays(now), out[j].OverdueDays(now)
			if oi != oj {
				return oi > oj
			}
		}
		return out[i].order < out[j].order
	})
	return out
}

// DueCount returns how many reminders are due at now.
func DueCount(rs []Reminder, now time.Time) int {
	n := 0
	for _, r := range rs {
		if r.IsDue(now) {
			n++
		}
	}
	return n
}
