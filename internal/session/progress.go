package session

import "math"

// Controls tells the presentation layer which navigation actions apply.
type Controls struct {
	CanPrevious bool // index > 0
	CanNext     bool // current question answered and not last
	ShowNext    bool // not on the last question
	ShowSubmit  bool // on the last question
	CanSubmit   bool // every question answered
}

// Progress returns (index+1)/total, in (0, 1].
func (at *Attempt) Progress() float64 {
	return float64(at.index+1) / float64(at.Total())
}

// ProgressPercent returns Progress as a rounded percentage.
func (at *Attempt) ProgressPercent() int {
	return int(math.Round(at.Progress() * 100))
}

// Controls derives the navigation flags for the current state.
func (at *Attempt) Controls() Controls {
	if at.phase == PhaseCompleted {
		return Controls{}
	}
	_, answered := at.Selected()
	last := at.IsLast()
	return Controls{
		CanPrevious: at.index > 0,
		CanNext:     answered && !last,
		ShowNext:    !last,
		ShowSubmit:  last,
		CanSubmit:   at.Complete(),
	}
}
