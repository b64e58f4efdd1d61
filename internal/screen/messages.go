package screen

import (
	"github.com/mindcheck/mindcheck/internal/scoring"
	"github.com/mindcheck/mindcheck/internal/session"
	"github.com/mindcheck/mindcheck/internal/store"
)

// Navigation intents. Screens emit these and the app decides which screen
// to build, so screens never import one another.

// StartAttemptMsg opens a questionnaire. Resume, when set, continues a
// saved attempt instead of starting a new one. Replace swaps out the
// current screen instead of pushing on top of it.
type StartAttemptMsg struct {
	AssessmentID string
	Resume       *session.AttemptSnapshot
	Replace      bool
}

// ShowResultMsg replaces the finished questionnaire with its result.
// Previous is the prior result of the same assessment, if any.
type ShowResultMsg struct {
	AttemptID string
	Result    scoring.ResultInterpretation
	Previous  *store.Result
	SaveErr   error
}

// ShowHistoryMsg opens the history screen filtered to AssessmentID
// ("" shows everything).
type ShowHistoryMsg struct {
	AssessmentID string
}

// GoHomeMsg pops back to the home screen.
type GoHomeMsg struct{}

// DataChangedMsg tells the app that stored results changed, so header
// figures should be reloaded.
type DataChangedMsg struct{}
