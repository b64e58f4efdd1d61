// Package questionnaire is the screen that walks through one assessment
// question by question.
package questionnaire

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/mindcheck/mindcheck/internal/logger"
	"github.com/mindcheck/mindcheck/internal/router"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/session"
	"github.com/mindcheck/mindcheck/internal/store"
	"github.com/mindcheck/mindcheck/internal/ui/components"
	"github.com/mindcheck/mindcheck/internal/ui/layout"
)

// QuestionnaireScreen implements screen.Screen for an attempt in progress.
type QuestionnaireScreen struct {
	env         *screen.Env
	attempt     *session.Attempt
	resumed     bool
	staleSnapID string // attempt id of a snapshot that could not be restored
	choices     components.ChoiceList
	confirmQuit bool
	submitting  bool
	leaving     bool
	message     string // recoverable problem shown under the question
	errMsg      string // the attempt could not start
}

var _ screen.Screen = (*QuestionnaireScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionnaireScreen)(nil)
var _ screen.EscapeHandler = (*QuestionnaireScreen)(nil)

// New starts an attempt of assessmentID, or continues resume when it is
// non-nil. A snapshot that no longer matches the catalog is discarded and
// a fresh attempt starts instead.
func New(env *screen.Env, assessmentID string, resume *session.AttemptSnapshot) *QuestionnaireScreen {
	s := &QuestionnaireScreen{env: env}

	if resume != nil {
		at, err := session.Restore(env.Catalog, *resume)
		if err == nil {
			s.attempt = at
			s.resumed = true
			s.syncChoices()
			return s
		}
		logger.Get().Warn("discarding saved attempt",
			zap.String("attempt_id", resume.AttemptID), zap.Error(err))
		s.staleSnapID = resume.AttemptID
		s.message = "Saved progress no longer matches this questionnaire, starting over."
		if assessmentID == "" {
			assessmentID = resume.AssessmentID
		}
	}

	a, err := env.Catalog.Resolve(assessmentID, env.Strict)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.attempt = session.New(a)
	s.syncChoices()
	return s
}

func (s *QuestionnaireScreen) Init() tea.Cmd {
	if s.attempt == nil {
		return nil
	}
	action := store.ActionStart
	if s.resumed {
		action = store.ActionResume
	}
	data := s.eventData(action)
	stale := s.staleSnapID
	return func() tea.Msg {
		ctx := context.Background()
		if stale != "" {
			if err := s.env.Snapshots.Clear(ctx, stale); err != nil {
				logger.Get().Warn("clear stale snapshot", zap.Error(err))
			}
		}
		s.appendEvent(ctx, data)
		return nil
	}
}

func (s *QuestionnaireScreen) Title() string {
	if s.attempt == nil {
		return "Questionnaire"
	}
	return s.attempt.Assessment().Title
}

// HandlesEscape keeps Esc for the leave dialog.
func (s *QuestionnaireScreen) HandlesEscape() bool {
	return s.attempt != nil
}

func (s *QuestionnaireScreen) KeyHints() []layout.KeyHint {
	if s.attempt == nil {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Save & leave"},
			{Key: "R", Description: "Start over"},
			{Key: "N", Description: "Keep going"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "1-9/↑↓", Description: "Choose"},
		{Key: "←→", Description: "Prev/Next"},
	}
	if s.attempt.Controls().ShowSubmit {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Submit"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
}

func (s *QuestionnaireScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}
	if s.confirmQuit {
		return s.renderQuitConfirm(width, height)
	}
	return s.renderQuestionView(width, height)
}

func (s *QuestionnaireScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotSavedMsg:
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuestionnaireScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.submitting || s.leaving {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.leave()
		case "r", "R":
			s.confirmQuit = false
			return s, s.restart()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "up", "k", "down", "j":
		s.choices, _ = s.choices.Update(msg)
		return s, nil
	case "enter", "space":
		s.choose(s.choices.Cursor)
		return s, nil
	case "right", "l", "tab":
		s.next()
		return s, nil
	case "left", "h", "shift+tab":
		s.message = ""
		_ = s.attempt.Previous()
		s.syncChoices()
		return s, nil
	case "u":
		s.message = ""
		s.attempt.JumpToFirstUnanswered()
		s.syncChoices()
		return s, nil
	case "s", "S":
		return s.submit()
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(s.attempt.Current().Options) {
			s.choose(i)
		}
	}
	return s, nil
}

// choose records option i and moves on unless this is the last question.
func (s *QuestionnaireScreen) choose(i int) {
	if err := s.attempt.SelectOption(i); err != nil {
		s.message = err.Error()
		return
	}
	s.message = ""
	if !s.attempt.IsLast() {
		_ = s.attempt.Next()
	}
	s.syncChoices()
}

func (s *QuestionnaireScreen) next() {
	if s.attempt.IsLast() {
		return
	}
	if err := s.attempt.Next(); err != nil {
		s.message = err.Error()
		return
	}
	s.message = ""
	s.syncChoices()
}

// syncChoices rebuilds the option list for the current question.
func (s *QuestionnaireScreen) syncChoices() {
	q := s.attempt.Current()
	labels := make([]string, len(q.Options))
	for i, o := range q.Options {
		labels[i] = o.Text
	}
	chosen := -1
	if v, ok := s.attempt.Selected(); ok {
		chosen = q.OptionIndex(v)
	}
	s.choices = components.NewChoiceList(labels, chosen)
}

// submit scores the attempt. Persisting happens in a command that ends
// with a ShowResultMsg for the app.
func (s *QuestionnaireScreen) submit() (screen.Screen, tea.Cmd) {
	res, err := s.attempt.Submit()
	if err != nil {
		s.message = err.Error()
		return s, nil
	}
	s.submitting = true
	s.message = ""

	at := s.attempt
	env := s.env
	return s, func() tea.Msg {
		ctx := context.Background()
		log := logger.Get()

		prev, err := env.Results.Latest(ctx, res.AssessmentID)
		if err != nil {
			log.Warn("load previous result", zap.Error(err))
			prev = nil
		}

		rec := store.NewResult(at.ID(), res, at.Answers(), at.CompletedAt())
		saveErr := env.Results.Save(ctx, &rec)
		if saveErr != nil {
			log.Error("save result", zap.String("attempt_id", at.ID()), zap.Error(saveErr))
		} else {
			log.Info("result saved",
				zap.String("attempt_id", at.ID()),
				zap.String("assessment_id", res.AssessmentID),
				zap.Int("total", res.TotalScore),
				zap.String("level", res.Level.ID))
		}

		if err := env.Snapshots.Clear(ctx, at.ID()); err != nil {
			log.Warn("clear snapshot", zap.Error(err))
		}
		total := res.TotalScore
		data := store.SessionEventData{
			AttemptID:    at.ID(),
			AssessmentID: res.AssessmentID,
			Action:       store.ActionSubmit,
			Answered:     at.AnsweredCount(),
			TotalScore:   &total,
		}
		s.appendEvent(ctx, data)

		return screen.ShowResultMsg{
			AttemptID: at.ID(),
			Result:    res,
			Previous:  prev,
			SaveErr:   saveErr,
		}
	}
}

// leave saves the attempt so it can be resumed, then pops the screen.
// An attempt with no answers leaves nothing behind. The snapshot is taken
// here; input is ignored until the screen is gone.
func (s *QuestionnaireScreen) leave() tea.Cmd {
	s.leaving = true
	env := s.env
	snap := s.attempt.Snapshot()
	data := s.eventData(store.ActionAbandon)
	return func() tea.Msg {
		ctx := context.Background()
		err := saveSnapshot(ctx, env, snap)
		if err != nil {
			logger.Get().Error("save snapshot", zap.String("attempt_id", snap.AttemptID), zap.Error(err))
		}
		s.appendEvent(ctx, data)
		return snapshotSavedMsg{Err: err}
	}
}

// restart discards the current answers and starts a fresh attempt.
func (s *QuestionnaireScreen) restart() tea.Cmd {
	old := s.attempt
	abandon := s.eventData(store.ActionAbandon)

	s.attempt = session.New(old.Assessment())
	s.resumed = false
	s.message = ""
	s.syncChoices()
	start := s.eventData(store.ActionStart)

	return func() tea.Msg {
		ctx := context.Background()
		if err := s.env.Snapshots.Clear(ctx, old.ID()); err != nil {
			logger.Get().Warn("clear snapshot", zap.Error(err))
		}
		s.appendEvent(ctx, abandon)
		s.appendEvent(ctx, start)
		return nil
	}
}

func saveSnapshot(ctx context.Context, env *screen.Env, snap session.AttemptSnapshot) error {
	if len(snap.Answers) == 0 {
		return env.Snapshots.Clear(ctx, snap.AttemptID)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	err = env.Snapshots.Save(ctx, &store.Snapshot{
		Timestamp:    time.Now(),
		AttemptID:    snap.AttemptID,
		AssessmentID: snap.AssessmentID,
		Data:         data,
	})
	if err != nil {
		return err
	}
	if env.SnapshotKeep > 0 {
		return env.Snapshots.Prune(ctx, env.SnapshotKeep)
	}
	return nil
}

func (s *QuestionnaireScreen) eventData(action string) store.SessionEventData {
	return store.SessionEventData{
		AttemptID:    s.attempt.ID(),
		AssessmentID: s.attempt.Assessment().ID,
		Action:       action,
		Answered:     s.attempt.AnsweredCount(),
	}
}

func (s *QuestionnaireScreen) appendEvent(ctx context.Context, data store.SessionEventData) {
	if s.env.Events == nil {
		return
	}
	if err := s.env.Events.AppendSessionEvent(ctx, data); err != nil && !errors.Is(err, context.Canceled) {
		logger.Get().Warn("append session event",
			zap.String("action", data.Action), zap.Error(err))
	}
}
