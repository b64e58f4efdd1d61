package session

import (
	"fmt"
	"time"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/scoring"
)

// SelectAnswer records value for the current question. questionID must be
// the current question's id and value one of its option values; otherwise
// a *assessment.ValidationError is returned and nothing changes.
func (at *Attempt) SelectAnswer(questionID, value int) error {
	if at.phase == PhaseCompleted {
		return ErrCompleted
	}
	q := at.Current()
	if questionID != q.ID {
		return &assessment.ValidationError{
			Field:   "question",
			Message: fmt.Sprintf("question %d is not the current question (%d)", questionID, q.ID),
		}
	}
	if !q.HasValue(value) {
		return &assessment.ValidationError{
			Field:   fmt.Sprintf("question %d", q.ID),
			Message: fmt.Sprintf("%d is not a valid option", value),
		}
	}
	at.answers[q.ID] = value
	return nil
}

// SelectOption answers the current question with the option at position i.
func (at *Attempt) SelectOption(i int) error {
	q := at.Current()
	if i < 0 || i >= len(q.Options) {
		return &assessment.ValidationError{
			Field:   fmt.Sprintf("question %d", q.ID),
			Message: fmt.Sprintf("option %d out of range", i+1),
		}
	}
	return at.SelectAnswer(q.ID, q.Options[i].Value)
}

// Next moves to the following question. It is refused while the current
// question is unanswered and does nothing on the last question.
func (at *Attempt) Next() error {
	if at.phase == PhaseCompleted {
		return ErrCompleted
	}
	if _, ok := at.Selected(); !ok {
		return &assessment.ValidationError{
			Field:   fmt.Sprintf("question %d", at.Current().ID),
			Message: "please answer this question",
		}
	}
	if !at.IsLast() {
		at.index++
	}
	return nil
}

// Previous moves back one question. It does nothing at the first question.
func (at *Attempt) Previous() error {
	if at.phase == PhaseCompleted {
		return ErrCompleted
	}
	if at.index > 0 {
		at.index--
	}
	return nil
}

// Submit scores the attempt. An incomplete attempt returns a
// *assessment.ValidationError listing the unanswered questions and stays
// exactly as it was.
func (at *Attempt) Submit() (scoring.ResultInterpretation, error) {
	if at.phase == PhaseCompleted {
		return scoring.ResultInterpretation{}, ErrCompleted
	}
	if missing := at.Unanswered(); len(missing) > 0 {
		return scoring.ResultInterpretation{}, assessment.IncompleteError(missing)
	}
	res, err := scoring.Score(at.assessment, at.answers)
	if err != nil {
		return scoring.ResultInterpretation{}, err
	}
	at.phase = PhaseCompleted
	at.completedAt = time.Now().UTC()
	return res, nil
}

// JumpToFirstUnanswered moves to the earliest unanswered question, or to
// the last question when everything is answered.
func (at *Attempt) JumpToFirstUnanswered() {
	if at.phase == PhaseCompleted {
		return
	}
	for i, q := range at.assessment.Questions {
		if _, ok := at.answers[q.ID]; !ok {
			at.index = i
			return
		}
	}
	at.index = at.Total() - 1
}
