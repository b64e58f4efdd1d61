package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/scoring"
)

// ErrCompleted is returned by any mutating call on a submitted attempt.
var ErrCompleted = errors.New("attempt already submitted")

// Phase represents the lifecycle phase of an attempt.
type Phase int

const (
	PhaseActive    Phase = iota // Answering questions
	PhaseCompleted              // Submitted and scored
)

func (p Phase) String() string {
	if p == PhaseCompleted {
		return "completed"
	}
	return "active"
}

// Attempt is one run through an assessment. Its fields are private so the
// only way to change it is through the navigation operations, which keep
// the index in range and the answer set valid.
type Attempt struct {
	id          string
	assessment  assessment.Assessment
	index       int
	answers     assessment.AnswerSet
	phase       Phase
	startedAt   time.Time
	completedAt time.Time
}

// New starts an attempt at a. The attempt id is a fresh UUID.
func New(a assessment.Assessment) *Attempt {
	return newAttempt(uuid.NewString(), a, time.Now().UTC())
}

// Start resolves id through the catalog (unknown ids fall back to the
// default assessment) and starts a new attempt. Prior answers from any
// other attempt are never carried over.
func Start(c *assessment.Catalog, id string) *Attempt {
	return New(c.Get(id))
}

func newAttempt(id string, a assessment.Assessment, startedAt time.Time) *Attempt {
	return &Attempt{
		id:         id,
		assessment: a,
		answers:    make(assessment.AnswerSet, len(a.Questions)),
		phase:      PhaseActive,
		startedAt:  startedAt,
	}
}

// ID returns the attempt id.
func (at *Attempt) ID() string { return at.id }

// Assessment returns the definition being answered.
func (at *Attempt) Assessment() assessment.Assessment { return at.assessment }

// Phase returns the lifecycle phase.
func (at *Attempt) Phase() Phase { return at.phase }

// Completed reports whether the attempt was submitted.
func (at *Attempt) Completed() bool { return at.phase == PhaseCompleted }

// StartedAt returns when the attempt began.
func (at *Attempt) StartedAt() time.Time { return at.startedAt }

// CompletedAt returns when the attempt was submitted, or the zero time.
func (at *Attempt) CompletedAt() time.Time { return at.completedAt }

// Index returns the zero-based position of the current question.
func (at *Attempt) Index() int { return at.index }

// Total returns the number of questions.
func (at *Attempt) Total() int { return len(at.assessment.Questions) }

// Current returns the question at the current index.
func (at *Attempt) Current() assessment.Question {
	return at.assessment.Questions[at.index]
}

// IsLast reports whether the current question is the final one.
func (at *Attempt) IsLast() bool { return at.index == at.Total()-1 }

// Answers returns a copy of the answer set.
func (at *Attempt) Answers() assessment.AnswerSet { return at.answers.Clone() }

// AnsweredCount returns how many questions have an answer.
func (at *Attempt) AnsweredCount() int { return len(at.answers) }

// Selected returns the value chosen for the current question.
func (at *Attempt) Selected() (int, bool) {
	v, ok := at.answers[at.Current().ID]
	return v, ok
}

// Unanswered lists question ids without an answer, in question order.
func (at *Attempt) Unanswered() []int {
	var ids []int
	for _, q := range at.assessment.Questions {
		if _, ok := at.answers[q.ID]; !ok {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Complete reports whether every question has an answer.
func (at *Attempt) Complete() bool { return len(at.answers) == at.Total() }

// Result scores the attempt again. It is only valid once completed.
func (at *Attempt) Result() (scoring.ResultInterpretation, bool) {
	if at.phase != PhaseCompleted {
		return scoring.ResultInterpretation{}, false
	}
	res, err := scoring.Score(at.assessment, at.answers)
	if err != nil {
		return scoring.ResultInterpretation{}, false
	}
	return res, true
}
