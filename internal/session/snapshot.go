package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/mindcheck/mindcheck/internal/assessment"
)

// ErrStaleSnapshot is returned when a snapshot was taken under a different
// major version of its assessment.
var ErrStaleSnapshot = errors.New("snapshot is from an incompatible assessment version")

// AttemptSnapshot is the persisted form of an unfinished attempt.
type AttemptSnapshot struct {
	AttemptID         string      `json:"attempt_id"`
	AssessmentID      string      `json:"assessment_id"`
	AssessmentVersion string      `json:"assessment_version"`
	Index             int         `json:"index"`
	Answers           map[int]int `json:"answers"`
	StartedAt         time.Time   `json:"started_at"`
}

// Snapshot captures the attempt so it can be resumed later.
func (at *Attempt) Snapshot() AttemptSnapshot {
	return AttemptSnapshot{
		AttemptID:         at.id,
		AssessmentID:      at.assessment.ID,
		AssessmentVersion: at.assessment.Version,
		Index:             at.index,
		Answers:           at.answers.Clone(),
		StartedAt:         at.startedAt,
	}
}

// Restore rebuilds an attempt from a snapshot. The assessment must still
// exist with the same major version. Answers that no longer match a
// question or option are dropped, and the index is clamped into range.
func Restore(c *assessment.Catalog, snap AttemptSnapshot) (*Attempt, error) {
	a, err := c.Lookup(snap.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("restore attempt: %w", err)
	}
	if semver.Major(a.Version) != semver.Major(snap.AssessmentVersion) {
		return nil, fmt.Errorf("restore attempt %s: %w (have %s, snapshot %s)",
			snap.AttemptID, ErrStaleSnapshot, a.Version, snap.AssessmentVersion)
	}

	id := snap.AttemptID
	if id == "" {
		id = uuid.NewString()
	}
	startedAt := snap.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	at := newAttempt(id, a, startedAt)
	for qid, v := range snap.Answers {
		q, ok := a.Question(qid)
		if !ok || !q.HasValue(v) {
			continue
		}
		at.answers[qid] = v
	}

	at.index = snap.Index
	if at.index < 0 {
		at.index = 0
	}
	if at.index >= at.Total() {
		at.index = at.Total() - 1
	}
	return at, nil
}
