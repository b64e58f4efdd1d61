package store

import (
	"context"
	"time"

	"github.com/mindcheck/mindcheck/internal/scoring"
)

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	AssessmentID string    // only this assessment ("" = all)
	Limit        int       // max results (0 = unlimited)
	After        int64     // sequence > After (events only)
	From         time.Time // timestamp >= From
	To           time.Time // timestamp <= To
}

// Result is a stored, scored attempt.
type Result struct {
	ID                int
	AttemptID         string
	AssessmentID      string
	AssessmentVersion string
	TotalScore        int
	MaxScore          int
	Level             string
	LevelLabel        string
	LevelRank         int
	Answers           map[int]int
	Alerts            []string
	Note              string
	TakenAt           time.Time
}

// NewResult builds the stored form of a scored attempt.
func NewResult(attemptID string, res scoring.ResultInterpretation, answers map[int]int, takenAt time.Time) Result {
	return Result{
		AttemptID:         attemptID,
		AssessmentID:      res.AssessmentID,
		AssessmentVersion: res.AssessmentVersion,
		TotalScore:        res.TotalScore,
		MaxScore:          res.MaxScore,
		Level:             res.Level.ID,
		LevelLabel:        res.Level.Label,
		LevelRank:         res.Level.Rank,
		Answers:           answers,
		Alerts:            res.Alerts,
		TakenAt:           takenAt,
	}
}

// ResultRepo stores completed attempts.
type ResultRepo interface {
	// Save inserts a result. AttemptID must be unique.
	Save(ctx context.Context, r *Result) error

	// SetNote replaces the note attached to a result.
	SetNote(ctx context.Context, attemptID, note string) error

	// Get returns the result for an attempt, or nil if none exists.
	Get(ctx context.Context, attemptID string) (*Result, error)

	// List returns results newest first.
	List(ctx context.Context, opts QueryOpts) ([]Result, error)

	// Latest returns the newest result for an assessment, or nil.
	Latest(ctx context.Context, assessmentID string) (*Result, error)

	// Count returns the number of stored results.
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every result.
	DeleteAll(ctx context.Context) error
}

// Snapshot is a saved, unfinished attempt. Data is the JSON form of
// session.AttemptSnapshot; the store does not interpret it.
type Snapshot struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	AttemptID    string
	AssessmentID string
	Data         []byte
}

// SnapshotRepo manages unfinished-attempt snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Clear deletes all snapshots of an attempt.
	Clear(ctx context.Context, attemptID string) error

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// Session event actions.
const (
	ActionStart   = "start"
	ActionResume  = "resume"
	ActionSubmit  = "submit"
	ActionAbandon = "abandon"
)

// SessionEventData captures one attempt lifecycle event.
type SessionEventData struct {
	AttemptID    string
	AssessmentID string
	Action       string
	Answered     int
	TotalScore   *int
}

// SessionEvent is a stored lifecycle event.
type SessionEvent struct {
	SessionEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to lifecycle events.
type EventRepo interface {
	// AppendSessionEvent records an attempt lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns events in sequence order.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)
}
