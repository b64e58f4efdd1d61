package screen

import (
	"time"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/store"
)

// Env carries what screens need from the outside world.
type Env struct {
	Catalog   *assessment.Catalog
	Results   store.ResultRepo
	Snapshots store.SnapshotRepo
	Events    store.EventRepo

	// Strict makes unknown assessment ids an error instead of falling
	// back to the catalog default.
	Strict bool

	HistoryLimit int
	SnapshotKeep int

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Clock returns the current time from Now, or time.Now.
func (e *Env) Clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
