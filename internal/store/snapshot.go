package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with ent's SQL builder.
type snapshotRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		snap.Sequence = seq
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}
	snap.Timestamp = snap.Timestamp.UTC()

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSnapshots).
		Columns("sequence", "timestamp", "attempt_id", "assessment_id", "data").
		Values(snap.Sequence, snap.Timestamp, snap.AttemptID, snap.AssessmentID, string(snap.Data)).
		Query()

	var out entsql.Result
	if err := r.drv.Exec(ctx, q, args, &out); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := out.LastInsertId(); err == nil {
		snap.ID = int(id)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "attempt_id", "assessment_id", "data").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("sequence"), entsql.Desc("id")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var s Snapshot
	if err := rows.Scan(&s.ID, &s.Sequence, &s.Timestamp, &s.AttemptID, &s.AssessmentID, &s.Data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	s.Timestamp = s.Timestamp.UTC()
	return &s, nil
}

func (r *snapshotRepo) Clear(ctx context.Context, attemptID string) error {
	q, args := entsql.Dialect(dialect.SQLite).
		Delete(tableSnapshots).
		Where(entsql.EQ("attempt_id", attemptID)).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the sequence threshold: the (keep+1)th most recent snapshot.
	q, args := entsql.Dialect(dialect.SQLite).
		Select("sequence").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if !found {
		return nil // fewer than keep snapshots exist
	}

	q, args = entsql.Dialect(dialect.SQLite).
		Delete(tableSnapshots).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
