package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var total any
	if data.TotalScore != nil {
		total = *data.TotalScore
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSessionEvents).
		Columns("sequence", "timestamp", "attempt_id", "assessment_id", "action", "answered", "total_score").
		Values(seqNum, time.Now().UTC(), data.AttemptID, data.AssessmentID, data.Action, data.Answered, total).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "attempt_id", "assessment_id", "action", "answered", "total_score").
		From(entsql.Table(tableSessionEvents))

	var preds []*entsql.Predicate
	if opts.AssessmentID != "" {
		preds = append(preds, entsql.EQ("assessment_id", opts.AssessmentID))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Asc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	q, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var (
			ev    SessionEvent
			total sql.NullInt64
		)
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.AttemptID, &ev.AssessmentID,
			&ev.Action, &ev.Answered, &total); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		if total.Valid {
			v := int(total.Int64)
			ev.TotalScore = &v
		}
		ev.Timestamp = ev.Timestamp.UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
