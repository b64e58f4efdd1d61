package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var resultColumns = []string{
	"id", "attempt_id", "assessment_id", "assessment_version",
	"total_score", "max_score", "level", "level_label", "level_rank",
	"answers", "alerts", "note", "taken_at",
}

// resultRepo implements ResultRepo with ent's SQL builder.
type resultRepo struct {
	drv *entsql.Driver
}

func (r *resultRepo) Save(ctx context.Context, res *Result) error {
	answers, err := encodeAnswers(res.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	alerts, err := json.Marshal(nonNil(res.Alerts))
	if err != nil {
		return fmt.Errorf("marshal alerts: %w", err)
	}
	takenAt := res.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(tableResults).
		Columns(resultColumns[1:]...).
		Values(
			res.AttemptID, res.AssessmentID, res.AssessmentVersion,
			res.TotalScore, res.MaxScore, res.Level, res.LevelLabel, res.LevelRank,
			string(answers), string(alerts), res.Note, takenAt.UTC(),
		).
		Query()

	var out entsql.Result
	if err := r.drv.Exec(ctx, q, args, &out); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	if id, err := out.LastInsertId(); err == nil {
		res.ID = int(id)
	}
	res.TakenAt = takenAt.UTC()
	return nil
}

func (r *resultRepo) SetNote(ctx context.Context, attemptID, note string) error {
	q, args := entsql.Dialect(dialect.SQLite).
		Update(tableResults).
		Set("note", note).
		Where(entsql.EQ("attempt_id", attemptID)).
		Query()

	var out entsql.Result
	if err := r.drv.Exec(ctx, q, args, &out); err != nil {
		return fmt.Errorf("set note: %w", err)
	}
	if n, err := out.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set note: no result for attempt %s", attemptID)
	}
	return nil
}

func (r *resultRepo) Get(ctx context.Context, attemptID string) (*Result, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(resultColumns...).
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("attempt_id", attemptID)).
		Limit(1)
	list, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *resultRepo) List(ctx context.Context, opts QueryOpts) ([]Result, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(resultColumns...).
		From(entsql.Table(tableResults))

	var preds []*entsql.Predicate
	if opts.AssessmentID != "" {
		preds = append(preds, entsql.EQ("assessment_id", opts.AssessmentID))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("taken_at", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("taken_at", opts.To.UTC()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("taken_at"), entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	list, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return list, nil
}

func (r *resultRepo) Latest(ctx context.Context, assessmentID string) (*Result, error) {
	list, err := r.List(ctx, QueryOpts{AssessmentID: assessmentID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *resultRepo) Count(ctx context.Context) (int, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*")).
		From(entsql.Table(tableResults)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	defer rows.Close()
	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

func (r *resultRepo) DeleteAll(ctx context.Context) error {
	q, args := entsql.Dialect(dialect.SQLite).Delete(tableResults).Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("delete results: %w", err)
	}
	return nil
}

func (r *resultRepo) query(ctx context.Context, sel *entsql.Selector) ([]Result, error) {
	q, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			res             Result
			answers, alerts []byte
		)
		if err := rows.Scan(
			&res.ID, &res.AttemptID, &res.AssessmentID, &res.AssessmentVersion,
			&res.TotalScore, &res.MaxScore, &res.Level, &res.LevelLabel, &res.LevelRank,
			&answers, &alerts, &res.Note, &res.TakenAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var err error
		if res.Answers, err = decodeAnswers(answers); err != nil {
			return nil, fmt.Errorf("decode answers of %s: %w", res.AttemptID, err)
		}
		if len(alerts) > 0 {
			if err := json.Unmarshal(alerts, &res.Alerts); err != nil {
				return nil, fmt.Errorf("decode alerts of %s: %w", res.AttemptID, err)
			}
		}
		res.TakenAt = res.TakenAt.UTC()
		out = append(out, res)
	}
	return out, rows.Err()
}

// encodeAnswers stores answers with string keys, the shape the
// assessment_results.answers JSON column declares.
func encodeAnswers(answers map[int]int) ([]byte, error) {
	m := make(map[string]int, len(answers))
	for k, v := range answers {
		m[strconv.Itoa(k)] = v
	}
	return json.Marshal(m)
}

func decodeAnswers(raw []byte) (map[int]int, error) {
	var m map[string]int
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	out := make(map[int]int, len(m))
	for k, v := range m {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("question id %q: %w", k, err)
		}
		out[id] = v
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
