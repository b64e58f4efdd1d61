package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(attemptID, assessmentID string, total int, at time.Time) *Result {
	return &Result{
		AttemptID:         attemptID,
		AssessmentID:      assessmentID,
		AssessmentVersion: "v1.0.0",
		TotalScore:        total,
		MaxScore:          21,
		Level:             "mild",
		LevelLabel:        "Mild",
		LevelRank:         1,
		Answers:           map[int]int{1: 1, 2: 2, 3: 0},
		TakenAt:           at,
	}
}

func TestResultSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	got, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	at := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	r := sampleResult("a-1", "phq9", 12, at)
	r.Alerts = []string{"call someone"}
	require.NoError(t, repo.Save(ctx, r))
	assert.NotZero(t, r.ID)

	got, err = repo.Get(ctx, "a-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "phq9", got.AssessmentID)
	assert.Equal(t, 12, got.TotalScore)
	assert.Equal(t, map[int]int{1: 1, 2: 2, 3: 0}, got.Answers)
	assert.Equal(t, []string{"call someone"}, got.Alerts)
	assert.True(t, got.TakenAt.Equal(at), "taken_at = %v", got.TakenAt)
	assert.Equal(t, "", got.Note)
}

func TestResultSave_DuplicateAttempt(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleResult("a-1", "gad7", 3, time.Now())))
	assert.Error(t, repo.Save(ctx, sampleResult("a-1", "gad7", 4, time.Now())))
}

func TestResultSetNote(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleResult("a-1", "gad7", 3, time.Now())))
	require.NoError(t, repo.SetNote(ctx, "a-1", "slept badly this week"))

	got, err := repo.Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "slept badly this week", got.Note)

	assert.Error(t, repo.SetNote(ctx, "nope", "x"))
}

func TestResultList(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, sampleResult("g1", "gad7", 3, base)))
	require.NoError(t, repo.Save(ctx, sampleResult("p1", "phq9", 8, base.Add(24*time.Hour))))
	require.NoError(t, repo.Save(ctx, sampleResult("g2", "gad7", 9, base.Add(48*time.Hour))))

	all, err := repo.List(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"g2", "p1", "g1"}, attemptIDs(all), "newest first")

	gad, err := repo.List(ctx, QueryOpts{AssessmentID: "gad7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"g2", "g1"}, attemptIDs(gad))

	limited, err := repo.List(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"g2"}, attemptIDs(limited))

	ranged, err := repo.List(ctx, QueryOpts{From: base.Add(time.Hour), To: base.Add(25 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, attemptIDs(ranged))

	latest, err := repo.Latest(ctx, "gad7")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "g2", latest.AttemptID)

	none, err := repo.Latest(ctx, "stress")
	require.NoError(t, err)
	assert.Nil(t, none)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, repo.DeleteAll(ctx))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func attemptIDs(rs []Result) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.AttemptID
	}
	return ids
}
