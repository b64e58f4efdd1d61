package store

import (
	"context"
	"testing"
	"time"
)

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Timestamp:    now,
		AttemptID:    "a-1",
		AssessmentID: "gad7",
		Data:         []byte(`{"index":2}`),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 1 {
		t.Errorf("sequence = %d, want 1 (assigned from counter)", snap.Sequence)
	}
	if snap.AttemptID != "a-1" || string(snap.Data) != `{"index":2}` {
		t.Errorf("snapshot = %+v", snap)
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", snap.Timestamp, now)
	}
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &Snapshot{
			AttemptID:    "a-1",
			AssessmentID: "gad7",
			Data:         []byte(`{}`),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 3 {
		t.Errorf("sequence = %d, want 3", snap.Sequence)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if err := repo.Save(ctx, &Snapshot{AttemptID: "a", AssessmentID: "gad7", Data: []byte(`{}`)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n := countRows(t, s, tableSnapshots); n != 5 {
		t.Errorf("remaining snapshots = %d, want 5", n)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 7 {
		t.Errorf("latest sequence = %d, want 7", snap.Sequence)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Save(ctx, &Snapshot{AttemptID: "a", AssessmentID: "gad7", Data: []byte(`{}`)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Prune with keep=5 should be a no-op.
	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n := countRows(t, s, tableSnapshots); n != 2 {
		t.Errorf("remaining snapshots = %d, want 2", n)
	}
}

func TestSnapshotClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	_ = repo.Save(ctx, &Snapshot{AttemptID: "a", AssessmentID: "gad7", Data: []byte(`{}`)})
	_ = repo.Save(ctx, &Snapshot{AttemptID: "a", AssessmentID: "gad7", Data: []byte(`{}`)})
	_ = repo.Save(ctx, &Snapshot{AttemptID: "b", AssessmentID: "phq9", Data: []byte(`{}`)})

	if err := repo.Clear(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil || snap.AttemptID != "a" {
		t.Errorf("latest after clear = %+v, want attempt a", snap)
	}
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
