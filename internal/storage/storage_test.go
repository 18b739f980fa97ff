package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExerciseCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	group := "chest"
	ex := models.Exercise{ID: "ex1", Name: "Bench Press", MuscleGroup: &group}
	if _, err := db.PutExercise(ctx, ex); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := db.GetExercise(ctx, "ex1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Bench Press" || got.MuscleGroup == nil || *got.MuscleGroup != "chest" {
		t.Errorf("got %+v", got)
	}

	// Upsert with same id updates in place.
	ex.Name = "Incline Bench Press"
	if _, err := db.PutExercise(ctx, ex); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = db.GetExercise(ctx, "ex1")
	if got.Name != "Incline Bench Press" {
		t.Errorf("update not applied: %+v", got)
	}

	if _, err := db.GetExercise(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}

	if err := db.DeleteExercise(ctx, "ex1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteExercise(ctx, "ex1"); err != nil {
		t.Errorf("deleting nonexistent id should be a no-op, got %v", err)
	}
	if _, err := db.GetExercise(ctx, "ex1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound after delete, got %v", err)
	}
}

func TestDedupeExercisesByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	names := []string{"Bench Press", "bench-press", "Squat", "BENCH  PRESS", "squat"}
	for i, name := range names {
		if _, err := db.PutExercise(ctx, models.Exercise{ID: string(rune('a' + i)), Name: name}); err != nil {
			t.Fatalf("put %s: %v", name, err)
		}
	}

	removed, err := db.DedupeExercisesByName(ctx)
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	remaining, err := db.ListExercises(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining = %d, want 2", len(remaining))
	}
	// First-seen records survive, in insertion order.
	if remaining[0].Name != "Bench Press" || remaining[1].Name != "Squat" {
		t.Errorf("kept wrong records: %+v", remaining)
	}

	// Idempotent: second run removes nothing.
	removed, err = db.DedupeExercisesByName(ctx)
	if err != nil {
		t.Fatalf("second dedupe: %v", err)
	}
	if removed != 0 {
		t.Errorf("second run removed %d, want 0", removed)
	}
}

func TestRoutinesForDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r := models.WorkoutRoutine{ID: "r1", Name: "Push Day", DaysOfWeek: []int{1, 3}}
	if _, err := db.PutRoutine(ctx, r); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := db.PutRoutine(ctx, models.WorkoutRoutine{ID: "r2", Name: "Unscheduled"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	for _, day := range []int{1, 3} {
		got, err := db.RoutinesForDay(ctx, day)
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if len(got) != 1 || got[0].ID != "r1" {
			t.Errorf("day %d: got %+v, want r1 only", day, got)
		}
	}

	got, err := db.RoutinesForDay(ctx, 0)
	if err != nil {
		t.Fatalf("day 0: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("day 0: got %+v, want none", got)
	}
}

func TestPutRoutineRefreshesUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	stored, err := db.PutRoutine(ctx, models.WorkoutRoutine{ID: "r1", Name: "Legs"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not stamped: %+v", stored)
	}

	first := stored.UpdatedAt
	time.Sleep(5 * time.Millisecond)
	stored.Name = "Leg Day"
	stored, err = db.PutRoutine(ctx, stored)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !stored.UpdatedAt.After(first) {
		t.Errorf("UpdatedAt not refreshed: %v then %v", first, stored.UpdatedAt)
	}
}

func TestRecentSessions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := models.WorkoutSession{
			ID:        string(rune('a' + i)),
			RoutineID: "r1",
			StartTime: base.AddDate(0, 0, i),
		}
		if _, err := db.PutSession(ctx, s); err != nil {
			t.Fatalf("put session %d: %v", i, err)
		}
	}

	recent, err := db.RecentSessions(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].StartTime.After(recent[i-1].StartTime) {
			t.Errorf("not ordered newest first: %v", recent)
		}
	}
	if recent[0].ID != "e" {
		t.Errorf("newest session = %s, want e", recent[0].ID)
	}

	byRoutine, err := db.SessionsByRoutine(ctx, "r1")
	if err != nil {
		t.Fatalf("by routine: %v", err)
	}
	if len(byRoutine) != 5 {
		t.Errorf("by routine len = %d, want 5", len(byRoutine))
	}
}

func TestLatestProgressTieBreak(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	date := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"p-a", "p-c", "p-b"} {
		rec := models.ProgressRecord{
			ID:         id,
			ExerciseID: "ex1",
			SessionID:  "s1",
			Date:       date,
			Sets:       []models.ProgressSet{{Reps: 5, Weight: 135, Unit: models.UnitLB}},
		}
		if _, err := db.PutProgress(ctx, rec); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	latest, err := db.LatestProgressForExercise(ctx, "ex1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	// Same date: the lexicographically highest id wins.
	if latest.ID != "p-c" {
		t.Errorf("latest.ID = %s, want p-c", latest.ID)
	}

	if _, err := db.LatestProgressForExercise(ctx, "never-trained"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestProgressInRangeInclusive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	days := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range days {
		rec := models.ProgressRecord{
			ID:         string(rune('a' + i)),
			ExerciseID: "ex1",
			SessionID:  "s1",
			Date:       d,
			Sets:       []models.ProgressSet{{Reps: 10, Weight: 100, Unit: models.UnitLB}},
		}
		if _, err := db.PutProgress(ctx, rec); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	got, err := db.ProgressInRange(ctx, days[0], days[2])
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (both endpoints inclusive)", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Errorf("not ordered by date asc")
		}
	}
}

func TestOpenMemoryFallback(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("in-memory open: %v", err)
	}
	defer db.Close()

	if _, err := db.PutExercise(context.Background(), models.Exercise{ID: "x", Name: "Row"}); err != nil {
		t.Errorf("in-memory put: %v", err)
	}
}
