package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Defaults used when a routine template has no sets and no history exists.
const (
	defaultSetCount = 3
	defaultReps     = 10
)

// Engine owns the workout-session state transitions: start a session from
// a routine, mutate sets while it is active, and finish it into progress
// records. Every mutation reads the current session, applies one change
// and writes the whole record back.
type Engine struct {
	db    *storage.DB
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// NewEngine creates an Engine over the given store.
func NewEngine(db *storage.DB, log *slog.Logger) *Engine {
	return &Engine{
		db:    db,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Start creates and persists a session from a routine. Initial sets per
// exercise entry come from, in priority order: the latest progress record
// for that exercise; three default sets when the template has none; else
// the template's sets. All sets get fresh ids and completed = false, and
// the session's exercise list never shares structure with the routine.
func (e *Engine) Start(ctx context.Context, routine models.WorkoutRoutine) (models.WorkoutSession, error) {
	entries := models.CloneExercises(routine.Exercises)
	for i := range entries {
		entry := &entries[i]

		last, err := e.db.LatestProgressForExercise(ctx, entry.ExerciseID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return models.WorkoutSession{}, fmt.Errorf("loading history for %s: %w", entry.ExerciseID, err)
		}

		switch {
		case err == nil && len(last.Sets) > 0:
			sets := make([]models.WorkoutSet, len(last.Sets))
			for j, ps := range last.Sets {
				sets[j] = models.WorkoutSet{
					ID:     e.newID(),
					Reps:   ps.Reps,
					Weight: ps.Weight,
					Unit:   ps.Unit,
				}
			}
			entry.Sets = sets
		case len(entry.Sets) == 0:
			sets := make([]models.WorkoutSet, defaultSetCount)
			for j := range sets {
				sets[j] = models.WorkoutSet{
					ID:   e.newID(),
					Reps: defaultReps,
					Unit: models.DefaultUnit,
				}
			}
			entry.Sets = sets
		default:
			for j := range entry.Sets {
				entry.Sets[j].ID = e.newID()
				entry.Sets[j].Completed = false
				entry.Sets[j].CompletedAt = nil
			}
		}
	}

	s := models.WorkoutSession{
		ID:        e.newID(),
		RoutineID: routine.ID,
		Exercises: entries,
		StartTime: e.now(),
	}

	stored, err := e.db.PutSession(ctx, s)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("persisting session: %w", err)
	}
	e.log.Info("session started", "session", s.ID, "routine", routine.ID, "exercises", len(entries))
	return stored, nil
}

// ToggleSetComplete flips one set's completed flag and persists the
// session. restStarted is true only on the incomplete→complete
// transition; the caller is responsible for surfacing a rest timer.
func (e *Engine) ToggleSetComplete(ctx context.Context, sessionID, entryID, setID string) (s models.WorkoutSession, restStarted bool, err error) {
	s, err = e.mutateSet(ctx, sessionID, entryID, setID, func(set *models.WorkoutSet) {
		set.Completed = !set.Completed
		if set.Completed {
			at := e.now()
			set.CompletedAt = &at
			restStarted = true
		} else {
			set.CompletedAt = nil
		}
	})
	return s, restStarted, err
}

// UpdateSetReps overwrites one set's rep count. No other field is touched.
func (e *Engine) UpdateSetReps(ctx context.Context, sessionID, entryID, setID string, reps int) (models.WorkoutSession, error) {
	return e.mutateSet(ctx, sessionID, entryID, setID, func(set *models.WorkoutSet) {
		set.Reps = reps
	})
}

// UpdateSetWeight overwrites one set's weight. The value arrives in the
// caller's display unit and is converted into the set's own storage unit
// before writing; the storage unit itself never changes.
func (e *Engine) UpdateSetWeight(ctx context.Context, sessionID, entryID, setID string, value float64, displayUnit models.Unit) (models.WorkoutSession, error) {
	return e.mutateSet(ctx, sessionID, entryID, setID, func(set *models.WorkoutSet) {
		set.Weight = models.Convert(value, displayUnit, set.Unit)
	})
}

// AddSet appends a set to an exercise entry, cloning the previous set's
// reps, weight and unit (or the defaults when the entry has no sets).
func (e *Engine) AddSet(ctx context.Context, sessionID, entryID string) (models.WorkoutSession, error) {
	s, err := e.db.GetSession(ctx, sessionID)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("loading session: %w", err)
	}

	entry := findEntry(&s, entryID)
	if entry == nil {
		return models.WorkoutSession{}, fmt.Errorf("exercise entry %s: %w", entryID, storage.ErrNotFound)
	}

	newSet := models.WorkoutSet{
		ID:   e.newID(),
		Reps: defaultReps,
		Unit: models.DefaultUnit,
	}
	if n := len(entry.Sets); n > 0 {
		last := entry.Sets[n-1]
		newSet.Reps = last.Reps
		newSet.Weight = last.Weight
		newSet.Unit = last.Unit
	}
	entry.Sets = append(entry.Sets, newSet)

	return e.db.PutSession(ctx, s)
}

// RemoveSet deletes exactly one set by id. Removing the last set of an
// entry is allowed; the engine enforces no minimum.
func (e *Engine) RemoveSet(ctx context.Context, sessionID, entryID, setID string) (models.WorkoutSession, error) {
	s, err := e.db.GetSession(ctx, sessionID)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("loading session: %w", err)
	}

	entry := findEntry(&s, entryID)
	if entry == nil {
		return models.WorkoutSession{}, fmt.Errorf("exercise entry %s: %w", entryID, storage.ErrNotFound)
	}

	for i := range entry.Sets {
		if entry.Sets[i].ID == setID {
			entry.Sets = append(entry.Sets[:i], entry.Sets[i+1:]...)
			return e.db.PutSession(ctx, s)
		}
	}
	return models.WorkoutSession{}, fmt.Errorf("set %s: %w", setID, storage.ErrNotFound)
}

// Finish marks the session ended and writes one progress record per
// exercise entry that has at least one completed set. The session update
// and all progress inserts commit as one unit; finishing an already
// finished session is a no-op.
func (e *Engine) Finish(ctx context.Context, sessionID string) (models.WorkoutSession, []models.ProgressRecord, error) {
	s, err := e.db.GetSession(ctx, sessionID)
	if err != nil {
		return models.WorkoutSession{}, nil, fmt.Errorf("loading session: %w", err)
	}
	if s.Finished() {
		return s, nil, nil
	}

	now := e.now()
	s.EndTime = &now

	var records []models.ProgressRecord
	for _, entry := range s.Exercises {
		var completed []models.ProgressSet
		for _, set := range entry.Sets {
			if !set.Completed {
				continue
			}
			completed = append(completed, models.ProgressSet{
				Reps:        set.Reps,
				Weight:      set.Weight,
				Unit:        set.Unit,
				CompletedAt: set.CompletedAt,
			})
		}
		if len(completed) == 0 {
			continue
		}
		records = append(records, models.ProgressRecord{
			ID:         e.newID(),
			ExerciseID: entry.ExerciseID,
			SessionID:  s.ID,
			Date:       now,
			Sets:       completed,
		})
	}

	if err := e.db.FinishSession(ctx, s, records); err != nil {
		return models.WorkoutSession{}, nil, fmt.Errorf("finishing session: %w", err)
	}
	e.log.Info("session finished", "session", s.ID, "progress_records", len(records))
	return s, records, nil
}

// mutateSet loads the session, applies fn to exactly one set and writes
// the session back.
func (e *Engine) mutateSet(ctx context.Context, sessionID, entryID, setID string, fn func(*models.WorkoutSet)) (models.WorkoutSession, error) {
	s, err := e.db.GetSession(ctx, sessionID)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("loading session: %w", err)
	}

	entry := findEntry(&s, entryID)
	if entry == nil {
		return models.WorkoutSession{}, fmt.Errorf("exercise entry %s: %w", entryID, storage.ErrNotFound)
	}

	for i := range entry.Sets {
		if entry.Sets[i].ID == setID {
			fn(&entry.Sets[i])
			return e.db.PutSession(ctx, s)
		}
	}
	return models.WorkoutSession{}, fmt.Errorf("set %s: %w", setID, storage.ErrNotFound)
}

func findEntry(s *models.WorkoutSession, entryID string) *models.ExerciseInWorkout {
	for i := range s.Exercises {
		if s.Exercises[i].ID == entryID {
			return &s.Exercises[i]
		}
	}
	return nil
}
