package models

import (
	"strings"
	"time"
	"unicode"
)

// Exercise is a catalog entry the user can put into routines.
// Created by hand or by catalog import, deleted explicitly, never
// otherwise mutated.
type Exercise struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MuscleGroup *string `json:"muscleGroup,omitempty"`
}

// WorkoutSet is one set of one exercise. Weight is stored in the unit
// it was entered in; conversion happens at display time.
type WorkoutSet struct {
	ID          string     `json:"id"`
	Reps        int        `json:"reps"`
	Weight      float64    `json:"weight"`
	Unit        Unit       `json:"unit"`
	Completed   bool       `json:"completed"`
	RestTime    *int       `json:"restTime,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ExerciseInWorkout is an ordered run of sets for one exercise inside a
// routine or a session. ExerciseID is a weak reference: the exercise may
// be deleted independently.
type ExerciseInWorkout struct {
	ID         string       `json:"id"`
	ExerciseID string       `json:"exerciseId"`
	Sets       []WorkoutSet `json:"sets"`
	Notes      *string      `json:"notes,omitempty"`
}

// WorkoutRoutine is a reusable template of exercises and target sets,
// optionally scheduled to weekdays (0 = Sunday).
type WorkoutRoutine struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Exercises  []ExerciseInWorkout `json:"exercises"`
	DaysOfWeek []int               `json:"dayOfWeek,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// ScheduledOn reports whether the routine is scheduled for the given
// weekday (0 = Sunday .. 6 = Saturday).
func (r *WorkoutRoutine) ScheduledOn(day int) bool {
	for _, d := range r.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// WorkoutSession is one concrete performance of a routine. Its exercise
// list is a deep copy of the routine's list at start time; the two never
// share structure. A session is finished once EndTime is set.
type WorkoutSession struct {
	ID        string              `json:"id"`
	RoutineID string              `json:"routineId"`
	Exercises []ExerciseInWorkout `json:"exercises"`
	StartTime time.Time           `json:"startTime"`
	EndTime   *time.Time          `json:"endTime,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
}

// Finished reports whether the session has been finished.
func (s *WorkoutSession) Finished() bool { return s.EndTime != nil }

// ProgressSet is a flattened completed set inside a progress record.
// Sets are stored without ids here.
type ProgressSet struct {
	Reps        int        `json:"reps"`
	Weight      float64    `json:"weight"`
	Unit        Unit       `json:"unit"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ProgressRecord is the durable summary of completed sets for one
// exercise from one finished session. Written once, never updated.
type ProgressRecord struct {
	ID         string        `json:"id"`
	ExerciseID string        `json:"exerciseId"`
	SessionID  string        `json:"sessionId"`
	Date       time.Time     `json:"date"`
	Sets       []ProgressSet `json:"sets"`
}

// NormalizeName lowercases a name and collapses runs of
// non-alphanumerics to single spaces. Used for approximate name
// de-duplication, not as a hard uniqueness constraint.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	space := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}

// CloneSets deep-copies a set list.
func CloneSets(sets []WorkoutSet) []WorkoutSet {
	if sets == nil {
		return nil
	}
	out := make([]WorkoutSet, len(sets))
	copy(out, sets)
	for i := range out {
		if sets[i].RestTime != nil {
			rt := *sets[i].RestTime
			out[i].RestTime = &rt
		}
		if sets[i].CompletedAt != nil {
			at := *sets[i].CompletedAt
			out[i].CompletedAt = &at
		}
	}
	return out
}

// CloneExercises deep-copies an exercise entry list, sets included.
func CloneExercises(entries []ExerciseInWorkout) []ExerciseInWorkout {
	if entries == nil {
		return nil
	}
	out := make([]ExerciseInWorkout, len(entries))
	copy(out, entries)
	for i := range out {
		out[i].Sets = CloneSets(entries[i].Sets)
		if entries[i].Notes != nil {
			n := *entries[i].Notes
			out[i].Notes = &n
		}
	}
	return out
}
