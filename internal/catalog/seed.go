package catalog

import "context"

// seedExercises is the built-in fallback catalog used when no remote
// source is reachable. It covers the common barbell, dumbbell and
// bodyweight movements.
var seedExercises = []struct {
	name   string
	muscle string
}{
	{"Barbell Squat", "quadriceps"},
	{"Barbell Bench Press", "chest"},
	{"Barbell Deadlift", "lower back"},
	{"Overhead Press", "shoulders"},
	{"Barbell Row", "middle back"},
	{"Pull Up", "lats"},
	{"Chin Up", "lats"},
	{"Dip", "triceps"},
	{"Dumbbell Curl", "biceps"},
	{"Dumbbell Lateral Raise", "shoulders"},
	{"Dumbbell Bench Press", "chest"},
	{"Incline Dumbbell Press", "chest"},
	{"Romanian Deadlift", "hamstrings"},
	{"Leg Press", "quadriceps"},
	{"Leg Curl", "hamstrings"},
	{"Leg Extension", "quadriceps"},
	{"Calf Raise", "calves"},
	{"Lat Pulldown", "lats"},
	{"Seated Cable Row", "middle back"},
	{"Face Pull", "shoulders"},
	{"Tricep Pushdown", "triceps"},
	{"Hammer Curl", "biceps"},
	{"Plank", "abdominals"},
	{"Crunch", "abdominals"},
	{"Hip Thrust", "glutes"},
	{"Lunge", "quadriceps"},
	{"Bulgarian Split Squat", "quadriceps"},
	{"Push Up", "chest"},
	{"Shrug", "traps"},
	{"Good Morning", "hamstrings"},
}

// Seed is the always-available provider of last resort.
type Seed struct{}

func (Seed) Name() string { return "seed" }

// Fetch returns the built-in list. It never fails.
func (Seed) Fetch(_ context.Context, limit int) ([]CatalogExercise, error) {
	out := make([]CatalogExercise, 0, len(seedExercises))
	for _, s := range seedExercises {
		muscle := s.muscle
		out = append(out, CatalogExercise{Name: s.name, MuscleGroup: &muscle})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
