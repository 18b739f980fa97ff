// Package catalog populates the exercise library from public exercise
// databases, falling back to a built-in seed list when offline.
package catalog

import "context"

// CatalogExercise is one entry from an exercise database, before it is
// turned into a stored exercise.
type CatalogExercise struct {
	ExternalID  string
	Name        string
	MuscleGroup *string
}

// Provider fetches exercise catalog entries from one source. limit caps
// the number of entries returned; limit <= 0 means no cap.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]CatalogExercise, error)
}
