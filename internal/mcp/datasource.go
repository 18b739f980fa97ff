package mcp

import (
	"context"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/progress"
	"github.com/meltforce/liftlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. LocalSource (sqlite
// file) and HTTPClient (remote via REST API) both satisfy this interface.
type DataSource interface {
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	ListRoutines(ctx context.Context) ([]models.WorkoutRoutine, error)
	RoutinesForDay(ctx context.Context, day int) ([]models.WorkoutRoutine, error)
	RecentSessions(ctx context.Context, limit int) ([]models.WorkoutSession, error)
	ProgressRange(ctx context.Context, start, end time.Time, display models.Unit) ([]progress.ExerciseSeries, error)
	ProgressForExercise(ctx context.Context, exerciseID string, display models.Unit) (progress.ExerciseSeries, error)
}

// LocalSource serves MCP tools straight from an opened store.
type LocalSource struct {
	db       *storage.DB
	analyzer *progress.Analyzer
}

// NewLocalSource wraps a store as a DataSource.
func NewLocalSource(db *storage.DB) *LocalSource {
	return &LocalSource{db: db, analyzer: progress.NewAnalyzer(db)}
}

// Compile-time check: *LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

func (s *LocalSource) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return s.db.ListExercises(ctx)
}

func (s *LocalSource) ListRoutines(ctx context.Context) ([]models.WorkoutRoutine, error) {
	return s.db.ListRoutines(ctx)
}

func (s *LocalSource) RoutinesForDay(ctx context.Context, day int) ([]models.WorkoutRoutine, error) {
	return s.db.RoutinesForDay(ctx, day)
}

func (s *LocalSource) RecentSessions(ctx context.Context, limit int) ([]models.WorkoutSession, error) {
	return s.db.RecentSessions(ctx, limit)
}

func (s *LocalSource) ProgressRange(ctx context.Context, start, end time.Time, display models.Unit) ([]progress.ExerciseSeries, error) {
	return s.analyzer.Range(ctx, start, end, display)
}

func (s *LocalSource) ProgressForExercise(ctx context.Context, exerciseID string, display models.Unit) (progress.ExerciseSeries, error) {
	return s.analyzer.ForExercise(ctx, exerciseID, display)
}
