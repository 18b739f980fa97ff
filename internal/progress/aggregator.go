// Package progress derives per-exercise chart series from stored
// progress records.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Summary is the per-record data point behind the progress charts. All
// weights are converted into the requested display unit.
type Summary struct {
	RecordID    string    `json:"recordId"`
	SessionID   string    `json:"sessionId"`
	Date        time.Time `json:"date"`
	MaxWeight   float64   `json:"maxWeight"`
	TotalVolume float64   `json:"totalVolume"`
	AvgReps     float64   `json:"avgReps"`
}

// ExerciseSeries is one exercise's summaries, ordered by date ascending.
type ExerciseSeries struct {
	ExerciseID string      `json:"exerciseId"`
	Unit       models.Unit `json:"unit"`
	Points     []Summary   `json:"points"`
}

// Aggregate groups records by exercise (first-occurrence order) and
// computes max weight, total volume and average reps per record in the
// display unit. Records with no sets are skipped so charts never see an
// undefined maximum.
func Aggregate(records []models.ProgressRecord, display models.Unit) []ExerciseSeries {
	var series []ExerciseSeries
	index := make(map[string]int)

	for _, rec := range records {
		if len(rec.Sets) == 0 {
			continue
		}

		var maxWeight, totalVolume, repSum float64
		for _, set := range rec.Sets {
			w := models.Convert(set.Weight, set.Unit, display)
			if w > maxWeight {
				maxWeight = w
			}
			totalVolume += float64(set.Reps) * w
			repSum += float64(set.Reps)
		}

		point := Summary{
			RecordID:    rec.ID,
			SessionID:   rec.SessionID,
			Date:        rec.Date,
			MaxWeight:   maxWeight,
			TotalVolume: totalVolume,
			AvgReps:     repSum / float64(len(rec.Sets)),
		}

		i, ok := index[rec.ExerciseID]
		if !ok {
			i = len(series)
			index[rec.ExerciseID] = i
			series = append(series, ExerciseSeries{ExerciseID: rec.ExerciseID, Unit: display})
		}
		series[i].Points = append(series[i].Points, point)
	}
	return series
}

// Analyzer aggregates straight from the store.
type Analyzer struct {
	db *storage.DB
}

// NewAnalyzer creates an Analyzer over the given store.
func NewAnalyzer(db *storage.DB) *Analyzer {
	return &Analyzer{db: db}
}

// Range aggregates every progress record dated within [start, end],
// inclusive, converted to the display unit.
func (a *Analyzer) Range(ctx context.Context, start, end time.Time, display models.Unit) ([]ExerciseSeries, error) {
	records, err := a.db.ProgressInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading progress range: %w", err)
	}
	return Aggregate(records, display), nil
}

// ForExercise aggregates one exercise's full history.
func (a *Analyzer) ForExercise(ctx context.Context, exerciseID string, display models.Unit) (ExerciseSeries, error) {
	records, err := a.db.ProgressForExercise(ctx, exerciseID)
	if err != nil {
		return ExerciseSeries{}, fmt.Errorf("loading exercise progress: %w", err)
	}
	series := Aggregate(records, display)
	if len(series) == 0 {
		return ExerciseSeries{ExerciseID: exerciseID, Unit: display}, nil
	}
	return series[0], nil
}
