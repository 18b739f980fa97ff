package progress

import (
	"math"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateComputesPerRecordMetrics(t *testing.T) {
	records := []models.ProgressRecord{
		{
			ID: "p1", ExerciseID: "ex1", SessionID: "s1", Date: day(1),
			Sets: []models.ProgressSet{{Reps: 10, Weight: 100, Unit: models.UnitLB}},
		},
		{
			ID: "p2", ExerciseID: "ex1", SessionID: "s2", Date: day(3),
			Sets: []models.ProgressSet{{Reps: 8, Weight: 110, Unit: models.UnitLB}},
		},
	}

	series := Aggregate(records, models.UnitLB)
	if len(series) != 1 {
		t.Fatalf("series = %d, want 1", len(series))
	}
	points := series[0].Points
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}

	want := []struct{ maxWeight, totalVolume, avgReps float64 }{
		{100, 1000, 10},
		{110, 880, 8},
	}
	for i, w := range want {
		p := points[i]
		if p.MaxWeight != w.maxWeight || p.TotalVolume != w.totalVolume || p.AvgReps != w.avgReps {
			t.Errorf("point %d = %+v, want %+v", i, p, w)
		}
	}
}

func TestAggregateConvertsToDisplayUnit(t *testing.T) {
	records := []models.ProgressRecord{{
		ID: "p1", ExerciseID: "ex1", SessionID: "s1", Date: day(1),
		Sets: []models.ProgressSet{
			{Reps: 5, Weight: 100, Unit: models.UnitKG},
			{Reps: 5, Weight: 150, Unit: models.UnitLB},
		},
	}}

	series := Aggregate(records, models.UnitLB)
	p := series[0].Points[0]

	// 100 kg = 220.462 lb, heavier than the 150 lb set.
	if math.Abs(p.MaxWeight-220.462) > 1e-9 {
		t.Errorf("MaxWeight = %v, want 220.462", p.MaxWeight)
	}
	wantVolume := 5*220.462 + 5*150
	if math.Abs(p.TotalVolume-wantVolume) > 1e-9 {
		t.Errorf("TotalVolume = %v, want %v", p.TotalVolume, wantVolume)
	}
	if p.AvgReps != 5 {
		t.Errorf("AvgReps = %v, want 5", p.AvgReps)
	}
}

func TestAggregateGroupsByFirstOccurrence(t *testing.T) {
	records := []models.ProgressRecord{
		{ID: "p1", ExerciseID: "squat", Date: day(1), Sets: []models.ProgressSet{{Reps: 5, Weight: 225, Unit: models.UnitLB}}},
		{ID: "p2", ExerciseID: "bench", Date: day(1), Sets: []models.ProgressSet{{Reps: 5, Weight: 185, Unit: models.UnitLB}}},
		{ID: "p3", ExerciseID: "squat", Date: day(2), Sets: []models.ProgressSet{{Reps: 5, Weight: 230, Unit: models.UnitLB}}},
	}

	series := Aggregate(records, models.UnitLB)
	if len(series) != 2 {
		t.Fatalf("series = %d, want 2", len(series))
	}
	if series[0].ExerciseID != "squat" || series[1].ExerciseID != "bench" {
		t.Errorf("group order = %s, %s", series[0].ExerciseID, series[1].ExerciseID)
	}
	if len(series[0].Points) != 2 || len(series[1].Points) != 1 {
		t.Errorf("point counts = %d, %d", len(series[0].Points), len(series[1].Points))
	}
}

func TestAggregateSkipsEmptyRecords(t *testing.T) {
	records := []models.ProgressRecord{
		{ID: "p1", ExerciseID: "ex1", Date: day(1), Sets: nil},
		{ID: "p2", ExerciseID: "ex1", Date: day(2), Sets: []models.ProgressSet{{Reps: 10, Weight: 45, Unit: models.UnitLB}}},
	}

	series := Aggregate(records, models.UnitLB)
	if len(series) != 1 || len(series[0].Points) != 1 {
		t.Fatalf("empty record leaked into output: %+v", series)
	}
	p := series[0].Points[0]
	if math.IsNaN(p.AvgReps) || math.IsNaN(p.MaxWeight) {
		t.Error("NaN leaked into chart data")
	}
	if p.RecordID != "p2" {
		t.Errorf("kept record = %s, want p2", p.RecordID)
	}
}
