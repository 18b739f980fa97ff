package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// TestHTTPClientListExercises verifies path and decoding for the
// exercise library endpoint.
func TestHTTPClientListExercises(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/exercises/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"ex-1","name":"Squat","muscleGroup":"quadriceps"}]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	exercises, err := c.ListExercises(context.Background())
	if err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	if len(exercises) != 1 || exercises[0].Name != "Squat" {
		t.Errorf("exercises = %+v", exercises)
	}
	if exercises[0].MuscleGroup == nil || *exercises[0].MuscleGroup != "quadriceps" {
		t.Errorf("muscle group = %v", exercises[0].MuscleGroup)
	}
}

// TestHTTPClientRecentSessionsParams verifies the limit parameter is
// forwarded.
func TestHTTPClientRecentSessionsParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		w.Write([]byte(`[{"id":"s-1","routineId":"r-1","startTime":"2026-03-01T10:00:00Z"}]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	sessions, err := c.RecentSessions(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "s-1" {
		t.Errorf("sessions = %+v", sessions)
	}
}

// TestHTTPClientRoutinesForDay verifies the day filter route.
func TestHTTPClientRoutinesForDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/routines/today" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("day"); got != "3" {
			t.Errorf("day = %q, want 3", got)
		}
		w.Write([]byte(`[{"id":"r-1","name":"Push Day"}]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	routines, err := c.RoutinesForDay(context.Background(), 3)
	if err != nil {
		t.Fatalf("RoutinesForDay: %v", err)
	}
	if len(routines) != 1 || routines[0].Name != "Push Day" {
		t.Errorf("routines = %+v", routines)
	}
}

// TestHTTPClientProgressRange verifies the unit and range parameters and
// series decoding.
func TestHTTPClientProgressRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("unit") != "kg" {
			t.Errorf("unit = %q, want kg", q.Get("unit"))
		}
		if q.Get("start") == "" || q.Get("end") == "" {
			t.Error("missing start/end parameters")
		}
		w.Write([]byte(`[{"exerciseId":"ex-1","unit":"kg","points":[{"recordId":"p-1","sessionId":"s-1","date":"2026-03-01T00:00:00Z","maxWeight":100,"totalVolume":500,"avgReps":5}]}]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	series, err := c.ProgressRange(context.Background(), start, end, models.UnitKG)
	if err != nil {
		t.Fatalf("ProgressRange: %v", err)
	}
	if len(series) != 1 || len(series[0].Points) != 1 {
		t.Fatalf("series = %+v", series)
	}
	if series[0].Points[0].MaxWeight != 100 {
		t.Errorf("maxWeight = %v", series[0].Points[0].MaxWeight)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses surface as errors
// with the body included.
func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	if _, err := c.ListExercises(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

// TestHTTPClientTrimsTrailingSlash verifies base URL normalization.
func TestHTTPClientTrimsTrailingSlash(t *testing.T) {
	c := NewHTTPClient("http://example.com/")
	if c.baseURL != "http://example.com" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
