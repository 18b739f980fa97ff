package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/progress"
	"github.com/meltforce/liftlog/internal/storage"
)

// --- exercises ---

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handlePutExercise(w http.ResponseWriter, r *http.Request) {
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if ex.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}

	stored, err := s.db.PutExercise(r.Context(), ex)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.db.GetExercise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeNotFoundOr500(w, err, "exercise not found")
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteExercise(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDedupeExercises(w http.ResponseWriter, r *http.Request) {
	removed, err := s.db.DedupeExercisesByName(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// --- routines ---

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.db.ListRoutines(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

func (s *Server) handlePutRoutine(w http.ResponseWriter, r *http.Request) {
	s.storeRoutine(w, r, "")
}

// handleUpdateRoutine backs PUT /routines/{id}; the URL id wins over any
// id in the body.
func (s *Server) handleUpdateRoutine(w http.ResponseWriter, r *http.Request) {
	s.storeRoutine(w, r, chi.URLParam(r, "id"))
}

func (s *Server) storeRoutine(w http.ResponseWriter, r *http.Request, id string) {
	var routine models.WorkoutRoutine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if id != "" {
		routine.ID = id
	}
	if routine.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	for _, d := range routine.DaysOfWeek {
		if d < 0 || d > 6 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dayOfWeek entries must be 0..6"})
			return
		}
	}
	if routine.ID == "" {
		routine.ID = uuid.NewString()
	}
	for i := range routine.Exercises {
		if routine.Exercises[i].ID == "" {
			routine.Exercises[i].ID = uuid.NewString()
		}
		for j := range routine.Exercises[i].Sets {
			if routine.Exercises[i].Sets[j].ID == "" {
				routine.Exercises[i].Sets[j].ID = uuid.NewString()
			}
		}
	}

	stored, err := s.db.PutRoutine(r.Context(), routine)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleRoutinesToday(w http.ResponseWriter, r *http.Request) {
	day := int(time.Now().Weekday())
	if v := r.URL.Query().Get("day"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 || d > 6 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day must be 0..6"})
			return
		}
		day = d
	}

	routines, err := s.db.RoutinesForDay(r.Context(), day)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	routine, err := s.db.GetRoutine(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeNotFoundOr500(w, err, "routine not found")
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteRoutine(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- sessions ---

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoutineID string `json:"routineId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	routine, err := s.db.GetRoutine(r.Context(), req.RoutineID)
	if err != nil {
		writeNotFoundOr500(w, err, "routine not found")
		return
	}

	started, err := s.engine.Start(r.Context(), routine)
	if err != nil {
		s.log.Error("session start failed", "routine", req.RoutineID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, started)
}

func (s *Server) handleRecentSessions(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	sessions, err := s.db.RecentSessions(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.db.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeNotFoundOr500(w, err, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	sess, records, err := s.engine.Finish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeNotFoundOr500(w, err, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":         sess,
		"progressRecords": records,
	})
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	sess, restStarted, err := s.engine.ToggleSetComplete(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "entryID"), chi.URLParam(r, "setID"))
	if err != nil {
		writeNotFoundOr500(w, err, "set not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":     sess,
		"restStarted": restStarted,
	})
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reps   *int     `json:"reps"`
		Weight *float64 `json:"weight"`
		Unit   string   `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Reps == nil && req.Weight == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps or weight is required"})
		return
	}
	// Negative input clamps to 0 instead of failing the mutation.
	if req.Reps != nil && *req.Reps < 0 {
		*req.Reps = 0
	}
	if req.Weight != nil && *req.Weight < 0 {
		*req.Weight = 0
	}

	sessionID := chi.URLParam(r, "id")
	entryID := chi.URLParam(r, "entryID")
	setID := chi.URLParam(r, "setID")

	var (
		sess models.WorkoutSession
		err  error
	)
	if req.Reps != nil {
		sess, err = s.engine.UpdateSetReps(r.Context(), sessionID, entryID, setID, *req.Reps)
		if err != nil {
			writeNotFoundOr500(w, err, "set not found")
			return
		}
	}
	if req.Weight != nil {
		displayUnit := s.displayUnit
		if req.Unit != "" {
			displayUnit, err = models.ParseUnit(req.Unit)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
		}
		sess, err = s.engine.UpdateSetWeight(r.Context(), sessionID, entryID, setID, *req.Weight, displayUnit)
		if err != nil {
			writeNotFoundOr500(w, err, "set not found")
			return
		}
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.AddSet(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "entryID"))
	if err != nil {
		writeNotFoundOr500(w, err, "exercise entry not found")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.RemoveSet(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "entryID"), chi.URLParam(r, "setID"))
	if err != nil {
		writeNotFoundOr500(w, err, "set not found")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// --- progress ---

func (s *Server) handleProgressRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	display, err := s.displayUnitFor(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	series, err := s.analyzer.Range(r.Context(), start, end, display)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, roundSeries(series))
}

func (s *Server) handleProgressForExercise(w http.ResponseWriter, r *http.Request) {
	display, err := s.displayUnitFor(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	series, err := s.analyzer.ForExercise(r.Context(), chi.URLParam(r, "exerciseID"), display)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, roundOneSeries(series))
}

// --- catalog ---

func (s *Server) handleCatalogImport(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	stats, err := s.importer.Import(r.Context(), limit)
	if err != nil {
		s.log.Error("catalog import failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- helpers ---

func (s *Server) displayUnitFor(r *http.Request) (models.Unit, error) {
	if v := r.URL.Query().Get("unit"); v != "" {
		return models.ParseUnit(v)
	}
	return s.displayUnit, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeNotFoundOr500(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// round1 rounds chart values to one decimal so converted weights do not
// drag float noise into the UI.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundOneSeries(series progress.ExerciseSeries) progress.ExerciseSeries {
	for i := range series.Points {
		series.Points[i].MaxWeight = round1(series.Points[i].MaxWeight)
		series.Points[i].TotalVolume = round1(series.Points[i].TotalVolume)
		series.Points[i].AvgReps = round1(series.Points[i].AvgReps)
	}
	return series
}

func roundSeries(series []progress.ExerciseSeries) []progress.ExerciseSeries {
	for i := range series {
		series[i] = roundOneSeries(series[i])
	}
	return series
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	end = time.Now()
	if v := r.URL.Query().Get("end"); v != "" {
		end, err = parseRangeTime(v, true)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if v := r.URL.Query().Get("start"); v != "" {
		start, err = parseRangeTime(v, false)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		// Default: 30 days back from the end of the range.
		start = end.AddDate(0, 0, -30)
	}
	return
}

// parseRangeTime accepts RFC3339 or a bare date. A bare date at the end
// of a range covers the whole day.
func parseRangeTime(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24 * time.Hour)
	}
	return t, nil
}
