package mcp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/models"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise library. Each exercise has an id, name, and optional muscle group."),
)

var toolGetRoutines = mcp.NewTool("get_routines",
	mcp.WithDescription("List workout routines with their exercises and target sets. Optionally filter to routines scheduled on a weekday."),
	mcp.WithString("day", mcp.Description("Weekday filter, 0 = Sunday .. 6 = Saturday. Omit for all routines.")),
)

var toolGetRecentSessions = mcp.NewTool("get_recent_sessions",
	mcp.WithDescription("Retrieve the most recent workout sessions, newest first, including every set with reps, weight, and completion state."),
	mcp.WithString("limit", mcp.Description("Maximum number of sessions. Defaults to 10.")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Strength progress over a date range, grouped per exercise. Each data point has max weight, total volume (reps x weight), and average reps, converted to one display unit."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("unit", mcp.Description("Display weight unit."), mcp.Enum("kg", "lb")),
)

var toolGetExerciseSummary = mcp.NewTool("get_exercise_summary",
	mcp.WithDescription("Full progress history for one exercise: max weight, total volume, and average reps per finished session."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id from list_exercises")),
	mcp.WithString("unit", mcp.Description("Display weight unit."), mcp.Enum("kg", "lb")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRoutines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		routines []models.WorkoutRoutine
		err      error
	)
	if dayStr := req.GetString("day", ""); dayStr != "" {
		day, perr := parseWeekday(dayStr)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		routines, err = h.ds.RoutinesForDay(ctx, day)
	} else {
		routines, err = h.ds.ListRoutines(ctx)
	}
	if err != nil {
		h.log.Error("mcp get_routines", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(routines)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 10
	if v := req.GetString("limit", ""); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return mcp.NewToolResultError("limit must be a positive integer"), nil
		}
		limit = n
	}

	sessions, err := h.ds.RecentSessions(ctx, limit)
	if err != nil {
		h.log.Error("mcp get_recent_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	display, err := h.displayUnitFor(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	series, err := h.ds.ProgressRange(ctx, start, end, display)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(series)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	display, err := h.displayUnitFor(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	series, err := h.ds.ProgressForExercise(ctx, exerciseID, display)
	if err != nil {
		h.log.Error("mcp get_exercise_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(series)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) displayUnitFor(req mcp.CallToolRequest) (models.Unit, error) {
	if v := req.GetString("unit", ""); v != "" {
		return models.ParseUnit(v)
	}
	return h.displayUnit, nil
}

func parseWeekday(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 0 || day > 6 {
		return 0, fmt.Errorf("day must be 0..6, got %q", s)
	}
	return day, nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("want a positive integer, got %q", s)
	}
	return n, nil
}
