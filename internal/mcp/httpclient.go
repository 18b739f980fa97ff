package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/progress"
)

// HTTPClient implements DataSource by calling the LiftLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	body, err := c.get(ctx, "/api/v1/exercises/", nil)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *HTTPClient) ListRoutines(ctx context.Context) ([]models.WorkoutRoutine, error) {
	body, err := c.get(ctx, "/api/v1/routines/", nil)
	if err != nil {
		return nil, err
	}

	var routines []models.WorkoutRoutine
	if err := json.Unmarshal(body, &routines); err != nil {
		return nil, fmt.Errorf("httpclient: decode routines: %w", err)
	}
	return routines, nil
}

func (c *HTTPClient) RoutinesForDay(ctx context.Context, day int) ([]models.WorkoutRoutine, error) {
	params := url.Values{}
	params.Set("day", strconv.Itoa(day))

	body, err := c.get(ctx, "/api/v1/routines/today", params)
	if err != nil {
		return nil, err
	}

	var routines []models.WorkoutRoutine
	if err := json.Unmarshal(body, &routines); err != nil {
		return nil, fmt.Errorf("httpclient: decode routines: %w", err)
	}
	return routines, nil
}

func (c *HTTPClient) RecentSessions(ctx context.Context, limit int) ([]models.WorkoutSession, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/sessions/", params)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) ProgressRange(ctx context.Context, start, end time.Time, display models.Unit) ([]progress.ExerciseSeries, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	params.Set("unit", string(display))

	body, err := c.get(ctx, "/api/v1/progress", params)
	if err != nil {
		return nil, err
	}

	var series []progress.ExerciseSeries
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("httpclient: decode progress: %w", err)
	}
	return series, nil
}

func (c *HTTPClient) ProgressForExercise(ctx context.Context, exerciseID string, display models.Unit) (progress.ExerciseSeries, error) {
	params := url.Values{}
	params.Set("unit", string(display))

	body, err := c.get(ctx, "/api/v1/progress/"+url.PathEscape(exerciseID), params)
	if err != nil {
		return progress.ExerciseSeries{}, err
	}

	var series progress.ExerciseSeries
	if err := json.Unmarshal(body, &series); err != nil {
		return progress.ExerciseSeries{}, fmt.Errorf("httpclient: decode exercise progress: %w", err)
	}
	return series, nil
}
