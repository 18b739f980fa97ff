package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const freeExerciseDBURL = "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/dist/exercises.json"

// FreeExerciseDB fetches the yuhonas/free-exercise-db dataset, a single
// JSON dump of roughly 870 exercises.
type FreeExerciseDB struct {
	URL    string
	Client *http.Client
}

// NewFreeExerciseDB creates the provider with its default endpoint and a
// 30-second request timeout.
func NewFreeExerciseDB() *FreeExerciseDB {
	return &FreeExerciseDB{
		URL:    freeExerciseDBURL,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *FreeExerciseDB) Name() string { return "free-exercise-db" }

type freeExerciseEntry struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PrimaryMuscles []string `json:"primaryMuscles"`
}

// Fetch downloads the full dump and maps each entry, taking the first
// primary muscle as the muscle group.
func (p *FreeExerciseDB) Fetch(ctx context.Context, limit int) ([]CatalogExercise, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", p.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", p.URL, resp.StatusCode)
	}

	var entries []freeExerciseEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding exercise dump: %w", err)
	}

	var out []CatalogExercise
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		ex := CatalogExercise{ExternalID: e.ID, Name: e.Name}
		if len(e.PrimaryMuscles) > 0 {
			muscle := e.PrimaryMuscles[0]
			ex.MuscleGroup = &muscle
		}
		out = append(out, ex)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
