package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const wgerBaseURL = "https://wger.de/api/v2/exerciseinfo/"

// Wger fetches exercises from the wger workout manager's public REST
// API. The endpoint is paginated; Fetch follows the next links.
type Wger struct {
	BaseURL string
	Client  *http.Client
}

// NewWger creates the provider against the public wger.de instance.
func NewWger() *Wger {
	return &Wger{
		BaseURL: wgerBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Wger) Name() string { return "wger" }

type wgerPage struct {
	Next    *string        `json:"next"`
	Results []wgerExercise `json:"results"`
}

type wgerExercise struct {
	ID           int               `json:"id"`
	Translations []wgerTranslation `json:"translations"`
	Muscles      []wgerMuscle      `json:"muscles"`
}

type wgerTranslation struct {
	Name     string `json:"name"`
	Language int    `json:"language"`
}

type wgerMuscle struct {
	NameEn string `json:"name_en"`
	Name   string `json:"name"`
}

// wger language id for English.
const wgerEnglish = 2

// Fetch walks the paginated endpoint until limit entries are collected
// or the last page is reached.
func (p *Wger) Fetch(ctx context.Context, limit int) ([]CatalogExercise, error) {
	var out []CatalogExercise
	url := p.BaseURL + "?limit=100"

	for url != "" {
		page, err := p.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}

		for _, e := range page.Results {
			name := englishName(e.Translations)
			if name == "" {
				continue
			}
			ex := CatalogExercise{ExternalID: strconv.Itoa(e.ID), Name: name}
			if len(e.Muscles) > 0 {
				muscle := e.Muscles[0].NameEn
				if muscle == "" {
					muscle = e.Muscles[0].Name
				}
				if muscle != "" {
					ex.MuscleGroup = &muscle
				}
			}
			out = append(out, ex)
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}

		if page.Next == nil {
			break
		}
		url = *page.Next
	}
	return out, nil
}

func (p *Wger) fetchPage(ctx context.Context, url string) (*wgerPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	var page wgerPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}
	return &page, nil
}

func englishName(translations []wgerTranslation) string {
	for _, t := range translations {
		if t.Language == wgerEnglish && t.Name != "" {
			return t.Name
		}
	}
	// Fall back to whatever translation exists.
	for _, t := range translations {
		if t.Name != "" {
			return t.Name
		}
	}
	return ""
}
