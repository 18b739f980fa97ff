package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Stats tracks the outcome of one catalog import.
type Stats struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Deduped int    `json:"deduped"`
}

// ErrNoSource is returned when every provider in the chain fails.
var ErrNoSource = errors.New("no catalog source available")

// Importer fills the exercise library from a chain of providers. The
// first provider that answers wins; the rest are fallbacks.
type Importer struct {
	db        *storage.DB
	log       *slog.Logger
	providers []Provider
	dryRun    bool
	newID     func() string
}

// New creates an Importer with the default chain: free-exercise-db,
// then wger, then the built-in seed list.
func New(db *storage.DB, log *slog.Logger, dryRun bool) *Importer {
	return NewWithProviders(db, log, dryRun, NewFreeExerciseDB(), NewWger(), Seed{})
}

// NewWithProviders creates an Importer with an explicit provider chain.
func NewWithProviders(db *storage.DB, log *slog.Logger, dryRun bool, providers ...Provider) *Importer {
	return &Importer{
		db:        db,
		log:       log,
		providers: providers,
		dryRun:    dryRun,
		newID:     func() string { return uuid.NewString() },
	}
}

// Import fetches from the first reachable provider, creates every
// exercise whose normalized name is not already in the library, then
// runs a dedupe pass over the whole collection.
func (imp *Importer) Import(ctx context.Context, limit int) (*Stats, error) {
	entries, source, err := imp.fetch(ctx, limit)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Source: source, Fetched: len(entries)}

	existing, err := imp.db.ListExercises(ctx)
	if err != nil {
		return stats, fmt.Errorf("listing exercises: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, ex := range existing {
		seen[models.NormalizeName(ex.Name)] = true
	}

	for _, entry := range entries {
		key := models.NormalizeName(entry.Name)
		if key == "" || seen[key] {
			stats.Skipped++
			continue
		}
		seen[key] = true
		stats.Created++
		if imp.dryRun {
			continue
		}

		ex := models.Exercise{
			ID:          imp.newID(),
			Name:        entry.Name,
			MuscleGroup: entry.MuscleGroup,
		}
		if _, err := imp.db.PutExercise(ctx, ex); err != nil {
			return stats, fmt.Errorf("storing exercise %q: %w", entry.Name, err)
		}
	}

	if !imp.dryRun {
		removed, err := imp.db.DedupeExercisesByName(ctx)
		if err != nil {
			return stats, fmt.Errorf("deduping exercises: %w", err)
		}
		stats.Deduped = removed
	}

	imp.log.Info("catalog import finished",
		"source", stats.Source,
		"fetched", stats.Fetched,
		"created", stats.Created,
		"skipped", stats.Skipped,
		"deduped", stats.Deduped,
		"dry_run", imp.dryRun)
	return stats, nil
}

// fetch walks the provider chain until one answers.
func (imp *Importer) fetch(ctx context.Context, limit int) ([]CatalogExercise, string, error) {
	for _, p := range imp.providers {
		entries, err := p.Fetch(ctx, limit)
		if err != nil {
			imp.log.Warn("catalog source failed", "source", p.Name(), "error", err)
			continue
		}
		return entries, p.Name(), nil
	}
	return nil, "", ErrNoSource
}

// EnsureSeeded imports the catalog when the exercise library is empty,
// so a fresh install has something to pick from. A populated library is
// left alone.
func (imp *Importer) EnsureSeeded(ctx context.Context) error {
	existing, err := imp.db.ListExercises(ctx)
	if err != nil {
		return fmt.Errorf("listing exercises: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	if _, err := imp.Import(ctx, 0); err != nil {
		return fmt.Errorf("seeding exercise library: %w", err)
	}
	return nil
}
