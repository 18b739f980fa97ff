package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// PutRoutine upserts a routine keyed by id, refreshing UpdatedAt (and
// stamping CreatedAt on first write). The record as stored is returned,
// so callers never re-fetch after a mutation.
func (db *DB) PutRoutine(ctx context.Context, r models.WorkoutRoutine) (models.WorkoutRoutine, error) {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	doc, err := json.Marshal(r)
	if err != nil {
		return models.WorkoutRoutine{}, fmt.Errorf("encoding routine: %w", err)
	}

	_, err = db.sql.ExecContext(ctx,
		`INSERT INTO routines (id, name, document, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, document = excluded.document, updated_at = excluded.updated_at`,
		r.ID, r.Name, string(doc), formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	if err != nil {
		return models.WorkoutRoutine{}, fmt.Errorf("upserting routine: %w", err)
	}
	return r, nil
}

// GetRoutine retrieves a single routine. Returns ErrNotFound for a
// missing id.
func (db *DB) GetRoutine(ctx context.Context, id string) (models.WorkoutRoutine, error) {
	var doc string
	err := db.sql.QueryRowContext(ctx,
		`SELECT document FROM routines WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkoutRoutine{}, ErrNotFound
	}
	if err != nil {
		return models.WorkoutRoutine{}, fmt.Errorf("querying routine: %w", err)
	}
	return decodeRoutine(doc)
}

// ListRoutines returns all routines, most recently updated first.
func (db *DB) ListRoutines(ctx context.Context) ([]models.WorkoutRoutine, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT document FROM routines ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRoutine
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning routine: %w", err)
		}
		r, err := decodeRoutine(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// DeleteRoutine removes a routine. Deleting a nonexistent id is a no-op.
func (db *DB) DeleteRoutine(ctx context.Context, id string) error {
	if _, err := db.sql.ExecContext(ctx, `DELETE FROM routines WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting routine: %w", err)
	}
	return nil
}

// RoutinesForDay returns the routines scheduled for the given weekday
// (0 = Sunday). Computed by a full scan; reflects all writes made before
// the call.
func (db *DB) RoutinesForDay(ctx context.Context, day int) ([]models.WorkoutRoutine, error) {
	all, err := db.ListRoutines(ctx)
	if err != nil {
		return nil, err
	}
	var result []models.WorkoutRoutine
	for _, r := range all {
		if r.ScheduledOn(day) {
			result = append(result, r)
		}
	}
	return result, nil
}

func decodeRoutine(doc string) (models.WorkoutRoutine, error) {
	var r models.WorkoutRoutine
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return models.WorkoutRoutine{}, fmt.Errorf("decoding routine: %w", err)
	}
	return r, nil
}
