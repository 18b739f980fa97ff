package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meltforce/liftlog/internal/models"
)

// PutExercise upserts an exercise keyed by id. Create and update are the
// same call; the stored record is returned.
func (db *DB) PutExercise(ctx context.Context, ex models.Exercise) (models.Exercise, error) {
	_, err := db.sql.ExecContext(ctx,
		`INSERT INTO exercises (id, name, muscle_group) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, muscle_group = excluded.muscle_group`,
		ex.ID, ex.Name, ex.MuscleGroup)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("upserting exercise: %w", err)
	}
	return ex, nil
}

// GetExercise retrieves a single exercise. Returns ErrNotFound for a
// missing id.
func (db *DB) GetExercise(ctx context.Context, id string) (models.Exercise, error) {
	var ex models.Exercise
	var group sql.NullString
	err := db.sql.QueryRowContext(ctx,
		`SELECT id, name, muscle_group FROM exercises WHERE id = ?`, id).
		Scan(&ex.ID, &ex.Name, &group)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Exercise{}, ErrNotFound
	}
	if err != nil {
		return models.Exercise{}, fmt.Errorf("querying exercise: %w", err)
	}
	if group.Valid {
		ex.MuscleGroup = &group.String
	}
	return ex, nil
}

// ListExercises returns every exercise in insertion order.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, name, muscle_group FROM exercises ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		var group sql.NullString
		if err := rows.Scan(&ex.ID, &ex.Name, &group); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		if group.Valid {
			ex.MuscleGroup = &group.String
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// DeleteExercise removes an exercise. Deleting a nonexistent id is a no-op.
func (db *DB) DeleteExercise(ctx context.Context, id string) error {
	if _, err := db.sql.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	return nil
}

// DedupeExercisesByName removes exercises whose normalized name repeats
// an earlier one, keeping the first-seen record per name in insertion
// order. Returns the count removed. Idempotent: a second run removes
// nothing.
func (db *DB) DedupeExercisesByName(ctx context.Context) (int, error) {
	all, err := db.ListExercises(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(all))
	var toDelete []string
	for _, ex := range all {
		key := models.NormalizeName(ex.Name)
		if seen[key] {
			toDelete = append(toDelete, ex.ID)
		} else {
			seen[key] = true
		}
	}

	if len(toDelete) == 0 {
		return 0, nil
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting dedupe tx: %w", err)
	}
	defer tx.Rollback()

	for _, id := range toDelete {
		if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("deleting duplicate exercise %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing dedupe: %w", err)
	}
	return len(toDelete), nil
}
