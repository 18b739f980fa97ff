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

// PutProgress upserts a progress record keyed by id. The application
// writes these once at session finish (through FinishSession) and never
// updates them; Put exists for imports and tests.
func (db *DB) PutProgress(ctx context.Context, rec models.ProgressRecord) (models.ProgressRecord, error) {
	sets, err := json.Marshal(rec.Sets)
	if err != nil {
		return models.ProgressRecord{}, fmt.Errorf("encoding progress sets: %w", err)
	}
	_, err = db.sql.ExecContext(ctx,
		`INSERT INTO progress_records (id, exercise_id, session_id, date, sets) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   exercise_id = excluded.exercise_id, session_id = excluded.session_id,
		   date = excluded.date, sets = excluded.sets`,
		rec.ID, rec.ExerciseID, rec.SessionID, formatTime(rec.Date), string(sets))
	if err != nil {
		return models.ProgressRecord{}, fmt.Errorf("upserting progress record: %w", err)
	}
	return rec, nil
}

// GetProgress retrieves a single progress record. Returns ErrNotFound
// for a missing id.
func (db *DB) GetProgress(ctx context.Context, id string) (models.ProgressRecord, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT id, exercise_id, session_id, date, sets FROM progress_records WHERE id = ?`, id)
	rec, err := scanProgressRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProgressRecord{}, ErrNotFound
	}
	return rec, err
}

// ProgressForExercise returns all progress records for an exercise,
// oldest first.
func (db *DB) ProgressForExercise(ctx context.Context, exerciseID string) ([]models.ProgressRecord, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, exercise_id, session_id, date, sets FROM progress_records
		 WHERE exercise_id = ? ORDER BY date ASC, id ASC`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying progress by exercise: %w", err)
	}
	defer rows.Close()
	return scanProgressRows(rows)
}

// ProgressInRange returns all progress records with date in
// [start, end], both ends inclusive, oldest first.
func (db *DB) ProgressInRange(ctx context.Context, start, end time.Time) ([]models.ProgressRecord, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, exercise_id, session_id, date, sets FROM progress_records
		 WHERE date >= ? AND date <= ? ORDER BY date ASC, id ASC`,
		formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("querying progress in range: %w", err)
	}
	defer rows.Close()
	return scanProgressRows(rows)
}

// LatestProgressForExercise returns the most recent progress record for
// an exercise. Equal dates are broken by the lexicographically highest
// id, so the result is deterministic. Returns ErrNotFound when the
// exercise has no history.
func (db *DB) LatestProgressForExercise(ctx context.Context, exerciseID string) (models.ProgressRecord, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT id, exercise_id, session_id, date, sets FROM progress_records
		 WHERE exercise_id = ? ORDER BY date DESC, id DESC LIMIT 1`, exerciseID)
	rec, err := scanProgressRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProgressRecord{}, ErrNotFound
	}
	return rec, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgressRow(row rowScanner) (models.ProgressRecord, error) {
	var rec models.ProgressRecord
	var date, sets string
	if err := row.Scan(&rec.ID, &rec.ExerciseID, &rec.SessionID, &date, &sets); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ProgressRecord{}, err
		}
		return models.ProgressRecord{}, fmt.Errorf("scanning progress record: %w", err)
	}

	t, err := parseTime(date)
	if err != nil {
		return models.ProgressRecord{}, fmt.Errorf("parsing progress date: %w", err)
	}
	rec.Date = t

	if err := json.Unmarshal([]byte(sets), &rec.Sets); err != nil {
		return models.ProgressRecord{}, fmt.Errorf("decoding progress sets: %w", err)
	}
	return rec, nil
}

func scanProgressRows(rows *sql.Rows) ([]models.ProgressRecord, error) {
	var result []models.ProgressRecord
	for rows.Next() {
		rec, err := scanProgressRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
