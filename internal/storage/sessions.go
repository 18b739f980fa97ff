package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meltforce/liftlog/internal/models"
)

// PutSession upserts a session keyed by id. Every set toggle and edit
// writes the full record back through here: last write wins on the whole
// document, which is safe because mutations always read the current
// record first.
func (db *DB) PutSession(ctx context.Context, s models.WorkoutSession) (models.WorkoutSession, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("encoding session: %w", err)
	}

	var endTime any
	if s.EndTime != nil {
		endTime = formatTime(*s.EndTime)
	}

	_, err = db.sql.ExecContext(ctx,
		`INSERT INTO sessions (id, routine_id, document, start_time, end_time) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   routine_id = excluded.routine_id, document = excluded.document,
		   start_time = excluded.start_time, end_time = excluded.end_time`,
		s.ID, s.RoutineID, string(doc), formatTime(s.StartTime), endTime)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("upserting session: %w", err)
	}
	return s, nil
}

// GetSession retrieves a single session. Returns ErrNotFound for a
// missing id.
func (db *DB) GetSession(ctx context.Context, id string) (models.WorkoutSession, error) {
	var doc string
	err := db.sql.QueryRowContext(ctx,
		`SELECT document FROM sessions WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkoutSession{}, ErrNotFound
	}
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("querying session: %w", err)
	}
	return decodeSession(doc)
}

// DeleteSession removes a session. Deleting a nonexistent id is a no-op.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	if _, err := db.sql.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// RecentSessions returns up to limit sessions, newest start time first.
func (db *DB) RecentSessions(ctx context.Context, limit int) ([]models.WorkoutSession, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT document FROM sessions ORDER BY start_time DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// SessionsByRoutine returns all sessions started from the given routine,
// oldest first.
func (db *DB) SessionsByRoutine(ctx context.Context, routineID string) ([]models.WorkoutSession, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT document FROM sessions WHERE routine_id = ? ORDER BY start_time ASC, id ASC`, routineID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by routine: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// FinishSession atomically writes the finished session together with its
// progress records: either everything commits or the session stays
// unfinished. No partial-finish state is observable.
func (db *DB) FinishSession(ctx context.Context, s models.WorkoutSession, records []models.ProgressRecord) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	var endTime any
	if s.EndTime != nil {
		endTime = formatTime(*s.EndTime)
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting finish tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET document = ?, end_time = ? WHERE id = ?`,
		string(doc), endTime, s.ID)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	for _, rec := range records {
		sets, err := json.Marshal(rec.Sets)
		if err != nil {
			return fmt.Errorf("encoding progress sets: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO progress_records (id, exercise_id, session_id, date, sets) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, rec.ExerciseID, rec.SessionID, formatTime(rec.Date), string(sets)); err != nil {
			return fmt.Errorf("inserting progress record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing finish: %w", err)
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]models.WorkoutSession, error) {
	var result []models.WorkoutSession
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s, err := decodeSession(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func decodeSession(doc string) (models.WorkoutSession, error) {
	var s models.WorkoutSession
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return models.WorkoutSession{}, fmt.Errorf("decoding session: %w", err)
	}
	return s, nil
}
