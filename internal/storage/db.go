package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned by single-record lookups when no record has
// the given id. Absence is never an internal error.
var ErrNotFound = errors.New("record not found")

// timeFormat is the text layout for indexed time columns. Fixed width
// and UTC so lexicographic order matches chronological order.
const timeFormat = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeFormat) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeFormat, s) }

// DB wraps the embedded SQLite database and provides repository methods
// for the four collections: exercises, routines, sessions and progress
// records. Construct one in main and inject it; there is no global handle.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and
// applies pending migrations. Pass MemoryPath for a non-persistent
// database (degraded mode when the on-disk open fails).
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Single connection: serializes writers and keeps :memory: databases
	// from silently becoming one-per-connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{sql: db}, nil
}

// MemoryPath opens an in-memory database. Used as the degraded fallback
// when the on-disk store cannot be opened.
const MemoryPath = ":memory:"

// Close closes the underlying database.
func (db *DB) Close() error {
	return db.sql.Close()
}

// runMigrations applies all pending embedded migrations.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
