package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	source := flag.String("source", "", "import only from one source: free-exercise-db, wger, or seed")
	limit := flag.Int("limit", 0, "maximum exercises to import (0 = no cap)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open database
	db, err := storage.Open(cfg.Database.ResolvedPath())
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database ready", "path", cfg.Database.ResolvedPath())

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the database")
	}

	imp, err := newImporter(db, log, *source, *dryRun)
	if err != nil {
		log.Error("bad source", "error", err)
		os.Exit(1)
	}

	stats, err := imp.Import(context.Background(), *limit)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import stats",
		"source", stats.Source,
		"fetched", stats.Fetched,
		"created", stats.Created,
		"skipped", stats.Skipped,
		"deduped", stats.Deduped,
	)
	log.Info("import complete")
}

// newImporter builds the full fallback chain, or a single-provider one
// when -source is given.
func newImporter(db *storage.DB, log *slog.Logger, source string, dryRun bool) (*catalog.Importer, error) {
	switch source {
	case "":
		return catalog.New(db, log, dryRun), nil
	case "free-exercise-db":
		return catalog.NewWithProviders(db, log, dryRun, catalog.NewFreeExerciseDB()), nil
	case "wger":
		return catalog.NewWithProviders(db, log, dryRun, catalog.NewWger()), nil
	case "seed":
		return catalog.NewWithProviders(db, log, dryRun, catalog.Seed{}), nil
	}
	return nil, fmt.Errorf("unknown source %q (want free-exercise-db, wger, or seed)", source)
}
