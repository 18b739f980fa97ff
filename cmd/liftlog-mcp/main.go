package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	dbPath := flag.String("db", "liftlog.db", "path to the sqlite database (local mode)")
	remoteURL := flag.String("url", "", "base URL of a running LiftLog server (remote mode, overrides -db)")
	unit := flag.String("unit", string(models.DefaultUnit), "default display weight unit: kg or lb")
	flag.Parse()

	// MCP talks JSON-RPC on stdout; logs must go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	displayUnit, err := models.ParseUnit(*unit)
	if err != nil {
		log.Error("invalid unit", "error", err)
		os.Exit(1)
	}

	var ds mcp.DataSource
	if *remoteURL != "" {
		ds = mcp.NewHTTPClient(*remoteURL)
		log.Info("remote mode", "url", *remoteURL)
	} else {
		db, err := storage.Open(*dbPath)
		if err != nil {
			log.Error("failed to open database", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = mcp.NewLocalSource(db)
		log.Info("local mode", "path", *dbPath)
	}

	s := mcp.New(ds, displayUnit, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
