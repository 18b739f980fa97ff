package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/progress"
	"github.com/meltforce/liftlog/internal/server"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/meltforce/liftlog/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("LiftLog starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open database. When the on-disk store cannot be opened, fall back
	// to an in-memory one so workouts can still be tracked for this run.
	dbPath := cfg.Database.ResolvedPath()
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Warn("on-disk store unavailable, using in-memory database", "path", dbPath, "error", err)
		db, err = storage.Open(storage.MemoryPath)
		if err != nil {
			log.Error("in-memory fallback failed", "error", err)
			os.Exit(1)
		}
	}
	defer db.Close()
	log.Info("database ready", "path", dbPath)

	displayUnit := models.DefaultUnit
	if cfg.Units.Display != "" {
		displayUnit, err = models.ParseUnit(cfg.Units.Display)
		if err != nil {
			log.Error("invalid display unit", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	// Seed the exercise library on first run
	importer := catalog.New(db, log, false)
	if err := importer.EnsureSeeded(ctx); err != nil {
		log.Warn("exercise library seeding failed", "error", err)
	}

	engine := session.NewEngine(db, log)
	analyzer := progress.NewAnalyzer(db)

	// Create server
	srv := server.New(db, engine, analyzer, importer, cfg.Auth.APIKey, displayUnit, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
