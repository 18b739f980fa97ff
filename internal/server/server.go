package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/progress"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/meltforce/liftlog/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db          *storage.DB
	engine      *session.Engine
	analyzer    *progress.Analyzer
	importer    *catalog.Importer
	log         *slog.Logger
	apiKey      string
	displayUnit models.Unit
	router      chi.Router
}

// New creates a new Server with all routes configured. displayUnit is
// the default chart unit when a request does not pick one.
func New(db *storage.DB, engine *session.Engine, analyzer *progress.Analyzer, importer *catalog.Importer, apiKey string, displayUnit models.Unit, log *slog.Logger) *Server {
	s := &Server{
		db:          db,
		engine:      engine,
		analyzer:    analyzer,
		importer:    importer,
		log:         log,
		apiKey:      apiKey,
		displayUnit: displayUnit,
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Catalog import (API key required when configured)
	s.router.Route("/api/v1/catalog", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Post("/import", s.handleCatalogImport)
	})

	// Library and tracking endpoints (no auth — tsnet handles access)
	s.router.Route("/api/v1/exercises", func(r chi.Router) {
		r.Get("/", s.handleListExercises)
		r.Post("/", s.handlePutExercise)
		r.Post("/dedupe", s.handleDedupeExercises)
		r.Get("/{id}", s.handleGetExercise)
		r.Delete("/{id}", s.handleDeleteExercise)
	})

	s.router.Route("/api/v1/routines", func(r chi.Router) {
		r.Get("/", s.handleListRoutines)
		r.Post("/", s.handlePutRoutine)
		r.Get("/today", s.handleRoutinesToday)
		r.Get("/{id}", s.handleGetRoutine)
		r.Put("/{id}", s.handleUpdateRoutine)
		r.Delete("/{id}", s.handleDeleteRoutine)
	})

	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleStartSession)
		r.Get("/", s.handleRecentSessions)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
		r.Post("/{id}/finish", s.handleFinishSession)
		r.Post("/{id}/entries/{entryID}/sets", s.handleAddSet)
		r.Delete("/{id}/entries/{entryID}/sets/{setID}", s.handleRemoveSet)
		r.Post("/{id}/entries/{entryID}/sets/{setID}/toggle", s.handleToggleSet)
		r.Patch("/{id}/entries/{entryID}/sets/{setID}", s.handleUpdateSet)
	})

	s.router.Get("/api/v1/progress", s.handleProgressRange)
	s.router.Get("/api/v1/progress/{exerciseID}", s.handleProgressForExercise)
}
