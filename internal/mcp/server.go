package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/models"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, displayUnit models.Unit, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracking server. Query the exercise library, routines, recent workout sessions, and strength progress over time."),
	)

	h := &handlers{ds: ds, displayUnit: displayUnit, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetRoutines, Handler: h.getRoutines},
		server.ServerTool{Tool: toolGetRecentSessions, Handler: h.getRecentSessions},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolGetExerciseSummary, Handler: h.getExerciseSummary},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resExerciseLibrary, Handler: h.exerciseLibrary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds          DataSource
	displayUnit models.Unit
	log         *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"liftlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The ten most recent workout sessions, newest first, with their sets"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseLibrary = mcp.NewResource(
	"liftlog://exercise_library",
	"Exercise Library",
	mcp.WithResourceDescription("All exercises available for routines, with muscle groups"),
	mcp.WithMIMEType("application/json"),
)
