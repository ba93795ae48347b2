package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, exercises ExerciseSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepSense", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepSense exercise session server. Query training sessions, rep-by-rep events, movement quality scores, and per-exercise aggregates."),
	)

	h := &handlers{ds: ds, exercises: exercises, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolGetSessionSummary, Handler: h.getSessionSummary},
		server.ServerTool{Tool: toolGetRepEvents, Handler: h.getRepEvents},
		server.ServerTool{Tool: toolGetExerciseStats, Handler: h.getExerciseStats},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	exercises ExerciseSource
	log       *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"repsense://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Exercise sessions from the last 14 days with rep counts and quality scores"),
	mcp.WithMIMEType("application/json"),
)
