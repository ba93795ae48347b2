// Package server exposes the session engine over HTTP and websockets.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/repsense/internal/catalog"
	"github.com/claude/repsense/internal/engine"
	"github.com/claude/repsense/internal/storage"
)

// Store persists finished sessions and their rep events.
type Store interface {
	InsertSession(ctx context.Context, s *storage.Session) error
	FinishSession(ctx context.Context, s *storage.Session) error
	InsertRepEvents(ctx context.Context, events []storage.RepEvent) error
	GetSession(ctx context.Context, id string) (*storage.Session, error)
	QuerySessions(ctx context.Context, f storage.SessionFilter) ([]storage.Session, error)
	QueryRepEvents(ctx context.Context, sessionID string) ([]storage.RepEvent, error)
	QueryExerciseStats(ctx context.Context, since time.Time) ([]storage.ExerciseStats, error)
}

// ExerciseDirectory resolves exercise names to profiles.
type ExerciseDirectory interface {
	Lookup(ctx context.Context, idOrName string) (*catalog.Exercise, error)
	List(ctx context.Context, limit int) ([]catalog.Exercise, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     Store
	exercises ExerciseDirectory
	sessions  *registry
	engineCfg engine.Config
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, exercises ExerciseDirectory, engineCfg engine.Config, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:     store,
		exercises: exercises,
		sessions:  newRegistry(),
		engineCfg: engineCfg,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
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

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}/summary", s.handleSessionSummary)
		r.Post("/sessions/{id}/frames", s.handleIngestFrame)
		r.Post("/sessions/{id}/reset", s.handleResetSession)
		r.Post("/sessions/{id}/end", s.handleEndSession)
		r.Get("/sessions/{id}/reps", s.handleRepEvents)

		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/stats", s.handleExerciseStats)

		r.Get("/ws/sessions/{id}", s.handleWS)
	})
}
