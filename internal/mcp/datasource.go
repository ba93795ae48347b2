// Package mcp exposes session history to LLM clients over the Model Context
// Protocol.
package mcp

import (
	"context"
	"time"

	"github.com/claude/repsense/internal/catalog"
	"github.com/claude/repsense/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. *storage.DB satisfies it.
type DataSource interface {
	GetSession(ctx context.Context, id string) (*storage.Session, error)
	QuerySessions(ctx context.Context, f storage.SessionFilter) ([]storage.Session, error)
	QueryRepEvents(ctx context.Context, sessionID string) ([]storage.RepEvent, error)
	QueryExerciseStats(ctx context.Context, since time.Time) ([]storage.ExerciseStats, error)
}

// ExerciseSource lists known exercises. *catalog.Catalog satisfies it.
type ExerciseSource interface {
	List(ctx context.Context, limit int) ([]catalog.Exercise, error)
}

var (
	_ DataSource     = (*storage.DB)(nil)
	_ ExerciseSource = (*catalog.Catalog)(nil)
)
