package mcp

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/repsense/internal/catalog"
	"github.com/claude/repsense/internal/engine"
	"github.com/claude/repsense/internal/storage"
)

type fakeDataSource struct {
	sessions []storage.Session
	events   []storage.RepEvent
	stats    []storage.ExerciseStats
}

func (f *fakeDataSource) GetSession(_ context.Context, id string) (*storage.Session, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeDataSource) QuerySessions(_ context.Context, _ storage.SessionFilter) ([]storage.Session, error) {
	return f.sessions, nil
}

func (f *fakeDataSource) QueryRepEvents(_ context.Context, _ string) ([]storage.RepEvent, error) {
	return f.events, nil
}

func (f *fakeDataSource) QueryExerciseStats(_ context.Context, _ time.Time) ([]storage.ExerciseStats, error) {
	return f.stats, nil
}

type fakeExercises struct{}

func (fakeExercises) List(_ context.Context, _ int) ([]catalog.Exercise, error) {
	return []catalog.Exercise{{ID: "bicep_curl", Name: "Bicep Curl", Category: engine.CategoryUpperBody}}, nil
}

func newTestHandlers() *handlers {
	ds := &fakeDataSource{
		sessions: []storage.Session{{
			ID: "11111111-1111-1111-1111-111111111111", ExerciseID: "bicep_curl",
			ExerciseName: "Bicep Curl", Category: "upper_body",
			StartedAt: time.Now(), RepCount: 12,
		}},
	}
	return &handlers{ds: ds, exercises: fakeExercises{}, log: slog.New(slog.DiscardHandler)}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// TestListSessionsTool verifies the list_sessions tool returns JSON without error.
func TestListSessionsTool(t *testing.T) {
	h := newTestHandlers()
	result, err := h.listSessions(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error result: %+v", result)
	}
}

// TestListSessionsToolBadDate verifies malformed dates yield a tool error.
func TestListSessionsToolBadDate(t *testing.T) {
	h := newTestHandlers()
	result, err := h.listSessions(context.Background(), callRequest(map[string]any{"start": "garbage"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for invalid date")
	}
}

// TestGetSessionSummaryToolRequiresID verifies the required parameter check.
func TestGetSessionSummaryToolRequiresID(t *testing.T) {
	h := newTestHandlers()
	result, err := h.getSessionSummary(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing session_id")
	}
}

// TestGetSessionSummaryTool verifies a known session resolves.
func TestGetSessionSummaryTool(t *testing.T) {
	h := newTestHandlers()
	result, err := h.getSessionSummary(context.Background(), callRequest(map[string]any{
		"session_id": "11111111-1111-1111-1111-111111111111",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error result: %+v", result)
	}
}

// TestListExercisesTool verifies the catalog listing tool.
func TestListExercisesTool(t *testing.T) {
	h := newTestHandlers()
	result, err := h.listExercises(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error result: %+v", result)
	}
}
