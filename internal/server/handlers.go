package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/repsense/internal/engine"
	"github.com/claude/repsense/internal/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": s.sessions.count(),
	})
}

type startSessionRequest struct {
	Exercise string `json:"exercise"`
}

type startSessionResponse struct {
	SessionID    string          `json:"session_id"`
	ExerciseID   string          `json:"exercise_id"`
	ExerciseName string          `json:"exercise_name"`
	Category     engine.Category `json:"category"`
	StartedAt    time.Time       `json:"started_at"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise is required"})
		return
	}

	ex, err := s.exercises.Lookup(r.Context(), req.Exercise)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown exercise: " + req.Exercise})
		return
	}

	ls := s.sessions.create(*ex, engine.New(s.engineCfg, s.log))

	if err := s.store.InsertSession(r.Context(), &storage.Session{
		ID:           ls.id,
		ExerciseID:   ex.ID,
		ExerciseName: ex.Name,
		Category:     string(ex.Category),
		StartedAt:    ls.startedAt,
	}); err != nil {
		s.sessions.remove(ls.id)
		s.log.Error("session insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start session"})
		return
	}

	s.log.Info("session started", "session", ls.id, "exercise", ex.Name)
	writeJSON(w, http.StatusCreated, startSessionResponse{
		SessionID:    ls.id,
		ExerciseID:   ex.ID,
		ExerciseName: ex.Name,
		Category:     ex.Category,
		StartedAt:    ls.startedAt,
	})
}

func (s *Server) handleIngestFrame(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	var frame engine.AngleFrame
	if err := json.NewDecoder(r.Body).Decode(&frame); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ls.ingest(&frame))
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	ls.reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if ls, ok := s.sessions.get(id); ok {
		writeJSON(w, http.StatusOK, ls.summary())
		return
	}

	// Not live: fall back to the finished session record.
	stored, err := s.store.GetSession(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ls, ok := s.sessions.remove(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	summary := ls.summary()
	now := time.Now().UTC()
	record := &storage.Session{
		ID:               ls.id,
		ExerciseID:       summary.ExerciseID,
		ExerciseName:     summary.ExerciseName,
		Category:         string(summary.Category),
		StartedAt:        ls.startedAt,
		EndedAt:          &now,
		RepCount:         summary.RepCount,
		DurationSeconds:  summary.DurationSeconds,
		AvgQuality:       summary.AvgQuality,
		AvgConfidence:    summary.AvgConfidence,
		AvgFormScore:     summary.AvgFormScore,
		PhaseTransitions: summary.PhaseTransitions,
	}
	if err := s.store.FinishSession(r.Context(), record); err != nil {
		s.log.Error("session finish failed", "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to persist session"})
		return
	}
	if err := s.store.InsertRepEvents(r.Context(), ls.drainRepEvents()); err != nil {
		s.log.Error("rep event insert failed", "session", id, "error", err)
	}

	s.log.Info("session ended", "session", id, "reps", summary.RepCount)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.SessionFilter{
		ExerciseID: q.Get("exercise_id"),
		Category:   q.Get("category"),
	}
	if v := q.Get("since"); v != "" {
		t, err := parseTimestamp(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid since: " + err.Error()})
			return
		}
		filter.Since = t
	}
	if v := q.Get("until"); v != "" {
		t, err := parseTimestamp(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid until: " + err.Error()})
			return
		}
		filter.Until = t
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	sessions, err := s.store.QuerySessions(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleRepEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Live sessions report from the in-memory buffer.
	if ls, ok := s.sessions.get(id); ok {
		ls.mu.Lock()
		events := make([]storage.RepEvent, len(ls.repEvents))
		copy(events, ls.repEvents)
		ls.mu.Unlock()
		writeJSON(w, http.StatusOK, events)
		return
	}

	events, err := s.store.QueryRepEvents(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	exercises, err := s.exercises.List(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleExerciseStats(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := parseTimestamp(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid since: " + err.Error()})
			return
		}
		since = t
	}

	stats, err := s.store.QueryExerciseStats(r.Context(), since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
