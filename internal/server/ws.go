package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/claude/repsense/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth is handled by the API key middleware; origins are not restricted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is one client message on a session stream.
type wsRequest struct {
	Type      string      `json:"type"`
	Angles    *[8]float64 `json:"angles,omitempty"`
	Timestamp float64     `json:"timestamp,omitempty"`
	Exercise  string      `json:"exercise,omitempty"`
}

type wsAnalysis struct {
	Type string `json:"type"`
	engine.Snapshot
}

type wsSummary struct {
	Type string `json:"type"`
	engine.Summary
}

type wsError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type wsAck struct {
	Type         string `json:"type"`
	ExerciseID   string `json:"exercise_id,omitempty"`
	ExerciseName string `json:"exercise_name,omitempty"`
}

// handleWS streams frames for one session: the client sends frame,
// set_exercise, reset, and get_summary messages; the server answers each with
// analysis, exercise_set, reset, summary, or error.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	s.log.Info("websocket connected", "session", ls.id)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read error", "session", ls.id, "error", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			conn.WriteJSON(wsError{Type: "error", Message: "invalid JSON: " + err.Error()})
			continue
		}

		switch req.Type {
		case "frame":
			var frame *engine.AngleFrame
			if req.Angles != nil {
				frame = &engine.AngleFrame{Angles: *req.Angles, Timestamp: req.Timestamp}
			}
			snap := ls.ingest(frame)
			if err := conn.WriteJSON(wsAnalysis{Type: "analysis", Snapshot: snap}); err != nil {
				return
			}

		case "set_exercise":
			ex, err := s.exercises.Lookup(r.Context(), req.Exercise)
			if err != nil {
				conn.WriteJSON(wsError{Type: "error", Message: "unknown exercise: " + req.Exercise})
				continue
			}
			ls.rebind(*ex)
			if err := conn.WriteJSON(wsAck{Type: "exercise_set", ExerciseID: ex.ID, ExerciseName: ex.Name}); err != nil {
				return
			}

		case "reset":
			ls.reset()
			if err := conn.WriteJSON(wsAck{Type: "reset"}); err != nil {
				return
			}

		case "get_summary":
			if err := conn.WriteJSON(wsSummary{Type: "summary", Summary: ls.summary()}); err != nil {
				return
			}

		default:
			conn.WriteJSON(wsError{Type: "error", Message: "unknown message type: " + req.Type})
		}
	}
}
