package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/claude/repsense/internal/engine"
)

func dialWS(t *testing.T, ts *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws/sessions/" + sessionID
	header := http.Header{"X-API-Key": []string{testAPIKey}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWSType(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("websocket read failed: %v", err)
	}
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}
	return envelope.Type, data
}

// TestWSFrameAnalysis verifies that a frame message returns an analysis
// snapshot over the stream.
func TestWSFrameAnalysis(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := startSession(t, srv, "bicep_curl")
	conn := dialWS(t, ts, id)

	angles := [8]float64{90, 90, 90, 90, 90, 90, 90, 90}
	msg := wsRequest{Type: "frame", Angles: &angles, Timestamp: 0.033}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}

	typ, data := readWSType(t, conn)
	if typ != "analysis" {
		t.Fatalf("message type = %q, want analysis (%s)", typ, data)
	}
	var resp wsAnalysis
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RepCount != 0 {
		t.Errorf("rep_count = %d, want 0", resp.RepCount)
	}
	if resp.Phase != engine.PhaseStart {
		t.Errorf("phase = %v, want start", resp.Phase)
	}
}

// TestWSMissingAnglesHoldsState verifies a frame message without angles is
// treated as a no-landmarks frame rather than an error.
func TestWSMissingAnglesHoldsState(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := startSession(t, srv, "bicep_curl")
	conn := dialWS(t, ts, id)

	if err := conn.WriteJSON(wsRequest{Type: "frame"}); err != nil {
		t.Fatal(err)
	}
	typ, data := readWSType(t, conn)
	if typ != "analysis" {
		t.Fatalf("message type = %q, want analysis (%s)", typ, data)
	}
}

// TestWSSetExerciseAndSummary verifies rebinding and summary over the stream.
func TestWSSetExerciseAndSummary(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := startSession(t, srv, "bicep_curl")
	conn := dialWS(t, ts, id)

	if err := conn.WriteJSON(wsRequest{Type: "set_exercise", Exercise: "Barbell Squat"}); err != nil {
		t.Fatal(err)
	}
	typ, data := readWSType(t, conn)
	if typ != "exercise_set" {
		t.Fatalf("message type = %q, want exercise_set (%s)", typ, data)
	}

	if err := conn.WriteJSON(wsRequest{Type: "get_summary"}); err != nil {
		t.Fatal(err)
	}
	typ, data = readWSType(t, conn)
	if typ != "summary" {
		t.Fatalf("message type = %q, want summary (%s)", typ, data)
	}
	var resp wsSummary
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Category != engine.CategoryLowerBody {
		t.Errorf("category = %v, want lower_body after rebind", resp.Category)
	}
}

// TestWSResetAck verifies the reset message acknowledges and zeroes state.
func TestWSResetAck(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := startSession(t, srv, "bicep_curl")
	conn := dialWS(t, ts, id)

	if err := conn.WriteJSON(wsRequest{Type: "reset"}); err != nil {
		t.Fatal(err)
	}
	typ, _ := readWSType(t, conn)
	if typ != "reset" {
		t.Fatalf("message type = %q, want reset", typ)
	}
}

// TestWSUnknownType verifies unknown message types produce an error reply
// without closing the stream.
func TestWSUnknownType(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := startSession(t, srv, "bicep_curl")
	conn := dialWS(t, ts, id)

	if err := conn.WriteJSON(wsRequest{Type: "bogus"}); err != nil {
		t.Fatal(err)
	}
	typ, _ := readWSType(t, conn)
	if typ != "error" {
		t.Fatalf("message type = %q, want error", typ)
	}

	// Stream must still be usable.
	if err := conn.WriteJSON(wsRequest{Type: "get_summary"}); err != nil {
		t.Fatal(err)
	}
	typ, _ = readWSType(t, conn)
	if typ != "summary" {
		t.Fatalf("message type after error = %q, want summary", typ)
	}
}

// TestWSUnknownSession verifies dialing a missing session fails the handshake.
func TestWSUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws/sessions/nope"
	header := http.Header{"X-API-Key": []string{testAPIKey}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("expected dial to fail for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("handshake response = %+v, want 404", resp)
	}
}
