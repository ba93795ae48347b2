package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repsense/internal/catalog"
	"github.com/claude/repsense/internal/engine"
	"github.com/claude/repsense/internal/storage"
)

// liveSession is an in-memory session with its engine. All engine access goes
// through the session mutex so frame ingest, reset, and summary reads are
// atomic with respect to each other.
type liveSession struct {
	mu sync.Mutex

	id        string
	exercise  catalog.Exercise
	startedAt time.Time

	engine    *engine.Engine
	repEvents []storage.RepEvent
}

// ingest feeds one frame and records a rep event if the frame completed a rep.
func (ls *liveSession) ingest(f *engine.AngleFrame) engine.Snapshot {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	snap := ls.engine.Ingest(f)
	if snap.RepCompleted {
		ls.repEvents = append(ls.repEvents, storage.RepEvent{
			SessionID:  ls.id,
			RepNumber:  snap.RepCount,
			Quality:    snap.QualityScore,
			AngleRange: snap.AngleRange,
			OccurredAt: time.Now().UTC(),
		})
	}
	return snap
}

// reset zeroes the engine state and discards buffered rep events.
func (ls *liveSession) reset() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.engine.Reset()
	ls.repEvents = ls.repEvents[:0]
}

// rebind switches the session to a different exercise, resetting counters.
func (ls *liveSession) rebind(ex catalog.Exercise) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.exercise = ex
	ls.engine.Start(ex.ID, ex.Name, engine.ProfileFor(ex.Category))
	ls.repEvents = ls.repEvents[:0]
}

// summary returns the engine aggregate under the session lock.
func (ls *liveSession) summary() engine.Summary {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.engine.Summary()
}

// drainRepEvents returns buffered rep events and clears the buffer.
func (ls *liveSession) drainRepEvents() []storage.RepEvent {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	events := ls.repEvents
	ls.repEvents = nil
	return events
}

// registry tracks active sessions by id.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*liveSession
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*liveSession)}
}

// create starts a new live session bound to the given exercise.
func (r *registry) create(ex catalog.Exercise, eng *engine.Engine) *liveSession {
	ls := &liveSession{
		id:        uuid.NewString(),
		exercise:  ex,
		startedAt: time.Now().UTC(),
		engine:    eng,
	}
	ls.engine.Start(ex.ID, ex.Name, engine.ProfileFor(ex.Category))

	r.mu.Lock()
	r.sessions[ls.id] = ls
	r.mu.Unlock()
	return ls
}

func (r *registry) get(id string) (*liveSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.sessions[id]
	return ls, ok
}

// remove drops the session from the registry and returns it for persistence.
func (r *registry) remove(id string) (*liveSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return ls, ok
}

func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
