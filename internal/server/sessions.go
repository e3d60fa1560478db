package server

import (
	"sync"
	"time"

	"github.com/alkime/promo/internal/lead"
	"github.com/google/uuid"
)

// SessionStore keeps one wizard state per browser session, in memory only.
type SessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

type session struct {
	state    *lead.State
	lastSeen time.Time
}

// NewSessionStore creates a store that forgets sessions idle longer than ttl.
// A non-positive ttl keeps sessions until the process exits.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Create starts a fresh wizard session.
func (st *SessionStore) Create() uuid.UUID {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked()

	id := uuid.New()
	st.sessions[id] = &session{state: lead.New(), lastSeen: st.now()}

	return id
}

// Exists reports whether id names a live session.
func (st *SessionStore) Exists(id uuid.UUID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked()
	_, ok := st.sessions[id]

	return ok
}

// Do runs fn against the session's state and returns a snapshot taken after it.
// Requests for the same session are serialized.
func (st *SessionStore) Do(id uuid.UUID, fn func(*lead.State)) (lead.State, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return lead.State{}, false //nolint:exhaustruct // empty state for unknown session
	}

	sess.lastSeen = st.now()
	if fn != nil {
		fn(sess.state)
	}

	return sess.state.Snapshot(), true
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	return len(st.sessions)
}

func (st *SessionStore) pruneLocked() {
	if st.ttl <= 0 {
		return
	}

	cutoff := st.now().Add(-st.ttl)
	for id, sess := range st.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}
