package interfaces

import (
	"errors"
	"sync"

	"resume-coach/domain"
)

var errSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	mu   sync.Mutex
	sess *domain.InterviewSession
}

// SessionRegistry holds in-flight interview sessions in memory. Sessions are
// single-writer: With serializes all operations on one session behind its own
// mutex, so concurrent requests for the same session never interleave.
// Sessions live only for the process lifetime; in-flight interviews are lost
// on restart.
type SessionRegistry struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{entries: make(map[string]*sessionEntry)}
}

// Put registers a freshly started session.
func (r *SessionRegistry) Put(s *domain.InterviewSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s.ID] = &sessionEntry{sess: s}
}

// With runs fn with exclusive access to the session. A session owned by a
// different user is reported as not found rather than leaking its existence.
// A session that reaches Completed is destroyed: its entry is evicted and
// later lookups report not found.
func (r *SessionRegistry) With(id, userID string, fn func(*domain.InterviewSession) error) error {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok || entry.sess.UserID != userID {
		return errSessionNotFound
	}

	entry.mu.Lock()
	err := fn(entry.sess)
	completed := entry.sess.State == domain.StateCompleted
	entry.mu.Unlock()

	if completed {
		r.mu.Lock()
		delete(r.entries, id)
		r.mu.Unlock()
	}
	return err
}
