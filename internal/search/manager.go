package search

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Manager tracks search sessions and enforces the single-live-session rule:
// a new session is rejected while a prior one has not reached a terminal
// state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	active   *Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session for the case/label pair and returns it
// along with the context its workflow must run under. Returns
// ErrSessionActive while another session is live.
func (m *Manager) Create(caseID, label, ownerID string) (*Session, context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && !m.active.State().Terminal() {
		return nil, nil, ErrSessionActive
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := newSession(uuid.New().String(), caseID, label, ownerID, cancel)
	m.sessions[sess.ID] = sess
	m.active = sess
	return sess, ctx, nil
}

// Get retrieves a session by id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Active returns the live session, or nil when none is running.
func (m *Manager) Active() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil || m.active.State().Terminal() {
		return nil
	}
	return m.active
}

// Delete removes a terminal session from the registry.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	if m.active != nil && m.active.ID == id {
		m.active = nil
	}
}
