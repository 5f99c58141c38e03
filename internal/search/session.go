// Package search runs one recognition search session: the sequential
// enroll/train/recognize workflow against the recognition backend, the
// detection poll loop, and the reconciliation of a confirmed match back into
// case state.
package search

import (
	"context"
	"sync"
	"time"
)

// State is the lifecycle state of a search session.
type State string

const (
	StateIdle        State = "idle"
	StateEnrolling   State = "enrolling"
	StateTraining    State = "training"
	StateRecognizing State = "recognizing"
	StatePolling     State = "polling"
	StateMatched     State = "matched"
	StateCancelled   State = "cancelled"
	StateFailed      State = "failed"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateMatched || s == StateCancelled || s == StateFailed
}

// Match is a confirmed detection as reported to the caller. Unreconciled is
// set when the detection arrived but the case-status update failed, so the
// caller can surface the discrepancy instead of silently losing the match.
type Match struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	Message      string `json:"message"`
	ImageURL     string `json:"image_url,omitempty"`
	Unreconciled bool   `json:"unreconciled"`
}

// Event is one progress notification from a session.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// eventChannelBuffer sizes per-listener event channels; slow listeners drop
// events rather than block the session.
const eventChannelBuffer = 64

// Session is one run of the enroll-train-recognize-poll workflow for a single
// case/label pair. It owns the cancellation token for the whole workflow,
// including the detection poll timer.
type Session struct {
	ID      string
	CaseID  string
	Label   string
	OwnerID string

	mu          sync.RWMutex
	state       State
	errMsg      string
	match       *Match
	startedAt   time.Time
	completedAt *time.Time

	cancel    context.CancelFunc
	done      chan struct{}
	listeners []chan Event
}

// newSession creates an idle session with its cancellation token.
func newSession(id, caseID, label, ownerID string, cancel context.CancelFunc) *Session {
	return &Session{
		ID:        id,
		CaseID:    caseID,
		Label:     label,
		OwnerID:   ownerID,
		state:     StateIdle,
		startedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// View is the JSON-safe snapshot of a session.
type View struct {
	ID          string     `json:"id"`
	CaseID      string     `json:"case_id"`
	Label       string     `json:"label"`
	State       State      `json:"state"`
	Error       string     `json:"error,omitempty"`
	Match       *Match     `json:"match,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Snapshot returns a consistent copy of the session for responses and events.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		ID:          s.ID,
		CaseID:      s.CaseID,
		Label:       s.Label,
		State:       s.state,
		Error:       s.errMsg,
		Match:       s.match,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
	}
}

// Cancel signals the session to stop and blocks until the workflow goroutine
// has fully exited. After Cancel returns, no further backend call fires on
// behalf of this session.
func (s *Session) Cancel() {
	s.cancel()
	<-s.done
}

// Done is closed when the workflow goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// setState transitions to a non-terminal state and notifies listeners.
func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.sendEvent(Event{Type: "status", Data: s.Snapshot()})
}

// finish transitions to a terminal state exactly once.
func (s *Session) finish(state State, match *Match, errMsg string) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	now := time.Now()
	s.state = state
	s.match = match
	s.errMsg = errMsg
	s.completedAt = &now
	s.mu.Unlock()

	event := Event{Type: string(state), Data: s.Snapshot()}
	if errMsg != "" {
		event.Message = errMsg
	}
	s.sendEvent(event)
}

// AddListener registers an event listener channel.
func (s *Session) AddListener() chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, eventChannelBuffer)
	s.listeners = append(s.listeners, ch)
	return ch
}

// RemoveListener unregisters and closes a listener channel.
func (s *Session) RemoveListener(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, listener := range s.listeners {
		if listener == ch {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// sendEvent delivers an event to all listeners without blocking.
func (s *Session) sendEvent(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, listener := range s.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}
