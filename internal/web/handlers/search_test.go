package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shubhamdhabu/trace-rescue/internal/cases"
	"github.com/shubhamdhabu/trace-rescue/internal/config"
	"github.com/shubhamdhabu/trace-rescue/internal/recognizer"
	"github.com/shubhamdhabu/trace-rescue/internal/search"
)

// stubBackend is a recognition backend whose polls never find anyone, so a
// session stays live until cancelled.
type stubBackend struct{}

func (stubBackend) EnrollFace(ctx context.Context, label string) error               { return nil }
func (stubBackend) Train(ctx context.Context) error                                  { return nil }
func (stubBackend) StartRecognition(ctx context.Context, caseID, label string) error { return nil }
func (stubBackend) PollDetection(ctx context.Context) (*recognizer.Detection, error) {
	return &recognizer.Detection{Found: false}, nil
}

func newSearchFixture(t *testing.T, seed ...cases.Case) (*SearchHandler, *search.Manager) {
	t.Helper()
	store, _ := seededCaseStore(seed...)
	manager := search.NewManager()
	orch := search.NewOrchestrator(stubBackend{}, store, &config.RecognizerConfig{
		PollInterval:    5 * time.Millisecond,
		MaxPollFailures: 5,
	})
	return NewSearchHandler(store, manager, orch), manager
}

func activeCase(owner string) cases.Case {
	return cases.Case{ID: "case-1", OwnerID: owner, FullName: "Jane Doe", Status: cases.StatusActive, CreatedAt: time.Now()}
}

// cancelSession stops the live session so no goroutine outlives the test
func cancelSession(t *testing.T, m *search.Manager) {
	t.Helper()
	if sess := m.Active(); sess != nil {
		sess.Cancel()
	}
}

func startSearch(t *testing.T, h *SearchHandler, caseID string, p cases.Principal) *httptest.ResponseRecorder {
	t.Helper()
	body := jsonBody(t, map[string]string{"case_id": caseID})
	req := requestWithPrincipal("POST", "/api/v1/search", body, p)
	w := httptest.NewRecorder()
	h.Start(w, req)
	return w
}

func TestSearchStart(t *testing.T) {
	h, m := newSearchFixture(t, activeCase(testPrincipal.ID))
	defer cancelSession(t, m)

	w := startSearch(t, h, "case-1", testPrincipal)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var view search.View
	decodeJSON(t, w, &view)
	if view.ID == "" {
		t.Error("expected a session id")
	}
	if view.CaseID != "case-1" {
		t.Errorf("expected case-1, got %s", view.CaseID)
	}
}

func TestSearchStart_SecondSessionConflicts(t *testing.T) {
	h, m := newSearchFixture(t, activeCase(testPrincipal.ID))
	defer cancelSession(t, m)

	if w := startSearch(t, h, "case-1", testPrincipal); w.Code != http.StatusAccepted {
		t.Fatalf("first start: expected 202, got %d", w.Code)
	}
	if w := startSearch(t, h, "case-1", testPrincipal); w.Code != http.StatusConflict {
		t.Errorf("second start: expected 409, got %d", w.Code)
	}
}

func TestSearchStart_NonOwnerForbidden(t *testing.T) {
	c := activeCase("other")
	c.IsPublic = true
	h, _ := newSearchFixture(t, c)

	if w := startSearch(t, h, "case-1", testPrincipal); w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestSearchStart_InactiveCaseConflicts(t *testing.T) {
	c := activeCase(testPrincipal.ID)
	c.Status = cases.StatusClosed
	h, _ := newSearchFixture(t, c)

	if w := startSearch(t, h, "case-1", testPrincipal); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for a closed case, got %d", w.Code)
	}
}

func TestSearchStatusAndCancel(t *testing.T) {
	h, m := newSearchFixture(t, activeCase(testPrincipal.ID))

	w := startSearch(t, h, "case-1", testPrincipal)
	var view search.View
	decodeJSON(t, w, &view)

	req := requestWithPrincipal("GET", "/api/v1/search/"+view.ID, nil, testPrincipal)
	req = requestWithChiParams(req, map[string]string{"sessionId": view.ID})
	w = httptest.NewRecorder()
	h.Status(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", w.Code)
	}

	req = requestWithPrincipal("DELETE", "/api/v1/search/"+view.ID, nil, testPrincipal)
	req = requestWithChiParams(req, map[string]string{"sessionId": view.ID})
	w = httptest.NewRecorder()
	h.Cancel(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d", w.Code)
	}

	var cancelled search.View
	decodeJSON(t, w, &cancelled)
	if cancelled.State != search.StateCancelled {
		t.Errorf("expected cancelled state, got %s", cancelled.State)
	}
	if m.Active() != nil {
		t.Error("expected no live session after cancel")
	}
	if m.Get(view.ID) != nil {
		t.Error("expected the session to be removed from the registry")
	}

	req = requestWithPrincipal("GET", "/api/v1/search/"+view.ID, nil, testPrincipal)
	req = requestWithChiParams(req, map[string]string{"sessionId": view.ID})
	w = httptest.NewRecorder()
	h.Status(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete: expected 404, got %d", w.Code)
	}
}

func TestSearchStatus_ForeignSessionHidden(t *testing.T) {
	h, m := newSearchFixture(t, activeCase(testPrincipal.ID))
	defer cancelSession(t, m)

	w := startSearch(t, h, "case-1", testPrincipal)
	var view search.View
	decodeJSON(t, w, &view)

	other := cases.Principal{ID: "other-user"}
	req := requestWithPrincipal("GET", "/api/v1/search/"+view.ID, nil, other)
	req = requestWithChiParams(req, map[string]string{"sessionId": view.ID})
	w2 := httptest.NewRecorder()
	h.Status(w2, req)

	if w2.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a foreign session, got %d", w2.Code)
	}
}
