package handlers

import (
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shubhamdhabu/trace-rescue/internal/cases"
)

// statsWindowDays is the length of the per-day registration chart.
const statsWindowDays = 7

// StatsHandler serves the dashboard summary. Results are cached per principal
// for a short period since the dashboard polls this endpoint.
type StatsHandler struct {
	store *cases.Store
	cache *gocache.Cache
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store *cases.Store) *StatsHandler {
	return &StatsHandler{
		store: store,
		cache: gocache.New(30*time.Second, time.Minute),
	}
}

// Get returns dashboard statistics over the caller's visible case set.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	if cached, found := h.cache.Get(p.ID); found {
		respondJSON(w, http.StatusOK, cached.(cases.Stats))
		return
	}

	visible, err := h.store.List(r.Context(), p, 0)
	if err != nil {
		respondCaseError(w, err)
		return
	}

	stats := cases.Summarize(p, visible, time.Now(), statsWindowDays)
	h.cache.SetDefault(p.ID, stats)
	respondJSON(w, http.StatusOK, stats)
}
