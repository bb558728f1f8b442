package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Tracker accumulates usage counters in memory. Counters reset on restart;
// they exist to feed the summary endpoint, not to be a durable metrics
// pipeline.
type Tracker struct {
	mu      sync.Mutex
	total   int
	byEvent map[string]int
	started time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byEvent: make(map[string]int),
		started: time.Now(),
	}
}

// Track records one occurrence of an event.
func (t *Tracker) Track(event string) {
	if event == "" {
		event = "unknown"
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	t.byEvent[event]++
}

// eventCount pairs an event name with its counter for ordered output.
type eventCount struct {
	Event string `json:"event"`
	Count int    `json:"count"`
}

// Summary returns the totals and the events ordered by count descending.
func (t *Tracker) Summary() (int, []eventCount, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	events := make([]eventCount, 0, len(t.byEvent))
	for event, count := range t.byEvent {
		events = append(events, eventCount{Event: event, Count: count})
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Count != events[j].Count {
			return events[i].Count > events[j].Count
		}
		return events[i].Event < events[j].Event
	})

	return t.total, events, t.started
}

// AnalyticsHandler records frontend usage events and serves the summary.
type AnalyticsHandler struct {
	tracker *Tracker
}

// NewAnalyticsHandler creates the handler.
func NewAnalyticsHandler(tracker *Tracker) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker}
}

// Routes returns the route patterns this handler serves.
func (h *AnalyticsHandler) Routes() []string {
	return []string{
		"POST /api/analytics/track",
		"GET /api/analytics/summary",
	}
}

// ServeHTTP dispatches to the route-specific handlers by matched pattern.
func (h *AnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "POST /api/analytics/track":
		h.handleTrack(w, r)
	case "GET /api/analytics/summary":
		h.handleSummary(w, r)
	default:
		respondError(w, http.StatusNotFound, "route not found")
	}
}

type trackRequest struct {
	Event    string `json:"event"`
	Category string `json:"category"`
	Action   string `json:"action"`
	Label    string `json:"label"`
	Value    int    `json:"value"`
}

// handleTrack records one event occurrence.
func (h *AnalyticsHandler) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.tracker.Track(req.Event)
	respondMessage(w, "event tracked")
}

// handleSummary reports the accumulated counters.
func (h *AnalyticsHandler) handleSummary(w http.ResponseWriter, _ *http.Request) {
	total, events, started := h.tracker.Summary()

	respondData(w, http.StatusOK, map[string]any{
		"totalEvents": total,
		"events":      events,
		"since":       started.UTC().Format(time.RFC3339),
	})
}
