package server

import (
	"net/http"
	"time"
)

// Version is the reported backend version.
const Version = "1.0.0"

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates the handler with the process start time.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

// Routes returns the route patterns this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /api/health"}
}

// ServeHTTP reports process status and uptime.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"version":   Version,
	})
}
