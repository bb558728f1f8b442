package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnalyticsHandler(t *testing.T) {
	newRig := func(t *testing.T) *BasicRouter {
		t.Helper()
		router := NewBasicRouter()
		router.Handler(NewAnalyticsHandler(NewTracker()))
		return router
	}

	t.Run("track", func(t *testing.T) {
		router := newRig(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(`{"event":"title_optimized"}`)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if env := decodeEnvelope(t, rec); !env.Success {
			t.Error("expected success envelope")
		}
	})

	t.Run("track rejects malformed bodies", func(t *testing.T) {
		router := newRig(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader("{")))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("summary orders events by count", func(t *testing.T) {
		router := newRig(t)

		track := func(event string) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(`{"event":"`+event+`"}`)))
		}
		track("tags_generated")
		track("title_optimized")
		track("title_optimized")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var env struct {
			Data struct {
				TotalEvents int          `json:"totalEvents"`
				Events      []eventCount `json:"events"`
			} `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if env.Data.TotalEvents != 3 {
			t.Errorf("expected 3 events, got %d", env.Data.TotalEvents)
		}
		if len(env.Data.Events) != 2 || env.Data.Events[0].Event != "title_optimized" {
			t.Errorf("expected title_optimized first, got %+v", env.Data.Events)
		}
	})

	t.Run("empty event names count as unknown", func(t *testing.T) {
		tracker := NewTracker()
		tracker.Track("")

		total, events, _ := tracker.Summary()
		if total != 1 || len(events) != 1 || events[0].Event != "unknown" {
			t.Errorf("expected one unknown event, got %d %+v", total, events)
		}
	})
}

func TestHealthHandler(t *testing.T) {
	router := NewBasicRouter()
	router.Handler(NewHealthHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Uptime  string `json:"uptime"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Status != "OK" {
		t.Errorf("expected status OK, got %q", body.Status)
	}
	if body.Version != Version {
		t.Errorf("expected version %s, got %s", Version, body.Version)
	}
	if body.Uptime == "" {
		t.Error("expected an uptime string")
	}
}
