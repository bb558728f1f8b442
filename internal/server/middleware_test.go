package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sdi-labs/tubewise/internal/shared"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("CORS", func(t *testing.T) {
		t.Run("sets the allowed origin headers", func(t *testing.T) {
			handler := CORS("http://localhost:5500")(okHandler())

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5500" {
				t.Errorf("expected origin header, got %q", got)
			}
			if rec.Header().Get("Access-Control-Allow-Methods") == "" {
				t.Error("expected allowed methods header")
			}
		})

		t.Run("answers preflight without reaching the handler", func(t *testing.T) {
			reached := false
			handler := CORS("http://localhost:5500")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/keys/u1", nil))

			if rec.Code != http.StatusNoContent {
				t.Errorf("expected 204, got %d", rec.Code)
			}
			if reached {
				t.Error("preflight should not reach the handler")
			}
		})

		t.Run("skips headers when no origin is configured", func(t *testing.T) {
			handler := CORS("")(okHandler())

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Header().Get("Access-Control-Allow-Origin") != "" {
				t.Error("expected no CORS headers")
			}
		})
	})

	t.Run("RateLimit", func(t *testing.T) {
		t.Run("rejects requests over the burst", func(t *testing.T) {
			handler := RateLimit(1, 3)(okHandler())

			var rejected int
			for i := 0; i < 10; i++ {
				rec := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.RemoteAddr = "10.0.0.1:1234"
				handler.ServeHTTP(rec, req)
				if rec.Code == http.StatusTooManyRequests {
					rejected++
				}
			}
			if rejected == 0 {
				t.Error("expected some requests to be rate limited")
			}
		})

		t.Run("limits clients independently", func(t *testing.T) {
			handler := RateLimit(1, 1)(okHandler())

			first := httptest.NewRequest(http.MethodGet, "/", nil)
			first.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, first)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected first request to pass, got %d", rec.Code)
			}

			second := httptest.NewRequest(http.MethodGet, "/", nil)
			second.RemoteAddr = "10.0.0.2:1234"
			rec = httptest.NewRecorder()
			handler.ServeHTTP(rec, second)
			if rec.Code != http.StatusOK {
				t.Errorf("expected a fresh client to pass, got %d", rec.Code)
			}
		})
	})

	t.Run("Recover", func(t *testing.T) {
		handler := Recover(shared.NewLogger(io.Discard))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Success {
			t.Error("expected failure envelope")
		}
	})

	t.Run("Logging", func(t *testing.T) {
		// the middleware must pass the response through unchanged
		handler := Logging(shared.NewLogger(io.Discard))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusTeapot {
			t.Errorf("expected status to pass through, got %d", rec.Code)
		}
	})

	t.Run("stack ordering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Recover(shared.NewLogger(io.Discard)), CORS("http://localhost:5500"))
		router.Handle("GET /panic", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected recovered 500, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("expected CORS headers on recovered responses")
		}
	})
}
