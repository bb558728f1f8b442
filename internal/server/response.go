package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sdi-labs/tubewise/internal/shared"
)

// envelope is the uniform JSON response body: {success, data} on success,
// {success:false, error} on failure.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing useful left to do.
		return
	}
}

// respondData writes a success envelope with the given payload.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// respondMessage writes a success envelope with a message and no payload.
func respondMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

// respondError writes a failure envelope with the given status and message.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// statusFor maps flow errors to HTTP status codes for the JSON surface.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrMissingCode), errors.Is(err, shared.ErrInvalidState),
		errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage maps flow errors to messages safe to show a user agent.
// Raw upstream internals never pass through here.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotConfigured):
		return "Google OAuth credentials are not configured. Save your client ID and secret first."
	case errors.Is(err, shared.ErrMissingCode):
		return "The authorization code is missing. Please start the sign-in again."
	case errors.Is(err, shared.ErrInvalidState):
		return "The sign-in request expired or was invalid. Please try again."
	case errors.Is(err, shared.ErrNoChannel):
		return "No channel was found for this account."
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "You are not signed in."
	case errors.Is(err, shared.ErrMissingAPIKey):
		return "No API key is configured for this feature."
	case errors.Is(err, shared.ErrUpstream):
		return "The request to the provider failed. Please try again later."
	default:
		return "The request could not be completed."
	}
}
