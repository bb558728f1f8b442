package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/sdi-labs/tubewise/internal/models"
	"github.com/sdi-labs/tubewise/internal/shared"
)

// CredentialStore is the persistence surface the keys handler needs.
// [repositories.CredentialRepository] is the production implementation.
type CredentialStore interface {
	Get(ctx context.Context, userID string) (*models.Credential, error)
	Save(ctx context.Context, cred *models.Credential) error
	Status(ctx context.Context, userID string) (models.CredentialStatus, error)
}

// keyTester probes an upstream API with a candidate key.
type keyTester interface {
	TestKey(ctx context.Context, apiKey string) error
}

// KeysHandler manages per-user API key records: masked status lookup, save,
// and live key testing. Key material is accepted in request bodies but never
// echoed back in responses.
type KeysHandler struct {
	store    CredentialStore
	defaults shared.DefaultsConfig
	gemini   keyTester
	youtube  keyTester
	logger   *log.Logger
}

// NewKeysHandler creates the handler.
func NewKeysHandler(store CredentialStore, defaults shared.DefaultsConfig, gemini, youtube keyTester, logger *log.Logger) *KeysHandler {
	return &KeysHandler{
		store:    store,
		defaults: defaults,
		gemini:   gemini,
		youtube:  youtube,
		logger:   logger,
	}
}

// Routes returns the route patterns this handler serves.
func (h *KeysHandler) Routes() []string {
	return []string{
		"GET /api/keys/default",
		"GET /api/keys/{userId}",
		"POST /api/keys/{userId}",
		"POST /api/keys/{userId}/test",
	}
}

// ServeHTTP dispatches to the route-specific handlers by matched pattern.
func (h *KeysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /api/keys/default":
		h.handleDefaults(w, r)
	case "GET /api/keys/{userId}":
		h.handleStatus(w, r)
	case "POST /api/keys/{userId}":
		h.handleSave(w, r)
	case "POST /api/keys/{userId}/test":
		h.handleTest(w, r)
	default:
		respondError(w, http.StatusNotFound, "route not found")
	}
}

// handleDefaults reports which operator-wide fallback keys are configured.
// Only presence booleans leave the server, never the keys themselves.
func (h *KeysHandler) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, models.CredentialStatus{
		IsConfigured:   h.defaults.GeminiAPIKey != "" && h.defaults.GoogleClientID != "" && h.defaults.GoogleClientSecret != "",
		HasGeminiKey:   h.defaults.GeminiAPIKey != "",
		HasYouTubeKey:  h.defaults.YouTubeAPIKey != "",
		HasGoogleOAuth: h.defaults.GoogleClientID != "" && h.defaults.GoogleClientSecret != "",
	})
}

// handleStatus returns the masked credential status for a user. Users with
// no record get the zero status, not an error.
func (h *KeysHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	status, err := h.store.Status(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load credential status", "user", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get API keys")
		return
	}

	respondData(w, http.StatusOK, status)
}

// saveKeysRequest is the body of POST /api/keys/{userId}. All four fields
// are written in full on every save.
type saveKeysRequest struct {
	GeminiAPIKey       string `json:"geminiApiKey"`
	YouTubeAPIKey      string `json:"youtubeApiKey"`
	GoogleClientID     string `json:"googleClientId"`
	GoogleClientSecret string `json:"googleClientSecret"`
}

// handleSave creates or overwrites a user's credential record.
func (h *KeysHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var req saveKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cred := &models.Credential{
		UserID:             userID,
		GeminiAPIKey:       req.GeminiAPIKey,
		YouTubeAPIKey:      req.YouTubeAPIKey,
		GoogleClientID:     req.GoogleClientID,
		GoogleClientSecret: req.GoogleClientSecret,
	}

	if err := h.store.Save(r.Context(), cred); err != nil {
		h.logger.Error("failed to save credential", "user", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save API keys")
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"isConfigured": cred.IsConfigured,
		"message":      "API keys saved",
	})
}

// testKeysRequest is the body of POST /api/keys/{userId}/test. Keys are
// probed as submitted; nothing is persisted.
type testKeysRequest struct {
	GeminiAPIKey  string `json:"geminiApiKey"`
	YouTubeAPIKey string `json:"youtubeApiKey"`
}

// keyTestResult reports per-key probe outcomes.
type keyTestResult struct {
	Gemini   bool     `json:"gemini"`
	YouTube  bool     `json:"youtube"`
	Messages []string `json:"messages"`
}

// handleTest live-probes the submitted keys against their APIs.
func (h *KeysHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	var req testKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := keyTestResult{Messages: []string{}}

	if req.GeminiAPIKey != "" {
		if err := h.gemini.TestKey(r.Context(), req.GeminiAPIKey); err != nil {
			result.Messages = append(result.Messages, "Gemini API connection failed: "+publicMessage(err))
		} else {
			result.Gemini = true
			result.Messages = append(result.Messages, "Gemini API connection succeeded")
		}
	}

	if req.YouTubeAPIKey != "" {
		if err := h.youtube.TestKey(r.Context(), req.YouTubeAPIKey); err != nil {
			result.Messages = append(result.Messages, "YouTube API connection failed: "+publicMessage(err))
		} else {
			result.YouTube = true
			result.Messages = append(result.Messages, "YouTube API connection succeeded")
		}
	}

	respondData(w, http.StatusOK, result)
}
