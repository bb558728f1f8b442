package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sdi-labs/tubewise/internal/auth"
	"github.com/sdi-labs/tubewise/internal/models"
)

// AuthHandler exposes the OAuth authorization flow over HTTP.
//
// URL issuance and session lookup answer JSON; the callback answers only
// redirects, so the user agent never lands on a raw error body mid-flow.
type AuthHandler struct {
	flow        *auth.Flow
	frontendURL string
	logger      *log.Logger
}

// NewAuthHandler creates the handler. frontendURL is the base for the
// auth-success and auth-error redirect targets.
func NewAuthHandler(flow *auth.Flow, frontendURL string, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		flow:        flow,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// Routes returns the route patterns this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"GET /api/auth/url/{userId}",
		"GET /api/auth/callback",
		"GET /api/auth/user/{userId}",
		"POST /api/auth/logout/{userId}",
	}
}

// ServeHTTP dispatches to the route-specific handlers by matched pattern.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /api/auth/url/{userId}":
		h.handleAuthURL(w, r)
	case "GET /api/auth/callback":
		h.handleCallback(w, r)
	case "GET /api/auth/user/{userId}":
		h.handleUser(w, r)
	case "POST /api/auth/logout/{userId}":
		h.handleLogout(w, r)
	default:
		respondError(w, http.StatusNotFound, "route not found")
	}
}

// handleAuthURL issues the offline-access consent URL for a user.
func (h *AuthHandler) handleAuthURL(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	authURL, err := h.flow.AuthURL(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to issue auth URL", "user", userID, "error", err)
		respondError(w, http.StatusInternalServerError, publicMessage(err))
		return
	}

	respondData(w, http.StatusOK, map[string]string{"authUrl": authURL})
}

// handleCallback completes the authorization flow and redirects the user
// agent to the frontend. Every failure becomes an error redirect carrying a
// URL-encoded human-readable message; the callback path never answers JSON.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	state := query.Get("state")

	userID, err := h.flow.HandleCallback(r.Context(), code, state)
	if err != nil {
		h.logger.Error("authorization callback failed", "error", err)
		target := h.frontendURL + "/auth-error?error=" + url.QueryEscape(publicMessage(err))
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	target := h.frontendURL + "/auth-success?userId=" + url.QueryEscape(userID)
	http.Redirect(w, r, target, http.StatusFound)
}

// handleUser returns the bound session projection {userInfo, channelInfo}.
func (h *AuthHandler) handleUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	entry, err := h.flow.Session(userID)
	if err != nil {
		respondError(w, statusFor(err), publicMessage(err))
		return
	}

	respondData(w, http.StatusOK, sessionProjection{
		UserInfo:    entry.UserInfo,
		ChannelInfo: entry.Channel,
	})
}

// handleLogout removes the bound session. Idempotent.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	h.flow.Logout(userID)
	respondMessage(w, "logged out")
}

// sessionProjection is the response shape of GET /api/auth/user/{userId}:
// the bound profile and channel, never the tokens.
type sessionProjection struct {
	UserInfo    models.UserInfo `json:"userInfo"`
	ChannelInfo models.Channel  `json:"channelInfo"`
}
