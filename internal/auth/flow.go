package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sdi-labs/tubewise/internal/models"
	"github.com/sdi-labs/tubewise/internal/shared"
	"golang.org/x/oauth2"
)

// ProviderAPI is the slice of the video-platform client the authorization
// flow needs: the identity endpoint and the caller's own channel list.
// [services.YouTubeService] is the production implementation.
type ProviderAPI interface {
	// UserInfo fetches the authenticated user's profile.
	UserInfo(ctx context.Context, src oauth2.TokenSource) (*models.UserInfo, error)

	// MyChannel fetches the first channel owned by the authenticated user.
	// Fails with [shared.ErrNoChannel] when the account has none.
	MyChannel(ctx context.Context, src oauth2.TokenSource) (*models.Channel, error)
}

// Flow runs the OAuth2 authorization-code sequence: consent URL issuance,
// callback handling (code exchange, profile fetch, channel fetch), and the
// resulting session binding.
//
// Each callback step runs sequentially and any failure fails the whole flow;
// no retries are attempted.
type Flow struct {
	factory  *ClientFactory
	states   *StateSigner
	sessions SessionStore
	api      ProviderAPI
	logger   *log.Logger
}

// NewFlow wires the authorization flow from its collaborators.
func NewFlow(factory *ClientFactory, states *StateSigner, sessions SessionStore, api ProviderAPI, logger *log.Logger) *Flow {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Flow{
		factory:  factory,
		states:   states,
		sessions: sessions,
		api:      api,
		logger:   logger,
	}
}

// AuthURL builds the offline-access consent URL for userID.
//
// prompt=consent forces refresh-token issuance even on repeat authorizations.
// Fails with [shared.ErrNotConfigured] when the user's OAuth credentials are
// missing or incomplete.
func (f *Flow) AuthURL(ctx context.Context, userID string) (string, error) {
	cfg, err := f.factory.Config(ctx, userID)
	if err != nil {
		return "", err
	}

	state, err := f.states.Issue(userID)
	if err != nil {
		return "", err
	}

	return cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// HandleCallback completes the authorization flow from the redirect query.
//
// Validates the code and state, exchanges the code for tokens, fetches the
// profile and channel, and binds the result into the session store. Returns
// the user id the session was bound for.
func (f *Flow) HandleCallback(ctx context.Context, code, state string) (string, error) {
	if code == "" {
		return "", shared.ErrMissingCode
	}

	userID, err := f.states.Verify(state)
	if err != nil {
		return "", err
	}

	cfg, err := f.factory.Config(ctx, userID)
	if err != nil {
		return "", err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange failed: %v", shared.ErrUpstream, err)
	}

	src := cfg.TokenSource(ctx, token)

	info, err := f.api.UserInfo(ctx, src)
	if err != nil {
		return "", err
	}

	channel, err := f.api.MyChannel(ctx, src)
	if err != nil {
		return "", err
	}

	f.sessions.Set(userID, &models.SessionEntry{
		Tokens:    token,
		UserInfo:  *info,
		Channel:   *channel,
		CreatedAt: time.Now(),
	})

	f.logger.Info("authorization complete", "user", userID, "channel", channel.ID)
	return userID, nil
}

// Session returns the bound session projection for userID.
//
// Fails with [shared.ErrNotAuthenticated] when no entry is bound.
func (f *Flow) Session(userID string) (*models.SessionEntry, error) {
	entry, ok := f.sessions.Get(userID)
	if !ok {
		return nil, fmt.Errorf("no session for user %s: %w", userID, shared.ErrNotAuthenticated)
	}
	return entry, nil
}

// Logout removes the session bound to userID. Idempotent; logging out an
// unbound user id is not an error.
func (f *Flow) Logout(userID string) {
	f.sessions.Delete(userID)
}
