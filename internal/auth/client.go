package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/sdi-labs/tubewise/internal/models"
	"github.com/sdi-labs/tubewise/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"

	callbackPath = "/api/auth/callback"
)

// Scopes requested during authorization: readonly channel access plus the
// identity scopes needed for the profile fetch.
var scopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
}

// CredentialSource provides stored credential records by user id.
// [repositories.CredentialRepository] is the production implementation.
type CredentialSource interface {
	Get(ctx context.Context, userID string) (*models.Credential, error)
}

// ClientFactory builds OAuth2 client configurations bound to a user's stored
// client id/secret and the fixed callback URL.
type ClientFactory struct {
	creds       CredentialSource
	redirectURL string
	endpoint    oauth2.Endpoint
}

// NewClientFactory creates a factory whose clients redirect back to
// baseURL + "/api/auth/callback".
func NewClientFactory(creds CredentialSource, baseURL string) *ClientFactory {
	return &ClientFactory{
		creds:       creds,
		redirectURL: strings.TrimRight(baseURL, "/") + callbackPath,
		endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}
}

// SetEndpoint overrides the provider endpoint. Used by tests to point the
// token exchange at a local server.
func (f *ClientFactory) SetEndpoint(authURL, tokenURL string) {
	f.endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
}

// Config looks up the user's stored credential and builds an [oauth2.Config]
// from it.
//
// Fails with [shared.ErrNotConfigured] if no record exists or either OAuth
// field is empty. No side effects beyond the lookup.
func (f *ClientFactory) Config(ctx context.Context, userID string) (*oauth2.Config, error) {
	cred, err := f.creds.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cred.HasOAuth() {
		return nil, fmt.Errorf("user %s has incomplete OAuth fields: %w", userID, shared.ErrNotConfigured)
	}

	return &oauth2.Config{
		ClientID:     cred.GoogleClientID,
		ClientSecret: cred.GoogleClientSecret,
		RedirectURL:  f.redirectURL,
		Scopes:       scopes,
		Endpoint:     f.endpoint,
	}, nil
}
