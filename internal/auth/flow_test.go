package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sdi-labs/tubewise/internal/models"
	"github.com/sdi-labs/tubewise/internal/shared"
	apptest "github.com/sdi-labs/tubewise/internal/testing"
	"golang.org/x/oauth2"
)

// fakeAPI is a [ProviderAPI] test double with configurable results.
type fakeAPI struct {
	info       *models.UserInfo
	channel    *models.Channel
	infoErr    error
	channelErr error
}

func (f *fakeAPI) UserInfo(ctx context.Context, src oauth2.TokenSource) (*models.UserInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeAPI) MyChannel(ctx context.Context, src oauth2.TokenSource) (*models.Channel, error) {
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	return f.channel, nil
}

// tokenStub serves a fixed token exchange response.
func tokenStub(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST token exchange, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","refresh_token":"rt-1","expires_in":3600}`))
	}))
}

// newTestFlow builds a flow over an in-memory credential store with user u1
// fully configured, pointing its token exchange at the stub server.
func newTestFlow(t *testing.T, api ProviderAPI) (*Flow, *MemorySessionStore, *apptest.MemCredentials) {
	t.Helper()

	creds := apptest.NewMemCredentials()
	if err := creds.Save(context.Background(), &models.Credential{
		UserID:             "u1",
		GeminiAPIKey:       "gk",
		GoogleClientID:     "cid",
		GoogleClientSecret: "csec",
	}); err != nil {
		t.Fatalf("failed to seed credentials: %v", err)
	}

	server := tokenStub(t)
	t.Cleanup(server.Close)

	factory := NewClientFactory(creds, "http://localhost:3000")
	factory.SetEndpoint(server.URL+"/auth", server.URL+"/token")

	sessions := NewMemorySessionStore()
	flow := NewFlow(factory, NewStateSigner("test-secret", time.Minute), sessions, api, nil)
	return flow, sessions, creds
}

func TestFlow(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{
		info:    &models.UserInfo{ID: "gid-1", Name: "Creator", Email: "c@example.com"},
		channel: &models.Channel{ID: "chan-1", Snippet: models.ChannelSnippet{Title: "My Channel"}},
	}

	t.Run("AuthURL", func(t *testing.T) {
		t.Run("builds a consent URL from stored credentials", func(t *testing.T) {
			flow, _, _ := newTestFlow(t, api)

			authURL, err := flow.AuthURL(ctx, "u1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			parsed, err := url.Parse(authURL)
			if err != nil {
				t.Fatalf("failed to parse auth URL: %v", err)
			}
			q := parsed.Query()

			if q.Get("client_id") != "cid" {
				t.Errorf("expected client_id cid, got %q", q.Get("client_id"))
			}
			if q.Get("access_type") != "offline" {
				t.Errorf("expected access_type offline, got %q", q.Get("access_type"))
			}
			if q.Get("prompt") != "consent" {
				t.Errorf("expected prompt consent, got %q", q.Get("prompt"))
			}
			if !strings.HasSuffix(q.Get("redirect_uri"), "/api/auth/callback") {
				t.Errorf("expected callback redirect, got %q", q.Get("redirect_uri"))
			}

			scope := q.Get("scope")
			for _, want := range []string{"youtube.readonly", "userinfo.profile", "userinfo.email"} {
				if !strings.Contains(scope, want) {
					t.Errorf("expected scope to include %s, got %q", want, scope)
				}
			}

			if q.Get("state") == "u1" {
				t.Error("state must not be the raw user id")
			}
			if q.Get("state") == "" {
				t.Error("expected a state token")
			}
		})

		t.Run("fails for a user without stored credentials", func(t *testing.T) {
			flow, _, _ := newTestFlow(t, api)
			if _, err := flow.AuthURL(ctx, "u2"); !errors.Is(err, shared.ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
		})

		t.Run("fails for incomplete OAuth fields", func(t *testing.T) {
			flow, _, creds := newTestFlow(t, api)
			if err := creds.Save(ctx, &models.Credential{UserID: "u3", GoogleClientID: "cid-only"}); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
			if _, err := flow.AuthURL(ctx, "u3"); !errors.Is(err, shared.ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
		})
	})

	t.Run("HandleCallback", func(t *testing.T) {
		issueState := func(t *testing.T, flow *Flow, userID string) string {
			t.Helper()
			state, err := flow.states.Issue(userID)
			if err != nil {
				t.Fatalf("failed to issue state: %v", err)
			}
			return state
		}

		t.Run("binds a session on success", func(t *testing.T) {
			flow, sessions, _ := newTestFlow(t, api)
			state := issueState(t, flow, "u1")

			userID, err := flow.HandleCallback(ctx, "auth-code", state)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if userID != "u1" {
				t.Errorf("expected user u1, got %s", userID)
			}

			entry, ok := sessions.Get("u1")
			if !ok {
				t.Fatal("expected session to be bound")
			}
			if entry.Tokens == nil || entry.Tokens.AccessToken != "at-1" {
				t.Errorf("expected exchanged tokens in session, got %+v", entry.Tokens)
			}
			if entry.Tokens.RefreshToken != "rt-1" {
				t.Errorf("expected refresh token, got %q", entry.Tokens.RefreshToken)
			}
			if entry.UserInfo.Email != "c@example.com" {
				t.Errorf("expected profile in session, got %+v", entry.UserInfo)
			}
			if entry.Channel.ID != "chan-1" {
				t.Errorf("expected channel in session, got %+v", entry.Channel)
			}
		})

		t.Run("fails without an authorization code", func(t *testing.T) {
			flow, sessions, _ := newTestFlow(t, api)
			state := issueState(t, flow, "u1")

			if _, err := flow.HandleCallback(ctx, "", state); !errors.Is(err, shared.ErrMissingCode) {
				t.Errorf("expected ErrMissingCode, got %v", err)
			}
			if _, ok := sessions.Get("u1"); ok {
				t.Error("expected no session after failure")
			}
		})

		t.Run("fails on an unsigned state value", func(t *testing.T) {
			flow, sessions, _ := newTestFlow(t, api)

			if _, err := flow.HandleCallback(ctx, "auth-code", "u1"); !errors.Is(err, shared.ErrInvalidState) {
				t.Errorf("expected ErrInvalidState, got %v", err)
			}
			if _, ok := sessions.Get("u1"); ok {
				t.Error("expected no session after failure")
			}
		})

		t.Run("fails when the account has no channel", func(t *testing.T) {
			flow, sessions, _ := newTestFlow(t, &fakeAPI{
				info:       api.info,
				channelErr: shared.ErrNoChannel,
			})
			state := issueState(t, flow, "u1")

			if _, err := flow.HandleCallback(ctx, "auth-code", state); !errors.Is(err, shared.ErrNoChannel) {
				t.Errorf("expected ErrNoChannel, got %v", err)
			}
			if _, ok := sessions.Get("u1"); ok {
				t.Error("expected no session when channel fetch fails")
			}
		})

		t.Run("fails when the profile fetch fails", func(t *testing.T) {
			flow, sessions, _ := newTestFlow(t, &fakeAPI{
				infoErr: shared.ErrUpstream,
				channel: api.channel,
			})
			state := issueState(t, flow, "u1")

			if _, err := flow.HandleCallback(ctx, "auth-code", state); !errors.Is(err, shared.ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
			if _, ok := sessions.Get("u1"); ok {
				t.Error("expected no session when profile fetch fails")
			}
		})
	})

	t.Run("Session", func(t *testing.T) {
		t.Run("fails before authentication", func(t *testing.T) {
			flow, _, _ := newTestFlow(t, api)
			if _, err := flow.Session("u1"); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("returns the bound entry after the callback", func(t *testing.T) {
			flow, _, _ := newTestFlow(t, api)
			state, _ := flow.states.Issue("u1")
			if _, err := flow.HandleCallback(ctx, "auth-code", state); err != nil {
				t.Fatalf("callback failed: %v", err)
			}

			entry, err := flow.Session("u1")
			if err != nil {
				t.Fatalf("expected session, got %v", err)
			}
			if entry.Channel.ID != "chan-1" {
				t.Errorf("unexpected channel: %s", entry.Channel.ID)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		flow, sessions, _ := newTestFlow(t, api)
		state, _ := flow.states.Issue("u1")
		if _, err := flow.HandleCallback(ctx, "auth-code", state); err != nil {
			t.Fatalf("callback failed: %v", err)
		}

		flow.Logout("u1")
		if _, ok := sessions.Get("u1"); ok {
			t.Error("expected session to be removed")
		}

		// logging out again or for an unknown user is not an error
		flow.Logout("u1")
		flow.Logout("never-seen")
	})

	t.Run("independent users", func(t *testing.T) {
		flow, _, _ := newTestFlow(t, api)
		state, _ := flow.states.Issue("u1")
		if _, err := flow.HandleCallback(ctx, "auth-code", state); err != nil {
			t.Fatalf("callback failed: %v", err)
		}

		if _, err := flow.AuthURL(ctx, "u2"); !errors.Is(err, shared.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured for u2, got %v", err)
		}
		if _, err := flow.Session("u2"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated for u2, got %v", err)
		}
		if _, err := flow.Session("u1"); err != nil {
			t.Errorf("u1 session should be unaffected, got %v", err)
		}
	})
}
