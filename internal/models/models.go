// package models defines the data model for the optimizer backend
package models

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential holds one user's third-party API keys and OAuth app secrets.
//
// At most one record exists per UserID. Saves overwrite all four key fields
// in place; records are never deleted.
type Credential struct {
	UserID             string
	GeminiAPIKey       string
	YouTubeAPIKey      string
	GoogleClientID     string
	GoogleClientSecret string
	IsConfigured       bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasOAuth reports whether both OAuth client fields are present.
func (c *Credential) HasOAuth() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Configured reports whether the record is complete enough for the full
// feature set: a generative API key plus both OAuth client fields.
func (c *Credential) Configured() bool {
	return c.GeminiAPIKey != "" && c.HasOAuth()
}

// CredentialStatus is the masked projection of a [Credential] returned to
// clients. Key material itself is never echoed back.
type CredentialStatus struct {
	IsConfigured   bool `json:"isConfigured"`
	HasGeminiKey   bool `json:"hasGeminiKey"`
	HasYouTubeKey  bool `json:"hasYouTubeKey"`
	HasGoogleOAuth bool `json:"hasGoogleOAuth"`
}

// Status returns the masked projection of the credential.
func (c *Credential) Status() CredentialStatus {
	return CredentialStatus{
		IsConfigured:   c.Configured(),
		HasGeminiKey:   c.GeminiAPIKey != "",
		HasYouTubeKey:  c.YouTubeAPIKey != "",
		HasGoogleOAuth: c.HasOAuth(),
	}
}

// UserInfo is the profile returned by the provider's identity endpoint.
type UserInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// ChannelSnippet holds display metadata for a channel.
type ChannelSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CustomURL   string `json:"customUrl,omitempty"`
}

// ChannelStatistics holds channel counters. The upstream API returns these
// as strings.
type ChannelStatistics struct {
	ViewCount       string `json:"viewCount"`
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
}

// Channel is one channel record from the video-platform API.
type Channel struct {
	ID         string            `json:"id"`
	Snippet    ChannelSnippet    `json:"snippet"`
	Statistics ChannelStatistics `json:"statistics"`
}

// SessionEntry is the process-resident authenticated context bound to a user
// after a successful authorization-code exchange.
//
// Exists only between callback completion and logout; never persisted across
// restarts.
type SessionEntry struct {
	Tokens    *oauth2.Token
	UserInfo  UserInfo
	Channel   Channel
	CreatedAt time.Time
}

// OptimizedTitle is one optimized title variant parsed from the generative
// API's response.
type OptimizedTitle struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}
