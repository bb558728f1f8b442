// Package services implements the upstream Google API clients the backend
// proxies to.
//
// # Gemini
//
// [GeminiService] calls the generateContent endpoint of the Gemini model and
// carries the prompt builders for title optimization, tag generation, and
// upload-time analysis. API keys resolve per user: the stored key wins, the
// operator default is the fallback, and [shared.ErrMissingAPIKey] surfaces
// when neither exists.
//
// # YouTube Data
//
// [YouTubeService] covers the slice of the Data API the backend needs:
// channels.list with mine=true for the authorization flow, the identity
// endpoint for the profile fetch, and a search probe for API key testing.
// OAuth-scoped calls take an [oauth2.TokenSource] so the caller controls
// token lifetime and refresh.
//
// # Error handling
//
// Both clients fold every upstream failure (transport error, non-2xx status,
// malformed payload) into [shared.ErrUpstream], keeping the upstream message
// but never the raw response. No call is retried.
package services
