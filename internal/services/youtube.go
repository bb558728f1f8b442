// YouTube Data API v3 and Google identity endpoint client
//
// Response types based on https://developers.google.com/youtube/v3/docs/channels
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sdi-labs/tubewise/internal/models"
	"github.com/sdi-labs/tubewise/internal/shared"
	"golang.org/x/oauth2"
)

const defaultGoogleBaseURL = "https://www.googleapis.com"

// YouTubeService talks to the YouTube Data API and the Google identity
// endpoint. OAuth-scoped calls take an [oauth2.TokenSource]; the search probe
// takes a bare API key.
type YouTubeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Data API client.
//
// An empty baseURL selects the production Google API host.
func NewYouTubeService(baseURL string, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// doRequest performs a GET against the Google APIs, optionally with a bearer
// token, and decodes the JSON response into result.
func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, src oauth2.TokenSource, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if src != nil {
		token, err := src.Token()
		if err != nil {
			return fmt.Errorf("%w: token source: %v", shared.ErrUpstream, err)
		}
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr googleError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrUpstream, resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrUpstream, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrUpstream, err)
		}
	}

	return nil
}

// UserInfo fetches the authenticated user's profile from the identity
// endpoint.
func (y *YouTubeService) UserInfo(ctx context.Context, src oauth2.TokenSource) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := y.doRequest(ctx, "/oauth2/v2/userinfo", src, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// MyChannel fetches the first channel owned by the authenticated user, with
// snippet and statistics parts.
//
// Fails with [shared.ErrNoChannel] when the channel list is empty.
func (y *YouTubeService) MyChannel(ctx context.Context, src oauth2.TokenSource) (*models.Channel, error) {
	var response struct {
		Items []models.Channel `json:"items"`
	}

	endpoint := "/youtube/v3/channels?part=snippet,statistics&mine=true"
	if err := y.doRequest(ctx, endpoint, src, &response); err != nil {
		return nil, err
	}

	if len(response.Items) == 0 {
		return nil, shared.ErrNoChannel
	}

	return &response.Items[0], nil
}

// TestKey probes the search endpoint with the given API key to check the key
// is accepted.
func (y *YouTubeService) TestKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return shared.ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("/youtube/v3/search?part=snippet&q=test&maxResults=1&key=%s", url.QueryEscape(apiKey))

	var response struct {
		Items []json.RawMessage `json:"items"`
	}
	return y.doRequest(ctx, endpoint, nil, &response)
}
