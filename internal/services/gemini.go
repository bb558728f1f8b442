// Gemini generative-text API client
//
// Request/response shapes based on the generateContent REST reference:
// https://ai.google.dev/api/generate-content
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sdi-labs/tubewise/internal/shared"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	geminiModelPath      = "/v1beta/models/gemini-2.0-flash:generateContent"
)

// GenerationOptions tune a single generateContent call. Zero values fall back
// to the service defaults.
type GenerationOptions struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}

// TitleOptions control the prompt for title optimization.
type TitleOptions struct {
	IncludeEmoji    bool
	IncludeTrending bool
}

// ChannelProfile is the channel summary fed to the upload-time analysis
// prompt.
type ChannelProfile struct {
	SubscriberCount string
	Category        string
	AverageViews    string
}

// GeminiService calls the Gemini generateContent endpoint with a per-user
// API key, falling back to the operator default key when the user has none
// stored.
type GeminiService struct {
	baseURL    string
	httpClient *http.Client
	keys       KeySource
	defaultKey string
}

// NewGeminiService creates a new Gemini client.
//
// An empty baseURL selects the production host. keys may be nil, in which
// case only the default key is used.
func NewGeminiService(baseURL string, client *http.Client, keys KeySource, defaultKey string) *GeminiService {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &GeminiService{
		baseURL:    baseURL,
		httpClient: client,
		keys:       keys,
		defaultKey: defaultKey,
	}
}

// resolveKey returns the user's stored key when present, otherwise the
// operator default.
func (g *GeminiService) resolveKey(ctx context.Context, userID string) (string, error) {
	if g.keys != nil && userID != "" {
		cred, err := g.keys.Get(ctx, userID)
		if err == nil && cred.GeminiAPIKey != "" {
			return cred.GeminiAPIKey, nil
		}
		if err != nil && !errors.Is(err, shared.ErrNotConfigured) {
			return "", err
		}
	}

	if g.defaultKey == "" {
		return "", shared.ErrMissingAPIKey
	}
	return g.defaultKey, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// generate posts a prompt to the generateContent endpoint with the given key
// and returns the first candidate's text.
func (g *GeminiService) generate(ctx context.Context, apiKey, prompt string, opts GenerationOptions) (string, error) {
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.TopK == 0 {
		opts.TopK = 40
	}
	if opts.TopP == 0 {
		opts.TopP = 0.95
	}
	if opts.MaxOutputTokens == 0 {
		opts.MaxOutputTokens = 1024
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     opts.Temperature,
			TopK:            opts.TopK,
			TopP:            opts.TopP,
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s%s?key=%s", g.baseURL, geminiModelPath, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr googleError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("%w: status %d: %s", shared.ErrUpstream, resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", shared.ErrUpstream, resp.StatusCode)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", shared.ErrUpstream, err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidate list", shared.ErrUpstream)
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateContent resolves the API key for userID and runs the prompt.
func (g *GeminiService) GenerateContent(ctx context.Context, userID, prompt string, opts GenerationOptions) (string, error) {
	apiKey, err := g.resolveKey(ctx, userID)
	if err != nil {
		return "", err
	}
	return g.generate(ctx, apiKey, prompt, opts)
}

// OptimizeTitle asks the model for five optimized variants of a video title,
// each tagged with a bracketed label the route layer parses back out.
func (g *GeminiService) OptimizeTitle(ctx context.Context, userID, title string, opts TitleOptions) (string, error) {
	emoji := "exclude"
	if opts.IncludeEmoji {
		emoji = "include"
	}
	trending := "exclude"
	if opts.IncludeTrending {
		trending = "include"
	}

	prompt := fmt.Sprintf(`Rewrite the following video title into 5 optimized variants.
Each variant should raise click-through rate using:
- emoji (%s)
- trending keywords (%s)
- emotional phrasing
- curiosity hooks
- concrete numbers or years

Original title: %q

Respond in exactly this format:
1. [Best] title one
2. [Recommended] title two
3. [Alternative] title three
4. [Trending] title four
5. [Clickbait] title five

Keep each title under 50 characters.`, emoji, trending, title)

	return g.GenerateContent(ctx, userID, prompt, GenerationOptions{Temperature: 0.8})
}

// GenerateTags asks the model for fifteen related tags as one comma-separated
// line.
func (g *GeminiService) GenerateTags(ctx context.Context, userID, title, category string) (string, error) {
	if category == "" {
		category = "general"
	}

	prompt := fmt.Sprintf(`Generate 15 relevant tags for the following video title.
Cover three groups:

Primary keywords (5): core keywords from the title
Related topics (5): tags related to the content area
Trending tags (5): currently popular related tags

Title: %q
Channel category: %s

Write the tags comma-separated on a single line.`, title, category)

	return g.GenerateContent(ctx, userID, prompt, GenerationOptions{Temperature: 0.6})
}

// AnalyzeUploadTime asks the model for an upload schedule recommendation
// based on the channel profile.
func (g *GeminiService) AnalyzeUploadTime(ctx context.Context, userID string, profile ChannelProfile) (string, error) {
	subs := profile.SubscriberCount
	if subs == "" {
		subs = "unknown"
	}
	category := profile.Category
	if category == "" {
		category = "general"
	}
	views := profile.AverageViews
	if views == "" {
		views = "unknown"
	}

	prompt := fmt.Sprintf(`Analyze the best upload times for this channel.

Channel data:
- subscribers: %s
- content area: %s
- average views: %s

Respond with a ranked list of five day/time slots with a score for each,
followed by a short analysis of the pattern.`, subs, category, views)

	return g.GenerateContent(ctx, userID, prompt, GenerationOptions{Temperature: 0.5})
}

// TestKey probes the generateContent endpoint with the given key and a
// trivial prompt to check the key is accepted.
func (g *GeminiService) TestKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return shared.ErrMissingAPIKey
	}
	_, err := g.generate(ctx, apiKey, "Hello", GenerationOptions{MaxOutputTokens: 16})
	return err
}
