package server

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sdi-labs/tubewise/internal/models"
	"github.com/sdi-labs/tubewise/internal/services"
)

// Optimizer is the slice of the generative service the optimize routes need.
// [services.GeminiService] is the production implementation.
type Optimizer interface {
	OptimizeTitle(ctx context.Context, userID, title string, opts services.TitleOptions) (string, error)
	GenerateTags(ctx context.Context, userID, title, category string) (string, error)
	AnalyzeUploadTime(ctx context.Context, userID string, profile services.ChannelProfile) (string, error)
}

// titleLine matches one "[Label] title text" line of the model's response.
var titleLine = regexp.MustCompile(`\[([^\]]+)\]\s*(.+)`)

// titleSuggestions is the static coaching list returned with every title
// optimization.
var titleSuggestions = []string{
	"Add an emoji to draw the eye",
	"Include the year to build trust",
	"Emotional phrasing lifts click-through",
	"Practical keywords improve search ranking",
}

// OptimizeHandler turns generative API text into structured optimization
// results: title variants, tag lists, upload-time analysis.
type OptimizeHandler struct {
	gemini Optimizer
	logger *log.Logger
}

// NewOptimizeHandler creates the handler.
func NewOptimizeHandler(gemini Optimizer, logger *log.Logger) *OptimizeHandler {
	return &OptimizeHandler{gemini: gemini, logger: logger}
}

// Routes returns the route patterns this handler serves.
func (h *OptimizeHandler) Routes() []string {
	return []string{
		"POST /api/optimize/title",
		"POST /api/optimize/tags",
		"POST /api/optimize/upload-time",
	}
}

// ServeHTTP dispatches to the route-specific handlers by matched pattern.
func (h *OptimizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "POST /api/optimize/title":
		h.handleTitle(w, r)
	case "POST /api/optimize/tags":
		h.handleTags(w, r)
	case "POST /api/optimize/upload-time":
		h.handleUploadTime(w, r)
	default:
		respondError(w, http.StatusNotFound, "route not found")
	}
}

type titleRequest struct {
	OriginalTitle string `json:"originalTitle"`
	UserID        string `json:"userId"`
	Options       struct {
		IncludeEmoji    bool `json:"includeEmoji"`
		IncludeTrending bool `json:"includeTrending"`
	} `json:"options"`
}

// handleTitle generates optimized title variants. When the generative call
// fails the route degrades to template-based suggestions rather than
// erroring, so the feature stays usable without a working key.
func (h *OptimizeHandler) handleTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.OriginalTitle)
	if title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	opts := services.TitleOptions{
		IncludeEmoji:    req.Options.IncludeEmoji,
		IncludeTrending: req.Options.IncludeTrending,
	}

	titles := []models.OptimizedTitle{}
	text, err := h.gemini.OptimizeTitle(r.Context(), req.UserID, title, opts)
	if err == nil {
		titles = parseTitles(text)
	}
	if err != nil || len(titles) == 0 {
		if err != nil {
			h.logger.Warn("title optimization fell back to templates", "error", err)
		}
		titles = fallbackTitles(title)
	}

	respondData(w, http.StatusOK, map[string]any{
		"originalTitle": title,
		"titles":        titles,
		"suggestions":   titleSuggestions,
	})
}

// parseTitles extracts "[Label] title" lines from the model response.
func parseTitles(text string) []models.OptimizedTitle {
	var titles []models.OptimizedTitle
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if match := titleLine.FindStringSubmatch(line); match != nil {
			titles = append(titles, models.OptimizedTitle{
				Type:  match[1],
				Title: strings.TrimSpace(match[2]),
			})
		}
	}
	return titles
}

// fallbackTitles builds template-based variants when the generative call is
// unavailable.
func fallbackTitles(title string) []models.OptimizedTitle {
	variants := []string{
		title + ": the latest trend!",
		"[2026] " + title + ": the complete guide",
		"How to get " + title + " right",
		"Tips and tricks: " + title,
		title + " | hands-on walkthrough",
	}

	titles := make([]models.OptimizedTitle, len(variants))
	for i, v := range variants {
		titles[i] = models.OptimizedTitle{Type: "Suggested", Title: v}
	}
	return titles
}

type tagsRequest struct {
	Title    string `json:"title"`
	UserID   string `json:"userId"`
	Category string `json:"category"`
}

// handleTags generates a tag list for a title.
func (h *OptimizeHandler) handleTags(w http.ResponseWriter, r *http.Request) {
	var req tagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	text, err := h.gemini.GenerateTags(r.Context(), req.UserID, title, req.Category)
	if err != nil {
		h.logger.Error("tag generation failed", "error", err)
		respondError(w, statusFor(err), publicMessage(err))
		return
	}

	var tags []string
	for _, tag := range strings.Split(text, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	respondData(w, http.StatusOK, map[string]any{
		"title": title,
		"tags":  tags,
	})
}

type uploadTimeRequest struct {
	UserID      string `json:"userId"`
	ChannelData struct {
		SubscriberCount string `json:"subscriberCount"`
		Category        string `json:"category"`
		AverageViews    string `json:"averageViews"`
	} `json:"channelData"`
}

// handleUploadTime runs the upload schedule analysis.
func (h *OptimizeHandler) handleUploadTime(w http.ResponseWriter, r *http.Request) {
	var req uploadTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := services.ChannelProfile{
		SubscriberCount: req.ChannelData.SubscriberCount,
		Category:        req.ChannelData.Category,
		AverageViews:    req.ChannelData.AverageViews,
	}

	text, err := h.gemini.AnalyzeUploadTime(r.Context(), req.UserID, profile)
	if err != nil {
		h.logger.Error("upload time analysis failed", "error", err)
		respondError(w, statusFor(err), publicMessage(err))
		return
	}

	respondData(w, http.StatusOK, map[string]any{"analysis": text})
}
