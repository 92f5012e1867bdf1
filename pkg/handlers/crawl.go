package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/services"
)

// CrawlHandler triggers crawls of accounts from the X API.
type CrawlHandler struct {
	crawler services.CrawlerService
	logger  *zap.Logger
}

// NewCrawlHandler creates a new CrawlHandler.
func NewCrawlHandler(crawler services.CrawlerService, logger *zap.Logger) *CrawlHandler {
	return &CrawlHandler{crawler: crawler, logger: logger}
}

// RegisterRoutes registers crawl routes on the given router.
func (h *CrawlHandler) RegisterRoutes(r chi.Router) {
	r.Post("/scrape", h.Scrape)
}

type scrapeRequest struct {
	Usernames    []string `json:"usernames"`
	MaxTweets    *int     `json:"max_tweets,omitempty"`
	MaxFollowing *int     `json:"max_following,omitempty"`
	MaxFollowers *int     `json:"max_followers,omitempty"`
}

// Scrape handles POST /api/scrape: crawl the requested usernames with
// optional per-request fetch limits.
func (h *CrawlHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Usernames) == 0 {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "usernames is required")
		return
	}

	opts := h.crawler.DefaultOptions()
	if req.MaxTweets != nil {
		opts.MaxTweets = *req.MaxTweets
		opts.IncludeTweets = *req.MaxTweets > 0
	}
	if req.MaxFollowing != nil {
		opts.MaxFollowing = *req.MaxFollowing
		opts.IncludeFollowing = *req.MaxFollowing > 0
	}
	if req.MaxFollowers != nil {
		opts.MaxFollowers = *req.MaxFollowers
		opts.IncludeFollowers = *req.MaxFollowers > 0
	}

	stats, err := h.crawler.CrawlAccounts(r.Context(), req.Usernames, opts)
	if err != nil {
		h.logger.Error("Crawl run aborted", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, stats)
}
