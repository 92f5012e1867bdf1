package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/models"
	"github.com/openccp/openccp-engine/pkg/repositories"
	"github.com/openccp/openccp-engine/pkg/services"
)

// AccountHandler serves stored accounts, their tweets, follow edges,
// camp scores, and neighborhood graphs.
type AccountHandler struct {
	accounts repositories.AccountRepository
	tweets   repositories.TweetRepository
	follows  repositories.FollowRepository
	analyzer services.AnalyzerService
	graph    services.GraphService
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	accounts repositories.AccountRepository,
	tweets repositories.TweetRepository,
	follows repositories.FollowRepository,
	analyzer services.AnalyzerService,
	graph services.GraphService,
	logger *zap.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		tweets:   tweets,
		follows:  follows,
		analyzer: analyzer,
		graph:    graph,
		logger:   logger,
	}
}

// RegisterRoutes registers account routes on the given router.
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Route("/{username}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/tweets", h.Tweets)
			r.Get("/following", h.Following)
			r.Get("/followers", h.Followers)
			r.Get("/scores", h.Scores)
			r.Get("/graph", h.Graph)
			r.Post("/analyze", h.Analyze)
		})
	})
}

// List handles GET /api/accounts. The seeds query parameter limits the
// result to seed accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	seedsOnly := r.URL.Query().Get("seeds") == "true"

	accounts, err := h.accounts.List(r.Context(), seedsOnly)
	if err != nil {
		h.logger.Error("Failed to list accounts", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

// Get handles GET /api/accounts/{username}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.logger.Error("Failed to get account", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}
	if account == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "account not found")
		return
	}

	_ = WriteJSON(w, http.StatusOK, account)
}

// Tweets handles GET /api/accounts/{username}/tweets.
func (h *AccountHandler) Tweets(w http.ResponseWriter, r *http.Request) {
	account, ok := h.lookup(w, r)
	if !ok {
		return
	}

	tweets, err := h.tweets.ListByAccount(r.Context(), account.ID)
	if err != nil {
		h.logger.Error("Failed to list tweets", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{"tweets": tweets})
}

// Following handles GET /api/accounts/{username}/following.
func (h *AccountHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.neighbors(w, r, h.follows.ListFollowingIDs, "following")
}

// Followers handles GET /api/accounts/{username}/followers.
func (h *AccountHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.neighbors(w, r, h.follows.ListFollowerIDs, "followers")
}

// Scores handles GET /api/accounts/{username}/scores.
func (h *AccountHandler) Scores(w http.ResponseWriter, r *http.Request) {
	account, ok := h.lookup(w, r)
	if !ok {
		return
	}

	scores, err := h.analyzer.AccountScores(r.Context(), account.ID)
	if err != nil {
		h.logger.Error("Failed to list scores", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

// Graph handles GET /api/accounts/{username}/graph.
func (h *AccountHandler) Graph(w http.ResponseWriter, r *http.Request) {
	graph, err := h.graph.AccountGraph(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, graph)
}

// Analyze handles POST /api/accounts/{username}/analyze: re-score one
// account against every camp and persist the results.
func (h *AccountHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	account, ok := h.lookup(w, r)
	if !ok {
		return
	}

	scores, err := h.analyzer.AnalyzeAndSave(r.Context(), account)
	if err != nil {
		h.logger.Error("Failed to analyze account", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

func (h *AccountHandler) neighbors(w http.ResponseWriter, r *http.Request, list func(context.Context, int64) ([]int64, error), key string) {
	account, ok := h.lookup(w, r)
	if !ok {
		return
	}

	ids, err := list(r.Context(), account.ID)
	if err != nil {
		h.logger.Error("Failed to list follow edges", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	accounts, err := h.accounts.ListByIDs(r.Context(), ids)
	if err != nil {
		h.logger.Error("Failed to load accounts", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{key: accounts})
}

func (h *AccountHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	account, err := h.accounts.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.logger.Error("Failed to get account", zap.Error(err))
		_ = ServiceError(w, err)
		return nil, false
	}
	if account == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "account not found")
		return nil, false
	}
	return account, true
}

// parseID parses a positive decimal id path parameter.
func parseID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
