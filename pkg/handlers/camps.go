package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/models"
	"github.com/openccp/openccp-engine/pkg/services"
)

// CampHandler manages camps, their keywords, and camp leaderboards.
type CampHandler struct {
	analyzer services.AnalyzerService
	logger   *zap.Logger
}

// NewCampHandler creates a new CampHandler.
func NewCampHandler(analyzer services.AnalyzerService, logger *zap.Logger) *CampHandler {
	return &CampHandler{analyzer: analyzer, logger: logger}
}

// RegisterRoutes registers camp routes on the given router.
func (h *CampHandler) RegisterRoutes(r chi.Router) {
	r.Route("/camps", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/keywords", h.Keywords)
			r.Post("/keywords", h.AddKeyword)
			r.Get("/leaderboard", h.Leaderboard)
		})
	})
	r.Post("/analyze", h.AnalyzeAll)
}

type createCampRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
}

type addKeywordRequest struct {
	Term          string  `json:"term"`
	Weight        float64 `json:"weight"`
	CaseSensitive bool    `json:"case_sensitive"`
}

// List handles GET /api/camps.
func (h *CampHandler) List(w http.ResponseWriter, r *http.Request) {
	camps, err := h.analyzer.GetCamps(r.Context())
	if err != nil {
		h.logger.Error("Failed to list camps", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{"camps": camps})
}

// Create handles POST /api/camps.
func (h *CampHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCampRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	camp := &models.Camp{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Color:       req.Color,
	}
	if err := h.analyzer.CreateCamp(r.Context(), camp); err != nil {
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, camp)
}

// Get handles GET /api/camps/{slug}.
func (h *CampHandler) Get(w http.ResponseWriter, r *http.Request) {
	camp, ok := h.lookup(w, r)
	if !ok {
		return
	}

	_ = WriteJSON(w, http.StatusOK, camp)
}

// Keywords handles GET /api/camps/{slug}/keywords.
func (h *CampHandler) Keywords(w http.ResponseWriter, r *http.Request) {
	camp, ok := h.lookup(w, r)
	if !ok {
		return
	}

	keywords, err := h.analyzer.GetCampKeywords(r.Context(), camp.ID)
	if err != nil {
		h.logger.Error("Failed to list camp keywords", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{"keywords": keywords})
}

// AddKeyword handles POST /api/camps/{slug}/keywords.
func (h *CampHandler) AddKeyword(w http.ResponseWriter, r *http.Request) {
	camp, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req addKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Term == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "term is required")
		return
	}
	if req.Weight == 0 {
		req.Weight = 1.0
	}

	keyword, err := h.analyzer.AddKeywordToCamp(r.Context(), camp.ID, req.Term, req.Weight, req.CaseSensitive)
	if err != nil {
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, keyword)
}

// Leaderboard handles GET /api/camps/{slug}/leaderboard. The limit query
// parameter caps the number of entries, default 20.
func (h *CampHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	camp, ok := h.lookup(w, r)
	if !ok {
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.analyzer.Leaderboard(r.Context(), camp.ID, limit)
	if err != nil {
		h.logger.Error("Failed to build leaderboard", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{
		"camp":        camp,
		"leaderboard": entries,
	})
}

// AnalyzeAll handles POST /api/analyze: re-score every stored account.
func (h *CampHandler) AnalyzeAll(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyzer.AnalyzeAllAccounts(r.Context())
	if err != nil {
		h.logger.Error("Failed to analyze accounts", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, stats)
}

func (h *CampHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Camp, bool) {
	camp, err := h.analyzer.GetCampBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.logger.Error("Failed to get camp", zap.Error(err))
		_ = ServiceError(w, err)
		return nil, false
	}
	if camp == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "camp not found")
		return nil, false
	}
	return camp, true
}
