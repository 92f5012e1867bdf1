package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/services"
)

// KeywordHandler manages the global inclusion/exclusion keyword filters.
type KeywordHandler struct {
	analyzer services.AnalyzerService
	logger   *zap.Logger
}

// NewKeywordHandler creates a new KeywordHandler.
func NewKeywordHandler(analyzer services.AnalyzerService, logger *zap.Logger) *KeywordHandler {
	return &KeywordHandler{analyzer: analyzer, logger: logger}
}

// RegisterRoutes registers keyword routes on the given router.
func (h *KeywordHandler) RegisterRoutes(r chi.Router) {
	r.Route("/keywords", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})
}

type createKeywordRequest struct {
	Term          string `json:"term"`
	Type          string `json:"type"`
	CaseSensitive bool   `json:"case_sensitive"`
}

// List handles GET /api/keywords.
func (h *KeywordHandler) List(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.analyzer.ListKeywords(r.Context())
	if err != nil {
		h.logger.Error("Failed to list keywords", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{"keywords": keywords})
}

// Create handles POST /api/keywords.
func (h *KeywordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Term == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "term is required")
		return
	}

	keyword, err := h.analyzer.CreateKeyword(r.Context(), req.Term, req.Type, req.CaseSensitive)
	if err != nil {
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, keyword)
}

// Delete handles DELETE /api/keywords/{id}.
func (h *KeywordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "id must be an integer")
		return
	}

	if err := h.analyzer.DeleteKeyword(r.Context(), id); err != nil {
		_ = ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
