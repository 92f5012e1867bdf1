package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/services"
)

// StatsHandler serves database-wide counts and the full follow graph.
type StatsHandler struct {
	stats  services.StatsService
	graph  services.GraphService
	logger *zap.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats services.StatsService, graph services.GraphService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, graph: graph, logger: logger}
}

// RegisterRoutes registers stats and graph routes on the given router.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.Stats)
	r.Get("/graph", h.Graph)
	r.Get("/graph/{username}", h.AccountGraph)
}

// Stats handles GET /api/stats.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to load stats", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, stats)
}

// Graph handles GET /api/graph.
func (h *StatsHandler) Graph(w http.ResponseWriter, r *http.Request) {
	graph, err := h.graph.Graph(r.Context())
	if err != nil {
		h.logger.Error("Failed to build graph", zap.Error(err))
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, graph)
}

// AccountGraph handles GET /api/graph/{username}: the ego graph around one
// account.
func (h *StatsHandler) AccountGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := h.graph.AccountGraph(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		_ = ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, graph)
}
