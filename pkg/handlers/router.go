package handlers

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/config"
	"github.com/openccp/openccp-engine/pkg/middleware"
	"github.com/openccp/openccp-engine/pkg/repositories"
	"github.com/openccp/openccp-engine/pkg/services"
)

// Deps carries everything the router needs.
type Deps struct {
	Config   *config.Config
	Accounts repositories.AccountRepository
	Tweets   repositories.TweetRepository
	Follows  repositories.FollowRepository
	Analyzer services.AnalyzerService
	Crawler  services.CrawlerService
	Graph    services.GraphService
	Stats    services.StatsService
	Logger   *zap.Logger
}

// NewRouter builds the full HTTP surface: health endpoints at the root and
// the API under /api.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(deps.Logger))

	NewHealthHandler(deps.Config, deps.Logger).RegisterRoutes(r)

	r.Route("/api", func(r chi.Router) {
		NewAccountHandler(deps.Accounts, deps.Tweets, deps.Follows, deps.Analyzer, deps.Graph, deps.Logger).RegisterRoutes(r)
		NewCampHandler(deps.Analyzer, deps.Logger).RegisterRoutes(r)
		NewKeywordHandler(deps.Analyzer, deps.Logger).RegisterRoutes(r)
		NewCrawlHandler(deps.Crawler, deps.Logger).RegisterRoutes(r)
		NewStatsHandler(deps.Stats, deps.Graph, deps.Logger).RegisterRoutes(r)
	})

	return r
}
