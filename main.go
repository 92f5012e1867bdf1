package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/config"
	"github.com/openccp/openccp-engine/pkg/database"
	"github.com/openccp/openccp-engine/pkg/handlers"
	"github.com/openccp/openccp-engine/pkg/logging"
	"github.com/openccp/openccp-engine/pkg/repositories"
	"github.com/openccp/openccp-engine/pkg/services"
	"github.com/openccp/openccp-engine/pkg/xapi"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg.Database.Host = config.ResolveHostForDocker(cfg.Database.Host)

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &database.Config{URL: cfg.Database.ConnectionString()})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	accounts := repositories.NewAccountRepository(db)
	tweets := repositories.NewTweetRepository(db)
	follows := repositories.NewFollowRepository(db)
	camps := repositories.NewCampRepository(db)
	keywords := repositories.NewKeywordRepository(db)
	scores := repositories.NewScoreRepository(db)

	transport, err := xapi.NewHTTPTransport(cfg.XAPI.BaseURL, cfg.XAPI.BearerToken)
	if err != nil {
		logger.Fatal("Failed to create X API transport", zap.Error(err))
	}
	client := xapi.NewClient(transport, xapi.Policy{
		MaxRetries: cfg.XAPI.MaxRetries,
		BaseDelay:  cfg.XAPI.BaseDelay,
		MaxDelay:   cfg.XAPI.MaxDelay,
		Jitter:     cfg.XAPI.Jitter,
	}, logger)

	analyzer := services.NewAnalyzerService(accounts, tweets, camps, keywords, scores, logger)
	crawler := services.NewCrawlerService(client, accounts, tweets, follows, cfg.Crawl, logger)
	graph := services.NewGraphService(accounts, follows, logger)
	stats := services.NewStatsService(accounts, tweets, follows, keywords)

	router := handlers.NewRouter(handlers.Deps{
		Config:   cfg,
		Accounts: accounts,
		Tweets:   tweets,
		Follows:  follows,
		Analyzer: analyzer,
		Crawler:  crawler,
		Graph:    graph,
		Stats:    stats,
		Logger:   logger,
	})

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Starting openccp-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
