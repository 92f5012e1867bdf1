package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/apperrors"
	"github.com/openccp/openccp-engine/pkg/config"
	"github.com/openccp/openccp-engine/pkg/models"
	"github.com/openccp/openccp-engine/pkg/repositories"
)

// IngestionClient is the slice of the X API client the crawler needs. The
// client degrades to nil/empty on upstream failure, so none of these return
// errors.
type IngestionClient interface {
	UserByUsername(ctx context.Context, username string) *models.Account
	UserByID(ctx context.Context, id int64) *models.Account
	UserTweets(ctx context.Context, userID int64, maxResults int) []*models.Tweet
	Following(ctx context.Context, userID int64, maxResults int) []*models.Account
	Followers(ctx context.Context, userID int64, maxResults int) []*models.Account
}

// CrawlOptions controls what a single crawl collects.
type CrawlOptions struct {
	IncludeTweets    bool
	IncludeFollowing bool
	IncludeFollowers bool
	MaxTweets        int
	MaxFollowing     int
	MaxFollowers     int
}

// CrawlResult reports what one account crawl stored.
type CrawlResult struct {
	Account   *models.Account `json:"account"`
	Tweets    int             `json:"tweets"`
	Following int             `json:"following"`
	Followers int             `json:"followers"`
}

// BulkCrawlStats aggregates a multi-account crawl run.
type BulkCrawlStats struct {
	RunID    string `json:"run_id"`
	Crawled  int    `json:"crawled"`
	Failed   int    `json:"failed"`
	Tweets   int    `json:"tweets"`
	Follows  int    `json:"follows"`
	Duration string `json:"duration"`
}

// CrawlerService pulls accounts, tweets, and follow edges from the X API
// into the database.
type CrawlerService interface {
	CrawlAccount(ctx context.Context, username string, opts CrawlOptions) (*CrawlResult, error)
	CrawlAccounts(ctx context.Context, usernames []string, opts CrawlOptions) (*BulkCrawlStats, error)
	DefaultOptions() CrawlOptions
}

var _ CrawlerService = (*crawlerService)(nil)

type crawlerService struct {
	client   IngestionClient
	accounts repositories.AccountRepository
	tweets   repositories.TweetRepository
	follows  repositories.FollowRepository
	cfg      config.CrawlConfig
	logger   *zap.Logger
}

// NewCrawlerService creates the crawler with its ingestion client and
// repositories.
func NewCrawlerService(
	client IngestionClient,
	accounts repositories.AccountRepository,
	tweets repositories.TweetRepository,
	follows repositories.FollowRepository,
	cfg config.CrawlConfig,
	logger *zap.Logger,
) CrawlerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &crawlerService{
		client:   client,
		accounts: accounts,
		tweets:   tweets,
		follows:  follows,
		cfg:      cfg,
		logger:   logger,
	}
}

// DefaultOptions returns a full crawl sized by the configured limits.
func (s *crawlerService) DefaultOptions() CrawlOptions {
	return CrawlOptions{
		IncludeTweets:    true,
		IncludeFollowing: true,
		IncludeFollowers: true,
		MaxTweets:        s.cfg.MaxTweets,
		MaxFollowing:     s.cfg.MaxFollowing,
		MaxFollowers:     s.cfg.MaxFollowers,
	}
}

// CrawlAccount fetches one account by username and stores it as a seed,
// along with its recent tweets and follow edges in both directions.
// Discovered neighbor accounts are stored as non-seeds. An account the
// upstream cannot produce is apperrors.ErrNotFound; repository failures
// propagate.
func (s *crawlerService) CrawlAccount(ctx context.Context, username string, opts CrawlOptions) (*CrawlResult, error) {
	account := s.client.UserByUsername(ctx, username)
	if account == nil {
		return nil, fmt.Errorf("account %q: %w", username, apperrors.ErrNotFound)
	}
	account.IsSeed = true

	if err := s.accounts.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to store account %q: %w", username, err)
	}

	result := &CrawlResult{Account: account}

	if opts.IncludeTweets {
		tweets := s.client.UserTweets(ctx, account.ID, opts.MaxTweets)
		for _, tweet := range tweets {
			if err := s.tweets.Upsert(ctx, tweet); err != nil {
				return nil, fmt.Errorf("failed to store tweet %d: %w", tweet.ID, err)
			}
		}
		result.Tweets = len(tweets)
	}

	if opts.IncludeFollowing {
		n, err := s.storeNeighbors(ctx, s.client.Following(ctx, account.ID, opts.MaxFollowing), account.ID, true)
		if err != nil {
			return nil, err
		}
		result.Following = n
	}

	if opts.IncludeFollowers {
		n, err := s.storeNeighbors(ctx, s.client.Followers(ctx, account.ID, opts.MaxFollowers), account.ID, false)
		if err != nil {
			return nil, err
		}
		result.Followers = n
	}

	s.logger.Info("Crawled account",
		zap.String("username", account.Username),
		zap.Int("tweets", result.Tweets),
		zap.Int("following", result.Following),
		zap.Int("followers", result.Followers))

	return result, nil
}

// storeNeighbors persists discovered accounts and the follow edges between
// them and the seed. outbound selects the edge direction: true means the
// seed follows the neighbor.
func (s *crawlerService) storeNeighbors(ctx context.Context, neighbors []*models.Account, seedID int64, outbound bool) (int, error) {
	for _, neighbor := range neighbors {
		if err := s.accounts.Upsert(ctx, neighbor); err != nil {
			return 0, fmt.Errorf("failed to store neighbor account %q: %w", neighbor.Username, err)
		}

		followerID, followingID := seedID, neighbor.ID
		if !outbound {
			followerID, followingID = neighbor.ID, seedID
		}
		if err := s.follows.Create(ctx, followerID, followingID); err != nil {
			return 0, fmt.Errorf("failed to store follow edge: %w", err)
		}
	}
	return len(neighbors), nil
}

// CrawlAccounts crawls a batch of usernames with a bounded worker pool.
// Individual failures are counted, logged, and do not stop the run. The
// returned stats carry a run id for log correlation.
func (s *crawlerService) CrawlAccounts(ctx context.Context, usernames []string, opts CrawlOptions) (*BulkCrawlStats, error) {
	runID := uuid.New().String()
	start := time.Now()

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	logger := s.logger.With(zap.String("run_id", runID))
	logger.Info("Starting crawl run",
		zap.Int("accounts", len(usernames)),
		zap.Int("workers", workers))

	var (
		mu    sync.Mutex
		stats = &BulkCrawlStats{RunID: runID}
		wg    sync.WaitGroup
		sem   = make(chan struct{}, workers)
	)

	for _, username := range usernames {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(username string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.CrawlAccount(ctx, username, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				logger.Warn("Failed to crawl account",
					zap.String("username", username),
					zap.Error(err))
				return
			}
			stats.Crawled++
			stats.Tweets += result.Tweets
			stats.Follows += result.Following + result.Followers
		}(username)
	}

	wg.Wait()
	stats.Duration = time.Since(start).Round(time.Millisecond).String()

	logger.Info("Crawl run finished",
		zap.Int("crawled", stats.Crawled),
		zap.Int("failed", stats.Failed),
		zap.String("duration", stats.Duration))

	return stats, ctx.Err()
}
