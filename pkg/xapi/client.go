// Package xapi is the resilient ingestion client for the X API v2: typed
// payload normalization, rate-limit backoff, and cursor pagination over the
// user, tweet and follow listing endpoints.
package xapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/logging"
	"github.com/openccp/openccp-engine/pkg/models"
)

// Documented per-page bounds, distinct per endpoint family.
const (
	minTweetPageSize  = 5
	maxTweetPageSize  = 100
	minFollowPageSize = 1
	maxFollowPageSize = 1000
)

// Client is the ingestion facade. Every operation is individually resilient:
// retries are handled inside, and any exhausted or non-retryable failure is
// logged and degraded to an empty/absent result. Losing one account must
// never abort a crawl over many accounts.
type Client struct {
	transport Transport
	invoker   *Invoker
	logger    *zap.Logger
}

// NewClient creates an ingestion client over the given transport.
func NewClient(transport Transport, policy Policy, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		transport: transport,
		invoker:   NewInvoker(policy, logger),
		logger:    logger,
	}
}

// UserByUsername fetches one account by handle. Returns nil when the account
// does not exist or the fetch ultimately failed.
func (c *Client) UserByUsername(ctx context.Context, username string) *models.Account {
	raw, err := Invoke(ctx, c.invoker, func() (*RawUser, error) {
		return c.transport.UserByUsername(ctx, username)
	})
	if err != nil {
		c.logger.Warn("Failed to fetch user by username",
			zap.String("username", username),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}
	if raw == nil {
		return nil
	}
	return NormalizeUser(raw)
}

// UserByID fetches one account by platform id. Returns nil when the account
// does not exist or the fetch ultimately failed.
func (c *Client) UserByID(ctx context.Context, id int64) *models.Account {
	raw, err := Invoke(ctx, c.invoker, func() (*RawUser, error) {
		return c.transport.UserByID(ctx, id)
	})
	if err != nil {
		c.logger.Warn("Failed to fetch user by id",
			zap.Int64("user_id", id),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}
	if raw == nil {
		return nil
	}
	return NormalizeUser(raw)
}

// TweetsByIDs batch-fetches tweets by id. An empty input returns an empty
// result without touching the transport.
func (c *Client) TweetsByIDs(ctx context.Context, ids []int64) []*models.Tweet {
	if len(ids) == 0 {
		return nil
	}

	raw, err := Invoke(ctx, c.invoker, func() ([]RawTweet, error) {
		return c.transport.TweetsByIDs(ctx, ids)
	})
	if err != nil {
		c.logger.Warn("Failed to fetch tweets by ids",
			zap.Int("count", len(ids)),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}

	tweets := make([]*models.Tweet, 0, len(raw))
	for i := range raw {
		tweets = append(tweets, NormalizeTweet(&raw[i]))
	}
	return tweets
}

// UserTweets fetches up to maxResults recent tweets for a user, paginating
// in cursor order.
func (c *Client) UserTweets(ctx context.Context, userID int64, maxResults int) []*models.Tweet {
	perPage := clampPageSize(maxResults, minTweetPageSize, maxTweetPageSize)
	pager := c.transport.UserTweets(userID, perPage)

	tweets, err := fetchPages(ctx, c.invoker, pager, NormalizeTweet, maxResults)
	if err != nil {
		c.logger.Warn("Failed to fetch user tweets",
			zap.Int64("user_id", userID),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}
	return tweets
}

// Following fetches up to maxResults accounts the user follows.
func (c *Client) Following(ctx context.Context, userID int64, maxResults int) []*models.Account {
	perPage := clampPageSize(maxResults, minFollowPageSize, maxFollowPageSize)
	pager := c.transport.Following(userID, perPage)

	users, err := fetchPages(ctx, c.invoker, pager, NormalizeUser, maxResults)
	if err != nil {
		c.logger.Warn("Failed to fetch following",
			zap.Int64("user_id", userID),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}
	return users
}

// Followers fetches up to maxResults accounts that follow the user.
func (c *Client) Followers(ctx context.Context, userID int64, maxResults int) []*models.Account {
	perPage := clampPageSize(maxResults, minFollowPageSize, maxFollowPageSize)
	pager := c.transport.Followers(userID, perPage)

	users, err := fetchPages(ctx, c.invoker, pager, NormalizeUser, maxResults)
	if err != nil {
		c.logger.Warn("Failed to fetch followers",
			zap.Int64("user_id", userID),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}
	return users
}
