package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openccp/openccp-engine/pkg/database"
	"github.com/openccp/openccp-engine/pkg/models"
)

// TweetRepository provides data access for tweets.
type TweetRepository interface {
	Upsert(ctx context.Context, tweet *models.Tweet) error
	ListByAccount(ctx context.Context, accountID int64) ([]*models.Tweet, error)
	Count(ctx context.Context) (int, error)
}

type tweetRepository struct {
	db *database.DB
}

// NewTweetRepository creates a tweet repository over the given pool.
func NewTweetRepository(db *database.DB) TweetRepository {
	return &tweetRepository{db: db}
}

var _ TweetRepository = (*tweetRepository)(nil)

const tweetColumns = `
	id, account_id, text, lang, conversation_id, in_reply_to_user_id,
	referenced_tweets, retweet_count, reply_count, like_count, quote_count,
	bookmark_count, impression_count, entities, x_created_at, created_at`

// Upsert inserts the tweet or refreshes its engagement counters. Text and
// identifiers never change on the platform, so a re-crawl only moves metrics.
func (r *tweetRepository) Upsert(ctx context.Context, tweet *models.Tweet) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tweets (
			id, account_id, text, lang, conversation_id, in_reply_to_user_id,
			referenced_tweets, retweet_count, reply_count, like_count, quote_count,
			bookmark_count, impression_count, entities, x_created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			retweet_count = EXCLUDED.retweet_count,
			reply_count = EXCLUDED.reply_count,
			like_count = EXCLUDED.like_count,
			quote_count = EXCLUDED.quote_count,
			bookmark_count = EXCLUDED.bookmark_count,
			impression_count = EXCLUDED.impression_count`,
		tweet.ID, tweet.AccountID, tweet.Text, tweet.Lang,
		tweet.ConversationID, tweet.InReplyToUserID,
		tweet.ReferencedTweets, tweet.RetweetCount, tweet.ReplyCount,
		tweet.LikeCount, tweet.QuoteCount, tweet.BookmarkCount,
		tweet.ImpressionCount, tweet.Entities, tweet.XCreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tweet: %w", err)
	}
	return nil
}

func (r *tweetRepository) ListByAccount(ctx context.Context, accountID int64) ([]*models.Tweet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+tweetColumns+`
		FROM tweets
		WHERE account_id = $1
		ORDER BY x_created_at DESC NULLS LAST`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	var tweets []*models.Tweet
	for rows.Next() {
		tweet, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tweets: %w", err)
	}
	return tweets, nil
}

func (r *tweetRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tweets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tweets: %w", err)
	}
	return count, nil
}

func scanTweet(rows pgx.Rows) (*models.Tweet, error) {
	tweet := &models.Tweet{}
	err := rows.Scan(
		&tweet.ID, &tweet.AccountID, &tweet.Text, &tweet.Lang,
		&tweet.ConversationID, &tweet.InReplyToUserID,
		&tweet.ReferencedTweets, &tweet.RetweetCount, &tweet.ReplyCount,
		&tweet.LikeCount, &tweet.QuoteCount, &tweet.BookmarkCount,
		&tweet.ImpressionCount, &tweet.Entities, &tweet.XCreatedAt, &tweet.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tweet: %w", err)
	}
	return tweet, nil
}
