// Package repositories provides data access over the engine's PostgreSQL
// schema. All queries are plain SQL through pgx; deduplication of already
// known rows is handled here with ON CONFLICT clauses, never by callers.
package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openccp/openccp-engine/pkg/database"
	"github.com/openccp/openccp-engine/pkg/models"
)

// AccountRepository provides data access for X accounts.
type AccountRepository interface {
	Upsert(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	List(ctx context.Context, seedsOnly bool) ([]*models.Account, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Account, error)
	Count(ctx context.Context) (int, error)
	CountSeeds(ctx context.Context) (int, error)
}

type accountRepository struct {
	db *database.DB
}

// NewAccountRepository creates an account repository over the given pool.
func NewAccountRepository(db *database.DB) AccountRepository {
	return &accountRepository{db: db}
}

var _ AccountRepository = (*accountRepository)(nil)

const accountColumns = `
	id, username, name, description, location, url, profile_image_url,
	pinned_tweet_id, verified, verified_type, protected,
	followers_count, following_count, tweet_count, listed_count, like_count, media_count,
	entities, is_seed, x_created_at, created_at, updated_at`

// Upsert inserts the account or refreshes every mutable field of an existing
// row. The seed flag is sticky: once an account has been crawled as a seed it
// stays a seed even when rediscovered through someone else's follow list.
func (r *accountRepository) Upsert(ctx context.Context, account *models.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (
			id, username, name, description, location, url, profile_image_url,
			pinned_tweet_id, verified, verified_type, protected,
			followers_count, following_count, tweet_count, listed_count, like_count, media_count,
			entities, is_seed, x_created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			url = EXCLUDED.url,
			profile_image_url = EXCLUDED.profile_image_url,
			pinned_tweet_id = EXCLUDED.pinned_tweet_id,
			verified = EXCLUDED.verified,
			verified_type = EXCLUDED.verified_type,
			protected = EXCLUDED.protected,
			followers_count = EXCLUDED.followers_count,
			following_count = EXCLUDED.following_count,
			tweet_count = EXCLUDED.tweet_count,
			listed_count = EXCLUDED.listed_count,
			like_count = EXCLUDED.like_count,
			media_count = EXCLUDED.media_count,
			entities = EXCLUDED.entities,
			is_seed = accounts.is_seed OR EXCLUDED.is_seed,
			x_created_at = EXCLUDED.x_created_at,
			updated_at = now()`,
		account.ID, account.Username, account.Name, account.Description,
		account.Location, account.URL, account.ProfileImageURL,
		account.PinnedTweetID, account.Verified, account.VerifiedType, account.Protected,
		account.FollowersCount, account.FollowingCount, account.TweetCount,
		account.ListedCount, account.LikeCount, account.MediaCount,
		account.Entities, account.IsSeed, account.XCreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccountRow(row)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	return scanAccountRow(row)
}

func (r *accountRepository) List(ctx context.Context, seedsOnly bool) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts`
	if seedsOnly {
		query += ` WHERE is_seed`
	}
	query += ` ORDER BY followers_count DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func (r *accountRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by ids: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func (r *accountRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (r *accountRepository) CountSeeds(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE is_seed`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count seed accounts: %w", err)
	}
	return count, nil
}

func scanAccountRow(row pgx.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.Username, &account.Name, &account.Description,
		&account.Location, &account.URL, &account.ProfileImageURL,
		&account.PinnedTweetID, &account.Verified, &account.VerifiedType, &account.Protected,
		&account.FollowersCount, &account.FollowingCount, &account.TweetCount,
		&account.ListedCount, &account.LikeCount, &account.MediaCount,
		&account.Entities, &account.IsSeed, &account.XCreatedAt,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return account, nil
}

func scanAccounts(rows pgx.Rows) ([]*models.Account, error) {
	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}
