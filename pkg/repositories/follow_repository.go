package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openccp/openccp-engine/pkg/database"
	"github.com/openccp/openccp-engine/pkg/models"
)

// FollowRepository provides data access for follow edges.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID int64) error
	ListFollowingIDs(ctx context.Context, followerID int64) ([]int64, error)
	ListFollowerIDs(ctx context.Context, followingID int64) ([]int64, error)
	ListAll(ctx context.Context) ([]*models.Follow, error)
	ListAmong(ctx context.Context, accountIDs []int64) ([]*models.Follow, error)
	Count(ctx context.Context) (int, error)
}

type followRepository struct {
	db *database.DB
}

// NewFollowRepository creates a follow repository over the given pool.
func NewFollowRepository(db *database.DB) FollowRepository {
	return &followRepository{db: db}
}

var _ FollowRepository = (*followRepository)(nil)

// Create records a follow edge. Rediscovering a known edge is a no-op.
func (r *followRepository) Create(ctx context.Context, followerID, followingID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING`,
		followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to create follow edge: %w", err)
	}
	return nil
}

func (r *followRepository) ListFollowingIDs(ctx context.Context, followerID int64) ([]int64, error) {
	return r.listIDs(ctx, `SELECT following_id FROM follows WHERE follower_id = $1`, followerID)
}

func (r *followRepository) ListFollowerIDs(ctx context.Context, followingID int64) ([]int64, error) {
	return r.listIDs(ctx, `SELECT follower_id FROM follows WHERE following_id = $1`, followingID)
}

func (r *followRepository) listIDs(ctx context.Context, query string, arg int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follow id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow ids: %w", err)
	}
	return ids, nil
}

func (r *followRepository) ListAll(ctx context.Context) ([]*models.Follow, error) {
	rows, err := r.db.Query(ctx, `SELECT follower_id, following_id, created_at FROM follows`)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	defer rows.Close()

	return scanFollows(rows)
}

// ListAmong returns only the edges whose both endpoints are in accountIDs,
// which is what an ego-graph view needs.
func (r *followRepository) ListAmong(ctx context.Context, accountIDs []int64) ([]*models.Follow, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT follower_id, following_id, created_at
		FROM follows
		WHERE follower_id = ANY($1) AND following_id = ANY($1)`, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows among accounts: %w", err)
	}
	defer rows.Close()

	return scanFollows(rows)
}

func (r *followRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM follows`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count follows: %w", err)
	}
	return count, nil
}

func scanFollows(rows pgx.Rows) ([]*models.Follow, error) {
	var follows []*models.Follow
	for rows.Next() {
		follow := &models.Follow{}
		if err := rows.Scan(&follow.FollowerID, &follow.FollowingID, &follow.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		follows = append(follows, follow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follows: %w", err)
	}
	return follows, nil
}
