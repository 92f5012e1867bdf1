package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openccp/openccp-engine/pkg/database"
	"github.com/openccp/openccp-engine/pkg/models"
)

// ScoreRepository provides data access for account camp scores. Rows are
// exclusively written through Upsert; there is no partial update path.
type ScoreRepository interface {
	Upsert(ctx context.Context, score *models.AccountCampScore) error
	Get(ctx context.Context, accountID, campID int64) (*models.AccountCampScore, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*models.AccountCampScore, error)
	Leaderboard(ctx context.Context, campID int64, limit int) ([]*models.LeaderboardEntry, error)
}

type scoreRepository struct {
	db *database.DB
}

// NewScoreRepository creates a score repository over the given pool.
func NewScoreRepository(db *database.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

var _ ScoreRepository = (*scoreRepository)(nil)

const scoreColumns = `account_id, camp_id, score, bio_score, tweet_score, match_details, analyzed_at`

// Upsert atomically replaces the score row for (account_id, camp_id). The
// single INSERT ... ON CONFLICT statement leaves no read-modify-write window,
// so concurrent re-analysis of the same account resolves to last-writer-wins.
func (r *scoreRepository) Upsert(ctx context.Context, score *models.AccountCampScore) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO account_camp_scores (
			account_id, camp_id, score, bio_score, tweet_score, match_details, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id, camp_id) DO UPDATE SET
			score = EXCLUDED.score,
			bio_score = EXCLUDED.bio_score,
			tweet_score = EXCLUDED.tweet_score,
			match_details = EXCLUDED.match_details,
			analyzed_at = EXCLUDED.analyzed_at`,
		score.AccountID, score.CampID, score.Score, score.BioScore,
		score.TweetScore, score.MatchDetails, score.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert score: %w", err)
	}
	return nil
}

func (r *scoreRepository) Get(ctx context.Context, accountID, campID int64) (*models.AccountCampScore, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+scoreColumns+`
		FROM account_camp_scores
		WHERE account_id = $1 AND camp_id = $2`, accountID, campID)

	score, err := scanScoreRow(row)
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (r *scoreRepository) ListByAccount(ctx context.Context, accountID int64) ([]*models.AccountCampScore, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+scoreColumns+`
		FROM account_camp_scores
		WHERE account_id = $1
		ORDER BY score DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.AccountCampScore
	for rows.Next() {
		score, err := scanScoreRow(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return scores, nil
}

// Leaderboard returns the top positively-scored accounts for a camp.
func (r *scoreRepository) Leaderboard(ctx context.Context, campID int64, limit int) ([]*models.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.account_id, a.username, a.name, s.score, s.bio_score, s.tweet_score, s.analyzed_at
		FROM account_camp_scores s
		JOIN accounts a ON a.id = s.account_id
		WHERE s.camp_id = $1 AND s.score > 0
		ORDER BY s.score DESC
		LIMIT $2`, campID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		entry := &models.LeaderboardEntry{}
		err := rows.Scan(
			&entry.AccountID, &entry.Username, &entry.Name,
			&entry.Score, &entry.BioScore, &entry.TweetScore, &entry.AnalyzedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}
	return entries, nil
}

func scanScoreRow(row pgx.Row) (*models.AccountCampScore, error) {
	score := &models.AccountCampScore{}
	err := row.Scan(
		&score.AccountID, &score.CampID, &score.Score, &score.BioScore,
		&score.TweetScore, &score.MatchDetails, &score.AnalyzedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan score: %w", err)
	}
	return score, nil
}
