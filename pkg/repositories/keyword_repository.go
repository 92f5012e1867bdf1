package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openccp/openccp-engine/pkg/apperrors"
	"github.com/openccp/openccp-engine/pkg/database"
	"github.com/openccp/openccp-engine/pkg/models"
)

// KeywordRepository provides data access for keywords.
type KeywordRepository interface {
	Create(ctx context.Context, keyword *models.Keyword) error
	GetByID(ctx context.Context, id int64) (*models.Keyword, error)
	GetByTermAndType(ctx context.Context, term, keywordType string) (*models.Keyword, error)
	List(ctx context.Context) ([]*models.Keyword, error)
	ListByCamp(ctx context.Context, campID int64) ([]*models.Keyword, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type keywordRepository struct {
	db *database.DB
}

// NewKeywordRepository creates a keyword repository over the given pool.
func NewKeywordRepository(db *database.DB) KeywordRepository {
	return &keywordRepository{db: db}
}

var _ KeywordRepository = (*keywordRepository)(nil)

const keywordColumns = `id, term, type, camp_id, weight, case_sensitive, created_at`

func (r *keywordRepository) Create(ctx context.Context, keyword *models.Keyword) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO keywords (term, type, camp_id, weight, case_sensitive)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		keyword.Term, keyword.Type, keyword.CampID, keyword.Weight, keyword.CaseSensitive,
	).Scan(&keyword.ID, &keyword.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create keyword: %w", err)
	}
	return nil
}

func (r *keywordRepository) GetByID(ctx context.Context, id int64) (*models.Keyword, error) {
	row := r.db.QueryRow(ctx, `SELECT `+keywordColumns+` FROM keywords WHERE id = $1`, id)
	return scanKeywordRow(row)
}

func (r *keywordRepository) GetByTermAndType(ctx context.Context, term, keywordType string) (*models.Keyword, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+keywordColumns+` FROM keywords WHERE term = $1 AND type = $2`, term, keywordType)
	return scanKeywordRow(row)
}

func (r *keywordRepository) List(ctx context.Context) ([]*models.Keyword, error) {
	return r.list(ctx, `SELECT `+keywordColumns+` FROM keywords ORDER BY term`)
}

func (r *keywordRepository) ListByCamp(ctx context.Context, campID int64) ([]*models.Keyword, error) {
	return r.list(ctx, `SELECT `+keywordColumns+` FROM keywords WHERE camp_id = $1 ORDER BY term`, campID)
}

func (r *keywordRepository) list(ctx context.Context, query string, args ...any) ([]*models.Keyword, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []*models.Keyword
	for rows.Next() {
		keyword, err := scanKeywordRow(rows)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, keyword)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keywords: %w", err)
	}
	return keywords, nil
}

// Delete removes a keyword. Deleting an unknown id is apperrors.ErrNotFound.
func (r *keywordRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM keywords WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *keywordRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM keywords`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count keywords: %w", err)
	}
	return count, nil
}

func scanKeywordRow(row pgx.Row) (*models.Keyword, error) {
	keyword := &models.Keyword{}
	err := row.Scan(
		&keyword.ID, &keyword.Term, &keyword.Type, &keyword.CampID,
		&keyword.Weight, &keyword.CaseSensitive, &keyword.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan keyword: %w", err)
	}
	return keyword, nil
}
