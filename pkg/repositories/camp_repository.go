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

// CampRepository provides data access for camps.
type CampRepository interface {
	Create(ctx context.Context, camp *models.Camp) error
	GetByID(ctx context.Context, id int64) (*models.Camp, error)
	GetBySlug(ctx context.Context, slug string) (*models.Camp, error)
	List(ctx context.Context) ([]*models.Camp, error)
}

type campRepository struct {
	db *database.DB
}

// NewCampRepository creates a camp repository over the given pool.
func NewCampRepository(db *database.DB) CampRepository {
	return &campRepository{db: db}
}

var _ CampRepository = (*campRepository)(nil)

// Create inserts a camp. A duplicate slug surfaces as apperrors.ErrConflict.
func (r *campRepository) Create(ctx context.Context, camp *models.Camp) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO camps (name, slug, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		camp.Name, camp.Slug, camp.Description, camp.Color,
	).Scan(&camp.ID, &camp.CreatedAt)

	if err != nil {
		// Unique constraint violation (PostgreSQL error code 23505)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create camp: %w", err)
	}
	return nil
}

func (r *campRepository) GetByID(ctx context.Context, id int64) (*models.Camp, error) {
	return r.get(ctx, `SELECT id, name, slug, description, color, created_at FROM camps WHERE id = $1`, id)
}

func (r *campRepository) GetBySlug(ctx context.Context, slug string) (*models.Camp, error) {
	return r.get(ctx, `SELECT id, name, slug, description, color, created_at FROM camps WHERE slug = $1`, slug)
}

func (r *campRepository) get(ctx context.Context, query string, arg any) (*models.Camp, error) {
	camp := &models.Camp{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&camp.ID, &camp.Name, &camp.Slug, &camp.Description, &camp.Color, &camp.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get camp: %w", err)
	}
	return camp, nil
}

func (r *campRepository) List(ctx context.Context) ([]*models.Camp, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, description, color, created_at FROM camps ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list camps: %w", err)
	}
	defer rows.Close()

	var camps []*models.Camp
	for rows.Next() {
		camp := &models.Camp{}
		if err := rows.Scan(&camp.ID, &camp.Name, &camp.Slug, &camp.Description, &camp.Color, &camp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan camp: %w", err)
		}
		camps = append(camps, camp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating camps: %w", err)
	}
	return camps, nil
}
