package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

type BrandRepository struct {
	pool *pgxpool.Pool
}

func NewBrandRepository(pool *pgxpool.Pool) *BrandRepository {
	return &BrandRepository{pool: pool}
}

func (r *BrandRepository) Create(ctx context.Context, b *model.Brand) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO brands (name) VALUES ($1) RETURNING id, created_at, updated_at`,
		b.Name).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt))
}

func (r *BrandRepository) GetAll(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM brands ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *BrandRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	b := &model.Brand{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM brands WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func (r *BrandRepository) Update(ctx context.Context, b *model.Brand) error {
	return translate(r.pool.QueryRow(ctx,
		`UPDATE brands SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING created_at, updated_at`,
		b.Name, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt))
}

// Delete removes a brand. Brands that still own quizzes yield ErrReferenced.
func (r *BrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id))
}
