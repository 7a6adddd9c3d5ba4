package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

// OptionRepository handles choice option data access.
type OptionRepository struct {
	pool *pgxpool.Pool
}

// NewOptionRepository creates a new OptionRepository.
func NewOptionRepository(pool *pgxpool.Pool) *OptionRepository {
	return &OptionRepository{pool: pool}
}

const optionColumns = `o.id, o.field_id, o.order_index, o.is_visible, o.label, o.description, o.value,
	o.icon_media_id, o.image_media_id, o.is_default, o.score,
	o.row_index, o.col_index, o.row_span, o.col_span, o.created_at, o.updated_at`

func scanOption(row interface{ Scan(...any) error }, o *model.Option) error {
	return row.Scan(&o.ID, &o.FieldID, &o.OrderIndex, &o.IsVisible, &o.Label, &o.Description, &o.Value,
		&o.IconMediaID, &o.ImageMediaID, &o.IsDefault, &o.Score,
		&o.Position.Row, &o.Position.Col, &o.Position.RowSpan, &o.Position.ColSpan, &o.CreatedAt, &o.UpdatedAt)
}

func (r *OptionRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Option, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []model.Option
	for rows.Next() {
		var o model.Option
		if err := scanOption(rows, &o); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// ListByField returns a field's options in order.
func (r *OptionRepository) ListByField(ctx context.Context, fieldID uuid.UUID) ([]model.Option, error) {
	return r.list(ctx,
		`SELECT `+optionColumns+` FROM options o WHERE o.field_id = $1 ORDER BY o.order_index, o.created_at`, fieldID)
}

// ListByVersion returns the options of every field of a version.
func (r *OptionRepository) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]model.Option, error) {
	return r.list(ctx,
		`SELECT `+optionColumns+`
		 FROM options o
		 JOIN fields f ON f.id = o.field_id
		 JOIN steps s ON s.id = f.step_id
		 WHERE s.quiz_version_id = $1
		 ORDER BY o.field_id, o.order_index, o.created_at`, versionID)
}

// GetByID retrieves an option by its UUID.
func (r *OptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Option, error) {
	o := &model.Option{}
	if err := scanOption(r.pool.QueryRow(ctx, `SELECT `+optionColumns+` FROM options o WHERE o.id = $1`, id), o); err != nil {
		return nil, translate(err)
	}
	return o, nil
}

// Create inserts an option at the end of its field. A repeated value yields ErrDuplicate.
func (r *OptionRepository) Create(ctx context.Context, o *model.Option) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO options (field_id, order_index, is_visible, label, description, value,
		     icon_media_id, image_media_id, is_default, score, row_index, col_index, row_span, col_span)
		 VALUES ($1, (SELECT COUNT(*) FROM options WHERE field_id = $1), $2, $3, $4, $5,
		     $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, order_index, created_at, updated_at`,
		o.FieldID, o.IsVisible, o.Label, o.Description, o.Value,
		o.IconMediaID, o.ImageMediaID, o.IsDefault, o.Score,
		o.Position.Row, o.Position.Col, o.Position.RowSpan, o.Position.ColSpan,
	).Scan(&o.ID, &o.OrderIndex, &o.CreatedAt, &o.UpdatedAt))
}

// Update writes every mutable column of o.
func (r *OptionRepository) Update(ctx context.Context, o *model.Option) error {
	return translate(r.pool.QueryRow(ctx,
		`UPDATE options
		 SET order_index = $1, is_visible = $2, label = $3, description = $4, value = $5,
		     icon_media_id = $6, image_media_id = $7, is_default = $8, score = $9,
		     row_index = $10, col_index = $11, row_span = $12, col_span = $13, updated_at = NOW()
		 WHERE id = $14
		 RETURNING updated_at`,
		o.OrderIndex, o.IsVisible, o.Label, o.Description, o.Value,
		o.IconMediaID, o.ImageMediaID, o.IsDefault, o.Score,
		o.Position.Row, o.Position.Col, o.Position.RowSpan, o.Position.ColSpan, o.ID,
	).Scan(&o.UpdatedAt))
}

// Delete removes an option.
func (r *OptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM options WHERE id = $1`, id))
}
