package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

// GroupedInputRepository handles grouped input data access.
type GroupedInputRepository struct {
	pool *pgxpool.Pool
}

// NewGroupedInputRepository creates a new GroupedInputRepository.
func NewGroupedInputRepository(pool *pgxpool.Pool) *GroupedInputRepository {
	return &GroupedInputRepository{pool: pool}
}

const groupedInputColumns = `g.id, g.field_id, g.order_index, g.is_visible, g.field_key, g.label, g.input_type,
	g.unit, g.min_value, g.max_value, g.placeholder, g.required,
	g.row_index, g.col_index, g.row_span, g.col_span, g.created_at, g.updated_at`

func scanGroupedInput(row interface{ Scan(...any) error }, g *model.GroupedInput) error {
	return row.Scan(&g.ID, &g.FieldID, &g.OrderIndex, &g.IsVisible, &g.FieldKey, &g.Label, &g.InputType,
		&g.Unit, &g.Min, &g.Max, &g.Placeholder, &g.Required,
		&g.Position.Row, &g.Position.Col, &g.Position.RowSpan, &g.Position.ColSpan, &g.CreatedAt, &g.UpdatedAt)
}

func (r *GroupedInputRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.GroupedInput, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.GroupedInput
	for rows.Next() {
		var g model.GroupedInput
		if err := scanGroupedInput(rows, &g); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// ListByField returns a group field's inputs in order.
func (r *GroupedInputRepository) ListByField(ctx context.Context, fieldID uuid.UUID) ([]model.GroupedInput, error) {
	return r.list(ctx,
		`SELECT `+groupedInputColumns+` FROM grouped_inputs g WHERE g.field_id = $1 ORDER BY g.order_index, g.created_at`,
		fieldID)
}

// ListByVersion returns the grouped inputs of every field of a version.
func (r *GroupedInputRepository) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]model.GroupedInput, error) {
	return r.list(ctx,
		`SELECT `+groupedInputColumns+`
		 FROM grouped_inputs g
		 JOIN fields f ON f.id = g.field_id
		 JOIN steps s ON s.id = f.step_id
		 WHERE s.quiz_version_id = $1
		 ORDER BY g.field_id, g.order_index, g.created_at`, versionID)
}

// GetByID retrieves a grouped input by its UUID.
func (r *GroupedInputRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GroupedInput, error) {
	g := &model.GroupedInput{}
	if err := scanGroupedInput(r.pool.QueryRow(ctx,
		`SELECT `+groupedInputColumns+` FROM grouped_inputs g WHERE g.id = $1`, id), g); err != nil {
		return nil, translate(err)
	}
	return g, nil
}

// Create inserts a grouped input. A repeated field_key yields ErrDuplicate.
func (r *GroupedInputRepository) Create(ctx context.Context, g *model.GroupedInput) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO grouped_inputs (field_id, order_index, is_visible, field_key, label, input_type,
		     unit, min_value, max_value, placeholder, required, row_index, col_index, row_span, col_span)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id, created_at, updated_at`,
		g.FieldID, g.OrderIndex, g.IsVisible, g.FieldKey, g.Label, g.InputType,
		g.Unit, g.Min, g.Max, g.Placeholder, g.Required,
		g.Position.Row, g.Position.Col, g.Position.RowSpan, g.Position.ColSpan,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt))
}

// Update writes every mutable column of g.
func (r *GroupedInputRepository) Update(ctx context.Context, g *model.GroupedInput) error {
	return translate(r.pool.QueryRow(ctx,
		`UPDATE grouped_inputs
		 SET order_index = $1, is_visible = $2, field_key = $3, label = $4, input_type = $5,
		     unit = $6, min_value = $7, max_value = $8, placeholder = $9, required = $10,
		     row_index = $11, col_index = $12, row_span = $13, col_span = $14, updated_at = NOW()
		 WHERE id = $15
		 RETURNING updated_at`,
		g.OrderIndex, g.IsVisible, g.FieldKey, g.Label, g.InputType,
		g.Unit, g.Min, g.Max, g.Placeholder, g.Required,
		g.Position.Row, g.Position.Col, g.Position.RowSpan, g.Position.ColSpan, g.ID,
	).Scan(&g.UpdatedAt))
}

// Delete removes a grouped input.
func (r *GroupedInputRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM grouped_inputs WHERE id = $1`, id))
}
