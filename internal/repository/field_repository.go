package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

// FieldRepository handles field data access. Variant attributes live in
// flat columns and are folded into the matching attribute set on read.
type FieldRepository struct {
	pool *pgxpool.Pool
}

// NewFieldRepository creates a new FieldRepository.
func NewFieldRepository(pool *pgxpool.Pool) *FieldRepository {
	return &FieldRepository{pool: pool}
}

const fieldColumns = `f.id, f.step_id, f.order_index, f.is_visible, f.key, f.label, f.help_text, f.type, f.required,
	f.row_index, f.col_index, f.row_span, f.col_span,
	f.placeholder, f.input_mask, f.min_value, f.max_value, f.unit, f.validation_regex,
	f.validation_message, f.value_format, f.default_value,
	f.randomize_options,
	f.container_layout_mode, f.container_grid_columns, f.container_grid_rows, f.container_gap_px,
	f.created_at, f.updated_at`

func scanField(row interface{ Scan(...any) error }) (model.Field, error) {
	var (
		f      model.Field
		in     model.InputAttrs
		choice model.ChoiceAttrs
		group  model.GroupAttrs
		defVal []byte
	)
	err := row.Scan(&f.ID, &f.StepID, &f.OrderIndex, &f.IsVisible, &f.Key, &f.Label, &f.HelpText, &f.Type, &f.Required,
		&f.Position.Row, &f.Position.Col, &f.Position.RowSpan, &f.Position.ColSpan,
		&in.Placeholder, &in.InputMask, &in.Min, &in.Max, &in.Unit, &in.ValidationRegex,
		&in.ValidationMessage, &in.ValueFormat, &defVal,
		&choice.RandomizeOptions,
		&group.LayoutMode, &group.GridColumns, &group.GridRows, &group.GapPx,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return f, err
	}
	if len(defVal) > 0 {
		in.DefaultValue = json.RawMessage(defVal)
	}

	switch f.Type.Kind() {
	case model.KindInput:
		f.Input = &in
	case model.KindChoice:
		f.Choice = &choice
	case model.KindGroup:
		f.Group = &group
	}
	f.Normalize()
	return f, nil
}

// fieldArgs flattens the variant into column values. Columns of other
// variants are reset to their defaults so a type change leaves no residue.
func fieldArgs(f *model.Field) []interface{} {
	var (
		in     model.InputAttrs
		choice model.ChoiceAttrs
		group  model.GroupAttrs
		defVal []byte
	)
	if f.Input != nil {
		in = *f.Input
		if len(in.DefaultValue) > 0 {
			defVal = in.DefaultValue
		}
	}
	if f.Choice != nil {
		choice = *f.Choice
	}
	if f.Group != nil {
		group = *f.Group
	}
	return []interface{}{
		f.StepID, f.OrderIndex, f.IsVisible, f.Key, f.Label, f.HelpText, f.Type, f.Required,
		f.Position.Row, f.Position.Col, f.Position.RowSpan, f.Position.ColSpan,
		in.Placeholder, in.InputMask, in.Min, in.Max, in.Unit, in.ValidationRegex,
		in.ValidationMessage, in.ValueFormat, defVal,
		choice.RandomizeOptions,
		group.LayoutMode, group.GridColumns, group.GridRows, group.GapPx,
	}
}

func (r *FieldRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Field, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []model.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// ListByStep returns a step's fields in order.
func (r *FieldRepository) ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.Field, error) {
	return r.list(ctx,
		`SELECT `+fieldColumns+` FROM fields f WHERE f.step_id = $1 ORDER BY f.order_index, f.created_at`, stepID)
}

// ListByVersion returns the fields of every step of a version.
func (r *FieldRepository) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]model.Field, error) {
	return r.list(ctx,
		`SELECT `+fieldColumns+`
		 FROM fields f JOIN steps s ON s.id = f.step_id
		 WHERE s.quiz_version_id = $1
		 ORDER BY s.order_index, f.order_index, f.created_at`, versionID)
}

// KeyExistsInVersion reports whether another field of the version containing
// stepID already uses key. excludeID may be uuid.Nil.
func (r *FieldRepository) KeyExistsInVersion(ctx context.Context, stepID uuid.UUID, key string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM fields f
		     JOIN steps s ON s.id = f.step_id
		     WHERE s.quiz_version_id = (SELECT quiz_version_id FROM steps WHERE id = $1)
		       AND f.key = $2 AND f.id <> $3
		 )`, stepID, key, excludeID).Scan(&exists)
	return exists, err
}

// GetByID retrieves a field by its UUID.
func (r *FieldRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Field, error) {
	f, err := scanField(r.pool.QueryRow(ctx, `SELECT `+fieldColumns+` FROM fields f WHERE f.id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// Create inserts a field.
func (r *FieldRepository) Create(ctx context.Context, f *model.Field) error {
	args := fieldArgs(f)
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO fields (step_id, order_index, is_visible, key, label, help_text, type, required,
		     row_index, col_index, row_span, col_span,
		     placeholder, input_mask, min_value, max_value, unit, validation_regex,
		     validation_message, value_format, default_value,
		     randomize_options,
		     container_layout_mode, container_grid_columns, container_grid_rows, container_gap_px)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		     $9, $10, $11, $12,
		     $13, $14, $15, $16, $17, $18,
		     $19, $20, $21,
		     $22,
		     $23, $24, $25, $26)
		 RETURNING id, created_at, updated_at`,
		args...,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt))
}

// Update writes every mutable column of f.
func (r *FieldRepository) Update(ctx context.Context, f *model.Field) error {
	args := append(fieldArgs(f), f.ID)
	return translate(r.pool.QueryRow(ctx,
		`UPDATE fields
		 SET step_id = $1, order_index = $2, is_visible = $3, key = $4, label = $5, help_text = $6,
		     type = $7, required = $8,
		     row_index = $9, col_index = $10, row_span = $11, col_span = $12,
		     placeholder = $13, input_mask = $14, min_value = $15, max_value = $16, unit = $17,
		     validation_regex = $18, validation_message = $19, value_format = $20, default_value = $21,
		     randomize_options = $22,
		     container_layout_mode = $23, container_grid_columns = $24, container_grid_rows = $25,
		     container_gap_px = $26,
		     updated_at = NOW()
		 WHERE id = $27
		 RETURNING updated_at`,
		args...,
	).Scan(&f.UpdatedAt))
}

// UpdatePosition writes only the grid coordinates of a field.
func (r *FieldRepository) UpdatePosition(ctx context.Context, id uuid.UUID, p model.GridPosition) error {
	return expectOne(r.pool.Exec(ctx,
		`UPDATE fields SET row_index = $1, col_index = $2, row_span = $3, col_span = $4, updated_at = NOW()
		 WHERE id = $5`, p.Row, p.Col, p.RowSpan, p.ColSpan, id))
}

// Delete removes a field with its options and grouped inputs.
func (r *FieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM fields WHERE id = $1`, id))
}
