package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

// StepRepository handles step data access.
type StepRepository struct {
	pool *pgxpool.Pool
}

// NewStepRepository creates a new StepRepository.
func NewStepRepository(pool *pgxpool.Pool) *StepRepository {
	return &StepRepository{pool: pool}
}

const stepColumns = `id, quiz_version_id, order_index, is_visible, title, description, footnote_text,
	cta_text, layout, media_id, grid_columns, grid_rows, grid_gap_px, created_at, updated_at`

func scanStep(row interface{ Scan(...any) error }, s *model.Step) error {
	return row.Scan(&s.ID, &s.QuizVersionID, &s.OrderIndex, &s.IsVisible, &s.Title, &s.Description,
		&s.FootnoteText, &s.CTAText, &s.Layout, &s.MediaID, &s.GridColumns, &s.GridRows, &s.GridGapPx,
		&s.CreatedAt, &s.UpdatedAt)
}

// ListByVersion returns the steps of a version in display order.
func (r *StepRepository) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]model.Step, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+stepColumns+` FROM steps WHERE quiz_version_id = $1 ORDER BY order_index ASC, created_at ASC`,
		versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []model.Step
	for rows.Next() {
		var s model.Step
		if err := scanStep(rows, &s); err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// GetByID retrieves a step by its UUID.
func (r *StepRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Step, error) {
	s := &model.Step{}
	if err := scanStep(r.pool.QueryRow(ctx, `SELECT `+stepColumns+` FROM steps WHERE id = $1`, id), s); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// QuizIDOf returns the quiz a step belongs to.
func (r *StepRepository) QuizIDOf(ctx context.Context, stepID uuid.UUID) (uuid.UUID, error) {
	var quizID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT v.quiz_id FROM steps s JOIN quiz_versions v ON v.id = s.quiz_version_id WHERE s.id = $1`,
		stepID).Scan(&quizID)
	return quizID, translate(err)
}

// Create appends a step at the end of its version.
func (r *StepRepository) Create(ctx context.Context, s *model.Step) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO steps (quiz_version_id, order_index, is_visible, title, description, footnote_text,
		                    cta_text, layout, media_id, grid_columns, grid_rows, grid_gap_px)
		 VALUES ($1, (SELECT COUNT(*) FROM steps WHERE quiz_version_id = $1), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, order_index, created_at, updated_at`,
		s.QuizVersionID, s.IsVisible, s.Title, s.Description, s.FootnoteText,
		s.CTAText, s.Layout, s.MediaID, s.GridColumns, s.GridRows, s.GridGapPx,
	).Scan(&s.ID, &s.OrderIndex, &s.CreatedAt, &s.UpdatedAt))
}

// Update writes every mutable column of s.
func (r *StepRepository) Update(ctx context.Context, s *model.Step) error {
	return translate(r.pool.QueryRow(ctx,
		`UPDATE steps
		 SET is_visible = $1, title = $2, description = $3, footnote_text = $4, cta_text = $5,
		     layout = $6, media_id = $7, grid_columns = $8, grid_rows = $9, grid_gap_px = $10,
		     updated_at = NOW()
		 WHERE id = $11
		 RETURNING updated_at`,
		s.IsVisible, s.Title, s.Description, s.FootnoteText, s.CTAText,
		s.Layout, s.MediaID, s.GridColumns, s.GridRows, s.GridGapPx, s.ID,
	).Scan(&s.UpdatedAt))
}

// Delete removes a step and closes the gap in its version's ordering.
func (r *StepRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var versionID uuid.UUID
		if err := tx.QueryRow(ctx,
			`DELETE FROM steps WHERE id = $1 RETURNING quiz_version_id`, id).Scan(&versionID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`UPDATE steps AS s SET order_index = o.rn - 1
			 FROM (
			     SELECT id, ROW_NUMBER() OVER (ORDER BY order_index, created_at) AS rn
			     FROM steps WHERE quiz_version_id = $1
			 ) AS o
			 WHERE s.id = o.id`, versionID)
		return err
	})
}

// Reorder assigns order_index by position in ids. The caller guarantees ids
// is a permutation of the version's steps.
func (r *StepRepository) Reorder(ctx context.Context, versionID uuid.UUID, ids []uuid.UUID) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE steps AS s SET order_index = u.ord - 1, updated_at = NOW()
			 FROM UNNEST($1::uuid[]) WITH ORDINALITY AS u(id, ord)
			 WHERE s.id = u.id AND s.quiz_version_id = $2`, ids, versionID)
		if err != nil {
			return err
		}
		if int(tag.RowsAffected()) != len(ids) {
			return fmt.Errorf("reorder touched %d of %d steps: %w", tag.RowsAffected(), len(ids), ErrNotFound)
		}
		return nil
	})
}
