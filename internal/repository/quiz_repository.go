package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

// QuizRepository handles quiz data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `id, brand_id, slug, title, subtitle, locale_default, progress_style,
	show_trust_strip, show_seen_on, status, created_at, updated_at`

func scanQuiz(row interface{ Scan(...any) error }, q *model.Quiz) error {
	return row.Scan(&q.ID, &q.BrandID, &q.Slug, &q.Title, &q.Subtitle, &q.LocaleDefault, &q.ProgressStyle,
		&q.ShowTrustStrip, &q.ShowSeenOn, &q.Status, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID retrieves a quiz by its UUID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	if err := scanQuiz(r.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id), q); err != nil {
		return nil, translate(err)
	}
	return q, nil
}

// GetBySlug retrieves a quiz by its public slug.
func (r *QuizRepository) GetBySlug(ctx context.Context, slug string) (*model.Quiz, error) {
	q := &model.Quiz{}
	if err := scanQuiz(r.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE slug = $1`, slug), q); err != nil {
		return nil, translate(err)
	}
	return q, nil
}

// List returns a page of quizzes matching the optional search text and status.
func (r *QuizRepository) List(ctx context.Context, search, status string, limit, offset int) ([]model.Quiz, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}

	if search != "" {
		args = append(args, "%"+search+"%")
		where += ` AND (title ILIKE $` + strconv.Itoa(len(args)) + ` OR slug ILIKE $` + strconv.Itoa(len(args)) + `)`
	}
	if status != "" {
		args = append(args, status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quizzes`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `SELECT ` + quizColumns + ` FROM quizzes` + where +
		` ORDER BY updated_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := scanQuiz(rows, &q); err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, total, rows.Err()
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (brand_id, slug, title, subtitle, locale_default, progress_style,
		                      show_trust_strip, show_seen_on, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		q.BrandID, q.Slug, q.Title, q.Subtitle, q.LocaleDefault, q.ProgressStyle,
		q.ShowTrustStrip, q.ShowSeenOn, q.Status,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt))
}

// Update writes every mutable column of q.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	return translate(r.pool.QueryRow(ctx,
		`UPDATE quizzes
		 SET brand_id = $1, slug = $2, title = $3, subtitle = $4, locale_default = $5,
		     progress_style = $6, show_trust_strip = $7, show_seen_on = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING updated_at`,
		q.BrandID, q.Slug, q.Title, q.Subtitle, q.LocaleDefault,
		q.ProgressStyle, q.ShowTrustStrip, q.ShowSeenOn, q.ID,
	).Scan(&q.UpdatedAt))
}

// UpdateStatus updates a quiz's status.
func (r *QuizRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuizStatus) error {
	return expectOne(r.pool.Exec(ctx,
		`UPDATE quizzes SET status = $1, updated_at = NOW() WHERE id = $2`, status, id))
}

// Delete removes a quiz and, by cascade, its versions, steps and fields.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id))
}
