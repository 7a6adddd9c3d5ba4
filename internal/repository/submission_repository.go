package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

// SubmissionRepository persists quiz submissions.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// InsertBatch writes submissions in one statement. Rows whose id already
// exists are skipped, so a requeued batch never duplicates.
func (r *SubmissionRepository) InsertBatch(ctx context.Context, batch []model.Submission) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	ids := make([]uuid.UUID, n)
	quizIDs := make([]uuid.UUID, n)
	labels := make([]string, n)
	answers := make([]string, n)
	metas := make([]string, n)
	createdAts := make([]time.Time, n)

	for i, s := range batch {
		meta, err := json.Marshal(s.Meta)
		if err != nil {
			return fmt.Errorf("marshal meta: %w", err)
		}
		ids[i] = s.ID
		quizIDs[i] = s.QuizID
		labels[i] = s.VersionLabel
		answers[i] = string(s.Answers)
		metas[i] = string(meta)
		createdAts[i] = s.CreatedAt
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO submissions (id, quiz_id, version_label, answers, meta, created_at)
		 SELECT u.id, u.quiz_id, u.version_label, u.answers::jsonb, u.meta::jsonb, u.created_at
		 FROM UNNEST($1::uuid[], $2::uuid[], $3::text[], $4::text[], $5::text[], $6::timestamptz[])
		      AS u (id, quiz_id, version_label, answers, meta, created_at)
		 ON CONFLICT (id) DO NOTHING`,
		ids, quizIDs, labels, answers, metas, createdAts)
	return translate(err)
}

// Insert writes a single submission; used when a batch insert fails.
func (r *SubmissionRepository) Insert(ctx context.Context, s model.Submission) error {
	meta, err := json.Marshal(s.Meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO submissions (id, quiz_id, version_label, answers, meta, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		s.ID, s.QuizID, s.VersionLabel, string(s.Answers), meta, s.CreatedAt)
	return translate(err)
}

// ListByQuiz returns a page of a quiz's submissions, newest first.
func (r *SubmissionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID, limit, offset int) ([]model.Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE quiz_id = $1`, quizID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, version_label, answers, meta, created_at
		 FROM submissions WHERE quiz_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, quizID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.Submission
	for rows.Next() {
		var (
			s    model.Submission
			meta []byte
		)
		if err := rows.Scan(&s.ID, &s.QuizID, &s.VersionLabel, &s.Answers, &meta, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &s.Meta); err != nil {
				return nil, 0, fmt.Errorf("decode meta: %w", err)
			}
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}
