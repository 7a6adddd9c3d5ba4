package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

// VersionRepository handles quiz version data access.
type VersionRepository struct {
	pool *pgxpool.Pool
}

// NewVersionRepository creates a new VersionRepository.
func NewVersionRepository(pool *pgxpool.Pool) *VersionRepository {
	return &VersionRepository{pool: pool}
}

const versionColumns = `id, quiz_id, label, traffic_weight, is_default, created_at, updated_at`

func scanVersion(row interface{ Scan(...any) error }, v *model.Version) error {
	return row.Scan(&v.ID, &v.QuizID, &v.Label, &v.TrafficWeight, &v.IsDefault, &v.CreatedAt, &v.UpdatedAt)
}

// ListByQuiz returns the versions of a quiz, oldest first.
func (r *VersionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Version, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+versionColumns+` FROM quiz_versions WHERE quiz_id = $1 ORDER BY created_at ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []model.Version
	for rows.Next() {
		var v model.Version
		if err := scanVersion(rows, &v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// GetByID retrieves a version by its UUID.
func (r *VersionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Version, error) {
	v := &model.Version{}
	if err := scanVersion(r.pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM quiz_versions WHERE id = $1`, id), v); err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// Create inserts a version. When v.IsDefault is set every other version of
// the quiz loses the flag in the same transaction.
func (r *VersionRepository) Create(ctx context.Context, v *model.Version) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if v.IsDefault {
			if _, err := tx.Exec(ctx,
				`UPDATE quiz_versions SET is_default = FALSE, updated_at = NOW()
				 WHERE quiz_id = $1 AND is_default`, v.QuizID); err != nil {
				return err
			}
		}
		return tx.QueryRow(ctx,
			`INSERT INTO quiz_versions (quiz_id, label, traffic_weight, is_default)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at, updated_at`,
			v.QuizID, v.Label, v.TrafficWeight, v.IsDefault,
		).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	})
}

// Update writes label, weight and default flag, clearing the flag elsewhere
// when v becomes the default.
func (r *VersionRepository) Update(ctx context.Context, v *model.Version) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if v.IsDefault {
			if _, err := tx.Exec(ctx,
				`UPDATE quiz_versions SET is_default = FALSE, updated_at = NOW()
				 WHERE quiz_id = $1 AND id <> $2 AND is_default`, v.QuizID, v.ID); err != nil {
				return err
			}
		}
		return tx.QueryRow(ctx,
			`UPDATE quiz_versions
			 SET label = $1, traffic_weight = $2, is_default = $3, updated_at = NOW()
			 WHERE id = $4
			 RETURNING updated_at`,
			v.Label, v.TrafficWeight, v.IsDefault, v.ID,
		).Scan(&v.UpdatedAt)
	})
}

// Delete removes a version and its steps.
func (r *VersionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM quiz_versions WHERE id = $1`, id))
}

func (r *VersionRepository) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return withTx(ctx, r.pool, fn)
}

// withTx runs fn in a transaction, rolling back on any error.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return translate(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
