package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizforge/quiz-cms-backend/internal/model"
)

// MediaRepository handles media metadata. File bytes live in a BlobStore.
type MediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

const mediaColumns = `id, type, url, alt, width, height, locale, mime_type, size_bytes, storage_key, created_at`

func scanMedia(row interface{ Scan(...any) error }, m *model.Media) error {
	return row.Scan(&m.ID, &m.Type, &m.URL, &m.Alt, &m.Width, &m.Height, &m.Locale,
		&m.MimeType, &m.SizeBytes, &m.StorageKey, &m.CreatedAt)
}

func (r *MediaRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Media, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Media
	for rows.Next() {
		var m model.Media
		if err := scanMedia(rows, &m); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// List returns all media, newest first, optionally filtered by type.
func (r *MediaRepository) List(ctx context.Context, mediaType string) ([]model.Media, error) {
	if mediaType != "" {
		return r.list(ctx, `SELECT `+mediaColumns+` FROM media WHERE type = $1 ORDER BY created_at DESC`, mediaType)
	}
	return r.list(ctx, `SELECT `+mediaColumns+` FROM media ORDER BY created_at DESC`)
}

// ListByIDs returns the media rows among ids that exist.
func (r *MediaRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ANY($1) ORDER BY created_at`, ids)
}

// GetByID retrieves a media row by its UUID.
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	m := &model.Media{}
	if err := scanMedia(r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id), m); err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// Create inserts a media row. m.ID is chosen by the caller so the stored
// file name and the row share it.
func (r *MediaRepository) Create(ctx context.Context, m *model.Media) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO media (id, type, url, alt, width, height, locale, mime_type, size_bytes, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		m.ID, m.Type, m.URL, m.Alt, m.Width, m.Height, m.Locale, m.MimeType, m.SizeBytes, m.StorageKey,
	).Scan(&m.CreatedAt))
}

// Delete removes a media row and returns it so the caller can drop the blob.
func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	m := &model.Media{}
	if err := scanMedia(r.pool.QueryRow(ctx,
		`DELETE FROM media WHERE id = $1 RETURNING `+mediaColumns, id), m); err != nil {
		return nil, translate(err)
	}
	return m, nil
}
