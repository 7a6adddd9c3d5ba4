package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed image MIME types, sniffed from content, and their file extensions.
var allowedMIMETypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type mediaStore interface {
	List(ctx context.Context, mediaType string) ([]model.Media, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error)
	Create(ctx context.Context, m *model.Media) error
	Delete(ctx context.Context, id uuid.UUID) (*model.Media, error)
}

// MediaService validates uploads and keeps blobs and metadata in step.
type MediaService struct {
	media    mediaStore
	blobs    BlobStore
	baseURL  string
	maxBytes int64
	log      zerolog.Logger
}

// NewMediaService creates a MediaService. baseURL is the public prefix the
// blob store's directory is served under.
func NewMediaService(media mediaStore, blobs BlobStore, baseURL string, maxBytes int64, log zerolog.Logger) *MediaService {
	return &MediaService{
		media:    media,
		blobs:    blobs,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		log:      log.With().Str("component", "media_service").Logger(),
	}
}

func (s *MediaService) List(ctx context.Context, mediaType string) ([]model.Media, error) {
	return s.media.List(ctx, mediaType)
}

func (s *MediaService) GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	return s.media.GetByID(ctx, id)
}

// Upload stores an image. The content type is sniffed from the bytes, never
// taken from the client, and raster dimensions are read from the header.
func (s *MediaService) Upload(ctx context.Context, r io.Reader, form model.UploadMediaForm) (*model.Media, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: max %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	mime, ext, ok := sniff(data)
	if !ok {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, mimetype.Detect(data).String(), strings.Join(allowedTypes(), ", "))
	}

	m := &model.Media{
		ID:        uuid.New(),
		Type:      model.MediaType(form.Type),
		Alt:       form.Alt,
		Locale:    form.Locale,
		MimeType:  mime,
		SizeBytes: int64(len(data)),
	}
	if mime != "image/svg+xml" {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable %s", ErrUnsupportedFileType, mime)
		}
		m.Width, m.Height = &cfg.Width, &cfg.Height
	}
	m.StorageKey = m.ID.String() + ext
	m.URL = s.baseURL + "/" + m.StorageKey

	if err := s.blobs.Put(ctx, m.StorageKey, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}
	if err := s.media.Create(ctx, m); err != nil {
		if derr := s.blobs.Delete(ctx, m.StorageKey); derr != nil {
			s.log.Warn().Err(derr).Str("key", m.StorageKey).Msg("Failed to remove orphaned blob")
		}
		return nil, err
	}

	s.log.Info().Str("media_id", m.ID.String()).Str("mime", mime).Int64("size", m.SizeBytes).Msg("Media uploaded")
	return m, nil
}

// Delete removes the metadata row, then the blob.
func (s *MediaService) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.media.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, m.StorageKey); err != nil {
		s.log.Warn().Err(err).Str("key", m.StorageKey).Msg("Failed to remove blob")
	}
	return nil
}

func sniff(data []byte) (mime, ext string, ok bool) {
	detected := mimetype.Detect(data)
	for m, e := range allowedMIMETypes {
		if detected.Is(m) {
			return m, e, true
		}
	}
	return "", "", false
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
