package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/rs/zerolog"
)

type quizStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	List(ctx context.Context, search, status string, limit, offset int) ([]model.Quiz, int, error)
	Create(ctx context.Context, q *model.Quiz) error
	Update(ctx context.Context, q *model.Quiz) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuizStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type versionLister interface {
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Version, error)
}

// QuizService manages quizzes and their lifecycle.
type QuizService struct {
	quizzes  quizStore
	versions versionLister
	cache    CacheInvalidator
	log      zerolog.Logger
}

func NewQuizService(quizzes quizStore, versions versionLister, cache CacheInvalidator, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizzes:  quizzes,
		versions: versions,
		cache:    cache,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// List returns a page of quizzes and the total match count.
func (s *QuizService) List(ctx context.Context, q model.ListQuizzesQuery) ([]model.Quiz, int, error) {
	q.Normalize()
	return s.quizzes.List(ctx, q.Q, q.Status, q.PerPage, (q.Page-1)*q.PerPage)
}

func (s *QuizService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return s.quizzes.GetByID(ctx, id)
}

// Create inserts a draft quiz.
func (s *QuizService) Create(ctx context.Context, req *model.CreateQuizRequest) (*model.Quiz, error) {
	brandID, err := uuid.Parse(req.BrandID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	q := &model.Quiz{
		BrandID:        brandID,
		Slug:           req.Slug,
		Title:          req.Title,
		Subtitle:       req.Subtitle,
		LocaleDefault:  req.LocaleDefault,
		ProgressStyle:  req.ProgressStyle,
		ShowTrustStrip: req.ShowTrustStrip,
		ShowSeenOn:     req.ShowSeenOn,
		Status:         model.QuizStatusDraft,
	}
	if q.LocaleDefault == "" {
		q.LocaleDefault = "en"
	}
	if q.ProgressStyle == "" {
		q.ProgressStyle = "bar"
	}
	if err := s.quizzes.Create(ctx, q); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	return q, nil
}

// Update applies a partial update.
func (s *QuizService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	q, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BrandID != nil {
		if q.BrandID, err = uuid.Parse(*req.BrandID); err != nil {
			return nil, ErrInvalidReference
		}
	}
	if req.Slug != nil {
		q.Slug = *req.Slug
	}
	if req.Title != nil {
		q.Title = *req.Title
	}
	if req.Subtitle != nil {
		q.Subtitle = *req.Subtitle
	}
	if req.LocaleDefault != nil {
		q.LocaleDefault = *req.LocaleDefault
	}
	if req.ProgressStyle != nil {
		q.ProgressStyle = *req.ProgressStyle
	}
	if req.ShowTrustStrip != nil {
		q.ShowTrustStrip = *req.ShowTrustStrip
	}
	if req.ShowSeenOn != nil {
		q.ShowSeenOn = *req.ShowSeenOn
	}

	if err := s.quizzes.Update(ctx, q); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	s.invalidate(ctx, id)
	return q, nil
}

// Publish makes a quiz public. It needs at least one version and exactly
// one of them marked default.
func (s *QuizService) Publish(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	if _, err := s.quizzes.GetByID(ctx, id); err != nil {
		return nil, err
	}
	versions, err := s.versions.ListByQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	defaults := 0
	for _, v := range versions {
		if v.IsDefault {
			defaults++
		}
	}
	if len(versions) == 0 || defaults != 1 {
		return nil, ErrQuizNotPublishable
	}
	return s.setStatus(ctx, id, model.QuizStatusPublished)
}

// Archive takes a quiz off the public endpoint.
func (s *QuizService) Archive(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return s.setStatus(ctx, id, model.QuizStatusArchived)
}

func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *QuizService) setStatus(ctx context.Context, id uuid.UUID, status model.QuizStatus) (*model.Quiz, error) {
	if err := s.quizzes.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.log.Info().Str("quiz_id", id.String()).Str("status", string(status)).Msg("Quiz status changed")
	return s.quizzes.GetByID(ctx, id)
}

func (s *QuizService) invalidate(ctx context.Context, quizID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, quizID); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Failed to invalidate assembled quiz")
	}
}
