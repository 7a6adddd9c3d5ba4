package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/rs/zerolog"
)

type versionStore interface {
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Version, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Version, error)
	Create(ctx context.Context, v *model.Version) error
	Update(ctx context.Context, v *model.Version) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type quizLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
}

// VersionService manages a quiz's A/B versions and their traffic split.
type VersionService struct {
	versions versionStore
	quizzes  quizLookup
	cache    CacheInvalidator
	log      zerolog.Logger
}

func NewVersionService(versions versionStore, quizzes quizLookup, cache CacheInvalidator, log zerolog.Logger) *VersionService {
	return &VersionService{
		versions: versions,
		quizzes:  quizzes,
		cache:    cache,
		log:      log.With().Str("component", "version_service").Logger(),
	}
}

func (s *VersionService) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Version, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.versions.ListByQuiz(ctx, quizID)
}

func (s *VersionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Version, error) {
	return s.versions.GetByID(ctx, id)
}

// Create adds a version. A quiz's first version is always the default and
// takes all traffic unless told otherwise; later ones start at zero.
func (s *VersionService) Create(ctx context.Context, req *model.CreateVersionRequest) (*model.Version, error) {
	quizID, err := uuid.Parse(req.QuizID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return nil, err
	}
	existing, err := s.versions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	v := &model.Version{QuizID: quizID, Label: req.Label, IsDefault: req.IsDefault}
	if len(existing) == 0 {
		v.IsDefault = true
		v.TrafficWeight = model.MaxTrafficWeight
	}
	if req.TrafficWeight != nil {
		v.TrafficWeight = *req.TrafficWeight
	}
	if weightSum(existing, uuid.Nil)+v.TrafficWeight > model.MaxTrafficWeight {
		return nil, ErrTrafficWeightExceeded
	}

	if err := s.versions.Create(ctx, v); err != nil {
		return nil, err
	}
	s.invalidate(ctx, quizID)
	return v, nil
}

// Update changes label, weight or default flag. The default can be moved to
// another version but never cleared.
func (s *VersionService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateVersionRequest) (*model.Version, error) {
	v, err := s.versions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		v.Label = *req.Label
	}
	if req.IsDefault != nil {
		if v.IsDefault && !*req.IsDefault {
			return nil, ErrDefaultVersionLocked
		}
		v.IsDefault = *req.IsDefault
	}
	if req.TrafficWeight != nil {
		siblings, err := s.versions.ListByQuiz(ctx, v.QuizID)
		if err != nil {
			return nil, err
		}
		if weightSum(siblings, v.ID)+*req.TrafficWeight > model.MaxTrafficWeight {
			return nil, ErrTrafficWeightExceeded
		}
		v.TrafficWeight = *req.TrafficWeight
	}

	if err := s.versions.Update(ctx, v); err != nil {
		return nil, err
	}
	s.invalidate(ctx, v.QuizID)
	return v, nil
}

// Delete removes a version. The default may only go when it is the last one.
func (s *VersionService) Delete(ctx context.Context, id uuid.UUID) error {
	v, err := s.versions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.IsDefault {
		siblings, err := s.versions.ListByQuiz(ctx, v.QuizID)
		if err != nil {
			return err
		}
		if len(siblings) > 1 {
			return ErrDefaultVersionLocked
		}
	}
	if err := s.versions.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, v.QuizID)
	return nil
}

func (s *VersionService) invalidate(ctx context.Context, quizID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, quizID); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Failed to invalidate assembled quiz")
	}
}

func weightSum(versions []model.Version, exclude uuid.UUID) int {
	sum := 0
	for _, v := range versions {
		if v.ID != exclude {
			sum += v.TrafficWeight
		}
	}
	return sum
}
