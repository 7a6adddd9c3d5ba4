package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/rs/zerolog"
)

type BrandService struct {
	brandRepo *repository.BrandRepository
	log       zerolog.Logger
}

func NewBrandService(brandRepo *repository.BrandRepository, log zerolog.Logger) *BrandService {
	return &BrandService{
		brandRepo: brandRepo,
		log:       log.With().Str("component", "brand_service").Logger(),
	}
}

func (s *BrandService) GetAll(ctx context.Context) ([]model.Brand, error) {
	return s.brandRepo.GetAll(ctx)
}

func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	return s.brandRepo.GetByID(ctx, id)
}

func (s *BrandService) Create(ctx context.Context, b *model.Brand) error {
	return s.brandRepo.Create(ctx, b)
}

func (s *BrandService) Update(ctx context.Context, b *model.Brand) error {
	return s.brandRepo.Update(ctx, b)
}

// Delete removes a brand. Brands that still own quizzes yield
// repository.ErrReferenced.
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("brand_id", id.String()).Msg("Brand deleted")
	return nil
}
