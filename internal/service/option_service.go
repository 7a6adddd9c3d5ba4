package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/rs/zerolog"
)

type optionStore interface {
	ListByField(ctx context.Context, fieldID uuid.UUID) ([]model.Option, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Option, error)
	Create(ctx context.Context, o *model.Option) error
	Update(ctx context.Context, o *model.Option) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fieldLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Field, error)
}

// OptionService manages the answers of choice fields. Options carry a tile
// position but are not collision-checked.
type OptionService struct {
	options optionStore
	fields  fieldLookup
	steps   stepLookup
	cache   CacheInvalidator
	log     zerolog.Logger
}

func NewOptionService(options optionStore, fields fieldLookup, steps stepLookup, cache CacheInvalidator, log zerolog.Logger) *OptionService {
	return &OptionService{
		options: options,
		fields:  fields,
		steps:   steps,
		cache:   cache,
		log:     log.With().Str("component", "option_service").Logger(),
	}
}

func (s *OptionService) ListByField(ctx context.Context, fieldID uuid.UUID) ([]model.Option, error) {
	if _, err := s.fields.GetByID(ctx, fieldID); err != nil {
		return nil, err
	}
	return s.options.ListByField(ctx, fieldID)
}

func (s *OptionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Option, error) {
	return s.options.GetByID(ctx, id)
}

func (s *OptionService) Create(ctx context.Context, req *model.CreateOptionRequest) (*model.Option, error) {
	fieldID, err := uuid.Parse(req.FieldID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	field, err := s.choiceField(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	o := &model.Option{
		FieldID:     fieldID,
		IsVisible:   req.IsVisible == nil || *req.IsVisible,
		Label:       req.Label,
		Description: req.Description,
		Value:       req.Value,
		IsDefault:   req.IsDefault,
		Score:       req.Score,
		Position:    req.PositionInput.Resolve(model.DefaultPosition),
	}
	if o.IconMediaID, err = optionalUUID(req.IconMediaID); err != nil {
		return nil, err
	}
	if o.ImageMediaID, err = optionalUUID(req.ImageMediaID); err != nil {
		return nil, err
	}

	if err := s.options.Create(ctx, o); err != nil {
		return nil, optionError(err)
	}
	s.invalidate(ctx, field.StepID)
	return o, nil
}

func (s *OptionService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateOptionRequest) (*model.Option, error) {
	o, err := s.options.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	field, err := s.fields.GetByID(ctx, o.FieldID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		o.Label = *req.Label
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	if req.Value != nil {
		o.Value = *req.Value
	}
	if req.IconMediaID != nil {
		if o.IconMediaID, err = clearableUUID(*req.IconMediaID); err != nil {
			return nil, err
		}
	}
	if req.ImageMediaID != nil {
		if o.ImageMediaID, err = clearableUUID(*req.ImageMediaID); err != nil {
			return nil, err
		}
	}
	if req.IsDefault != nil {
		o.IsDefault = *req.IsDefault
	}
	if req.Score != nil {
		o.Score = req.Score
	}
	if req.IsVisible != nil {
		o.IsVisible = *req.IsVisible
	}
	if req.OrderIndex != nil {
		o.OrderIndex = *req.OrderIndex
	}
	o.Position = req.PositionInput.Resolve(o.Position)

	if err := s.options.Update(ctx, o); err != nil {
		return nil, optionError(err)
	}
	s.invalidate(ctx, field.StepID)
	return o, nil
}

func (s *OptionService) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.options.GetByID(ctx, id)
	if err != nil {
		return err
	}
	field, err := s.fields.GetByID(ctx, o.FieldID)
	if err != nil {
		return err
	}
	if err := s.options.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, field.StepID)
	return nil
}

func (s *OptionService) choiceField(ctx context.Context, id uuid.UUID) (*model.Field, error) {
	f, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Type.Kind() != model.KindChoice {
		return nil, ErrFieldKindMismatch
	}
	return f, nil
}

func (s *OptionService) invalidate(ctx context.Context, stepID uuid.UUID) {
	invalidateStep(ctx, s.steps, s.cache, s.log, stepID)
}

func optionError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateOptionValue
	case errors.Is(err, repository.ErrReferenced):
		return ErrInvalidReference
	}
	return err
}

// invalidateStep drops the cached renders of the quiz owning stepID.
func invalidateStep(ctx context.Context, steps stepLookup, cache CacheInvalidator, log zerolog.Logger, stepID uuid.UUID) {
	quizID, err := steps.QuizIDOf(ctx, stepID)
	if err != nil {
		log.Warn().Err(err).Str("step_id", stepID.String()).Msg("Failed to resolve quiz for cache invalidation")
		return
	}
	if err := cache.Invalidate(ctx, quizID); err != nil {
		log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Failed to invalidate assembled quiz")
	}
}

func optionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	return clearableUUID(*raw)
}

// clearableUUID parses raw, treating "" as an explicit null.
func clearableUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrInvalidReference
	}
	return &id, nil
}
