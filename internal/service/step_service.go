package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/rs/zerolog"
)

type stepStore interface {
	ListByVersion(ctx context.Context, versionID uuid.UUID) ([]model.Step, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Step, error)
	QuizIDOf(ctx context.Context, stepID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, s *model.Step) error
	Update(ctx context.Context, s *model.Step) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, versionID uuid.UUID, ids []uuid.UUID) error
}

type stepFieldLister interface {
	ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.Field, error)
}

type versionLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Version, error)
}

// LayoutCheck is the outcome of a dry-run placement.
type LayoutCheck struct {
	WouldCollide bool             `json:"would_collide"`
	Collisions   []grid.Collision `json:"collisions"`
}

// StepService manages steps and their grid settings.
type StepService struct {
	steps    stepStore
	fields   stepFieldLister
	versions versionLookup
	cache    CacheInvalidator
	locks    *LayoutLocks
	log      zerolog.Logger
}

// NewStepService creates a StepService. locks must be the instance FieldService
// uses so column changes and field moves on one step are serialized.
func NewStepService(
	steps stepStore,
	fields stepFieldLister,
	versions versionLookup,
	cache CacheInvalidator,
	locks *LayoutLocks,
	log zerolog.Logger,
) *StepService {
	return &StepService{
		steps:    steps,
		fields:   fields,
		versions: versions,
		cache:    cache,
		locks:    locks,
		log:      log.With().Str("component", "step_service").Logger(),
	}
}

func (s *StepService) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]model.Step, error) {
	if _, err := s.versions.GetByID(ctx, versionID); err != nil {
		return nil, err
	}
	return s.steps.ListByVersion(ctx, versionID)
}

func (s *StepService) GetByID(ctx context.Context, id uuid.UUID) (*model.Step, error) {
	return s.steps.GetByID(ctx, id)
}

// Create appends a step to its version with the default grid.
func (s *StepService) Create(ctx context.Context, req *model.CreateStepRequest) (*model.Step, error) {
	versionID, err := uuid.Parse(req.QuizVersionID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	version, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}

	st := &model.Step{
		QuizVersionID: versionID,
		IsVisible:     req.IsVisible == nil || *req.IsVisible,
		Title:         req.Title,
		Description:   req.Description,
		FootnoteText:  req.FootnoteText,
		CTAText:       req.CTAText,
		Layout:        model.StepLayout(req.Layout),
		GridColumns:   model.DefaultGridColumns,
		GridGapPx:     model.DefaultGridGapPx,
	}
	if st.Layout == "" {
		st.Layout = model.StepLayoutDefault
	}
	if req.MediaID != nil {
		id, err := uuid.Parse(*req.MediaID)
		if err != nil {
			return nil, ErrInvalidReference
		}
		st.MediaID = &id
	}
	set(&st.GridColumns, req.GridColumns)
	set(&st.GridRows, req.GridRows)
	set(&st.GridGapPx, req.GridGapPx)

	if err := s.steps.Create(ctx, st); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	s.invalidate(ctx, version.QuizID)
	return st, nil
}

// Update applies a partial update. A column change is refused when the
// step's fields would collide on the resized grid.
func (s *StepService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateStepRequest) (*model.Step, error) {
	// Held until the write so no field moves between the check and the resize.
	unlock := s.locks.lock(id)
	defer unlock()

	st, err := s.steps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsVisible != nil {
		st.IsVisible = *req.IsVisible
	}
	if req.Title != nil {
		st.Title = *req.Title
	}
	if req.Description != nil {
		st.Description = *req.Description
	}
	if req.FootnoteText != nil {
		st.FootnoteText = *req.FootnoteText
	}
	if req.CTAText != nil {
		st.CTAText = *req.CTAText
	}
	if req.Layout != nil {
		st.Layout = model.StepLayout(*req.Layout)
	}
	if req.MediaID != nil {
		if *req.MediaID == "" {
			st.MediaID = nil
		} else {
			mid, err := uuid.Parse(*req.MediaID)
			if err != nil {
				return nil, ErrInvalidReference
			}
			st.MediaID = &mid
		}
	}
	set(&st.GridRows, req.GridRows)
	set(&st.GridGapPx, req.GridGapPx)

	if req.GridColumns != nil && *req.GridColumns != st.GridColumns {
		fields, err := s.fields.ListByStep(ctx, st.ID)
		if err != nil {
			return nil, fmt.Errorf("list step fields: %w", err)
		}
		if cs := grid.DetectCollisions(placementsOf(fields), *req.GridColumns); len(cs) > 0 {
			return nil, collisionError(cs)
		}
		st.GridColumns = *req.GridColumns
	}

	if err := s.steps.Update(ctx, st); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	invalidateStep(ctx, s.steps, s.cache, s.log, st.ID)
	return st, nil
}

func (s *StepService) Delete(ctx context.Context, id uuid.UUID) error {
	quizID, err := s.steps.QuizIDOf(ctx, id)
	if err != nil {
		return err
	}
	if err := s.steps.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, quizID)
	return nil
}

// Reorder sets the step order of a version. order must name every step of
// the version exactly once.
func (s *StepService) Reorder(ctx context.Context, versionID uuid.UUID, order []string) ([]model.Step, error) {
	version, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	current, err := s.steps.ListByVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	ids, err := permutation(current, order)
	if err != nil {
		return nil, err
	}
	if err := s.steps.Reorder(ctx, versionID, ids); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidStepOrder
		}
		return nil, err
	}
	s.invalidate(ctx, version.QuizID)
	return s.steps.ListByVersion(ctx, versionID)
}

// Collisions returns every overlapping pair currently stored on a step.
func (s *StepService) Collisions(ctx context.Context, id uuid.UUID) ([]grid.Collision, error) {
	st, err := s.steps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := s.fields.ListByStep(ctx, id)
	if err != nil {
		return nil, err
	}
	cs := grid.DetectCollisions(placementsOf(fields), st.GridColumns)
	grid.SortCollisions(cs)
	return cs, nil
}

// CheckLayout reports whether a placement would collide on the step without
// persisting anything. An empty field id previews a new field; a field id
// that is not on the step is treated the same way.
func (s *StepService) CheckLayout(ctx context.Context, id uuid.UUID, req *model.LayoutCheckRequest) (*LayoutCheck, error) {
	st, err := s.steps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := s.fields.ListByStep(ctx, id)
	if err != nil {
		return nil, err
	}

	var placement grid.Placement
	if req.FieldID == "" {
		placement = req.PositionInput.Resolve(model.DefaultPosition).PendingPlacement()
	} else {
		fieldID, err := uuid.Parse(req.FieldID)
		if err != nil {
			return nil, ErrInvalidReference
		}
		base := model.DefaultPosition
		for _, f := range fields {
			if f.ID == fieldID {
				base = f.Position
				break
			}
		}
		placement = req.PositionInput.Resolve(base).Placement(fieldID)
	}

	cs := grid.Conflicts(placementsOf(fields), placement, st.GridColumns)
	grid.SortCollisions(cs)
	if cs == nil {
		cs = []grid.Collision{}
	}
	return &LayoutCheck{WouldCollide: len(cs) > 0, Collisions: cs}, nil
}

func (s *StepService) invalidate(ctx context.Context, quizID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, quizID); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Failed to invalidate assembled quiz")
	}
}

func permutation(steps []model.Step, order []string) ([]uuid.UUID, error) {
	if len(order) != len(steps) {
		return nil, ErrInvalidStepOrder
	}
	known := make(map[uuid.UUID]bool, len(steps))
	for _, st := range steps {
		known[st.ID] = false
	}
	ids := make([]uuid.UUID, 0, len(order))
	for _, raw := range order {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrInvalidStepOrder
		}
		used, ok := known[id]
		if !ok || used {
			return nil, ErrInvalidStepOrder
		}
		known[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func set(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
