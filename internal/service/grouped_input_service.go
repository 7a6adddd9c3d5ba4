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

type groupedInputStore interface {
	ListByField(ctx context.Context, fieldID uuid.UUID) ([]model.GroupedInput, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.GroupedInput, error)
	Create(ctx context.Context, g *model.GroupedInput) error
	Update(ctx context.Context, g *model.GroupedInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupedInputService manages the sub-inputs of group fields. They are laid
// out on the group's own container grid and checked like step fields.
type GroupedInputService struct {
	inputs  groupedInputStore
	fields  fieldLookup
	steps   stepLookup
	cache   CacheInvalidator
	locks   *LayoutLocks
	maxRows int
	log     zerolog.Logger
}

// NewGroupedInputService creates a GroupedInputService. Container grids are
// locked by group field id on the shared locks.
func NewGroupedInputService(
	inputs groupedInputStore,
	fields fieldLookup,
	steps stepLookup,
	cache CacheInvalidator,
	locks *LayoutLocks,
	maxRows int,
	log zerolog.Logger,
) *GroupedInputService {
	return &GroupedInputService{
		inputs:  inputs,
		fields:  fields,
		steps:   steps,
		cache:   cache,
		locks:   locks,
		maxRows: model.RowLimit(maxRows),
		log:     log.With().Str("component", "grouped_input_service").Logger(),
	}
}

func (s *GroupedInputService) ListByField(ctx context.Context, fieldID uuid.UUID) ([]model.GroupedInput, error) {
	if _, err := s.fields.GetByID(ctx, fieldID); err != nil {
		return nil, err
	}
	return s.inputs.ListByField(ctx, fieldID)
}

func (s *GroupedInputService) GetByID(ctx context.Context, id uuid.UUID) (*model.GroupedInput, error) {
	return s.inputs.GetByID(ctx, id)
}

// Create adds an input to a group field, auto-placing it on the container
// grid when no origin is given.
func (s *GroupedInputService) Create(ctx context.Context, req *model.CreateGroupedInputRequest) (*model.GroupedInput, error) {
	fieldID, err := uuid.Parse(req.FieldID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	unlock := s.locks.lock(fieldID)
	defer unlock()

	// Read under the lock so a concurrent container resize is seen.
	field, err := s.groupField(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	siblings, err := s.inputs.ListByField(ctx, fieldID)
	if err != nil {
		return nil, fmt.Errorf("list grouped inputs: %w", err)
	}
	placements := inputPlacements(siblings)
	columns := field.Group.GridColumns

	var pos model.GridPosition
	if req.PositionInput.HasOrigin() {
		pos = req.PositionInput.Resolve(model.DefaultPosition)
		if cs := grid.Conflicts(placements, pos.PendingPlacement(), columns); len(cs) > 0 {
			return nil, collisionError(cs)
		}
	} else {
		maxRows := s.maxRows
		if field.Group.GridRows > 0 {
			maxRows = model.RowLimit(field.Group.GridRows)
		}
		rowSpan, colSpan := req.PositionInput.Spans()
		row, col, ok := grid.FirstFreeCell(placements, rowSpan, colSpan, columns, maxRows)
		if !ok {
			return nil, ErrGridFull
		}
		pos = model.GridPosition{Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan}.Clamped(columns)
	}

	g := &model.GroupedInput{
		FieldID:     fieldID,
		OrderIndex:  len(siblings),
		IsVisible:   req.IsVisible == nil || *req.IsVisible,
		FieldKey:    req.FieldKey,
		Label:       req.Label,
		InputType:   req.InputType,
		Unit:        req.Unit,
		Min:         req.Min,
		Max:         req.Max,
		Placeholder: req.Placeholder,
		Required:    req.Required,
		Position:    pos,
	}
	if err := s.inputs.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateFieldKey
		}
		return nil, err
	}
	invalidateStep(ctx, s.steps, s.cache, s.log, field.StepID)
	return g, nil
}

func (s *GroupedInputService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateGroupedInputRequest) (*model.GroupedInput, error) {
	g, err := s.inputs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(g.FieldID)
	defer unlock()

	if g, err = s.inputs.GetByID(ctx, id); err != nil {
		return nil, err
	}
	field, err := s.groupField(ctx, g.FieldID)
	if err != nil {
		return nil, err
	}

	if req.FieldKey != nil {
		g.FieldKey = *req.FieldKey
	}
	if req.Label != nil {
		g.Label = *req.Label
	}
	if req.InputType != nil {
		g.InputType = *req.InputType
	}
	if req.Unit != nil {
		g.Unit = *req.Unit
	}
	if req.Min != nil {
		g.Min = req.Min
	}
	if req.Max != nil {
		g.Max = req.Max
	}
	if req.Placeholder != nil {
		g.Placeholder = *req.Placeholder
	}
	if req.Required != nil {
		g.Required = *req.Required
	}
	if req.IsVisible != nil {
		g.IsVisible = *req.IsVisible
	}
	if req.OrderIndex != nil {
		g.OrderIndex = *req.OrderIndex
	}

	if req.PositionInput.IsSet() {
		candidate := req.PositionInput.Resolve(g.Position)
		if candidate != g.Position {
			siblings, err := s.inputs.ListByField(ctx, g.FieldID)
			if err != nil {
				return nil, fmt.Errorf("list grouped inputs: %w", err)
			}
			if cs := grid.Conflicts(inputPlacements(siblings), candidate.Placement(g.ID), field.Group.GridColumns); len(cs) > 0 {
				return nil, collisionError(cs)
			}
			g.Position = candidate
		}
	}

	if err := s.inputs.Update(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateFieldKey
		}
		return nil, err
	}
	invalidateStep(ctx, s.steps, s.cache, s.log, field.StepID)
	return g, nil
}

func (s *GroupedInputService) Delete(ctx context.Context, id uuid.UUID) error {
	g, err := s.inputs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	field, err := s.fields.GetByID(ctx, g.FieldID)
	if err != nil {
		return err
	}
	if err := s.inputs.Delete(ctx, id); err != nil {
		return err
	}
	invalidateStep(ctx, s.steps, s.cache, s.log, field.StepID)
	return nil
}

func (s *GroupedInputService) groupField(ctx context.Context, id uuid.UUID) (*model.Field, error) {
	f, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Type.Kind() != model.KindGroup {
		return nil, ErrFieldKindMismatch
	}
	f.Normalize()
	return f, nil
}

func inputPlacements(inputs []model.GroupedInput) []grid.Placement {
	out := make([]grid.Placement, len(inputs))
	for i, g := range inputs {
		out[i] = g.Position.Placement(g.ID)
	}
	return out
}
