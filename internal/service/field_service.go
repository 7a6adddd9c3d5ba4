package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	ws "github.com/quizforge/quiz-cms-backend/internal/websocket"
	"github.com/rs/zerolog"
)

type fieldStore interface {
	ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.Field, error)
	KeyExistsInVersion(ctx context.Context, stepID uuid.UUID, key string, excludeID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Field, error)
	Create(ctx context.Context, f *model.Field) error
	Update(ctx context.Context, f *model.Field) error
	UpdatePosition(ctx context.Context, id uuid.UUID, p model.GridPosition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type containerInputLister interface {
	ListByField(ctx context.Context, fieldID uuid.UUID) ([]model.GroupedInput, error)
}

type stepLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Step, error)
	QuizIDOf(ctx context.Context, stepID uuid.UUID) (uuid.UUID, error)
}

// FieldService guards every change to a field's grid position with the
// collision checker before it reaches storage.
type FieldService struct {
	fields    fieldStore
	inputs    containerInputLister
	steps     stepLookup
	publisher LayoutPublisher
	cache     CacheInvalidator
	locks     *LayoutLocks
	maxRows   int
	log       zerolog.Logger
}

// NewFieldService creates a FieldService. locks must be the instance shared
// with StepService and GroupedInputService. maxRows bounds the auto-placement
// scan and is capped at model.MaxGridRow; 0 or less means the cap alone.
func NewFieldService(
	fields fieldStore,
	inputs containerInputLister,
	steps stepLookup,
	publisher LayoutPublisher,
	cache CacheInvalidator,
	locks *LayoutLocks,
	maxRows int,
	log zerolog.Logger,
) *FieldService {
	return &FieldService{
		fields:    fields,
		inputs:    inputs,
		steps:     steps,
		publisher: publisher,
		cache:     cache,
		locks:     locks,
		maxRows:   model.RowLimit(maxRows),
		log:       log.With().Str("component", "field_service").Logger(),
	}
}

func (s *FieldService) ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.Field, error) {
	if _, err := s.steps.GetByID(ctx, stepID); err != nil {
		return nil, err
	}
	return s.fields.ListByStep(ctx, stepID)
}

func (s *FieldService) GetByID(ctx context.Context, id uuid.UUID) (*model.Field, error) {
	return s.fields.GetByID(ctx, id)
}

// Create inserts a field on its step. Without a full origin in the request
// the field is placed at the first free cell; with one, the placement must
// not collide.
func (s *FieldService) Create(ctx context.Context, req *model.CreateFieldRequest) (*model.Field, error) {
	stepID, err := uuid.Parse(req.StepID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	unlock := s.locks.lock(stepID)
	defer unlock()

	// Read under the lock so a concurrent column change is seen.
	step, err := s.steps.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureKeyFree(ctx, stepID, req.Key, uuid.Nil); err != nil {
		return nil, err
	}

	siblings, err := s.fields.ListByStep(ctx, stepID)
	if err != nil {
		return nil, fmt.Errorf("list step fields: %w", err)
	}
	placements := placementsOf(siblings)

	var pos model.GridPosition
	if req.PositionInput.HasOrigin() {
		pos = req.PositionInput.Resolve(model.DefaultPosition)
		if cs := grid.Conflicts(placements, pos.PendingPlacement(), step.GridColumns); len(cs) > 0 {
			return nil, collisionError(cs)
		}
	} else {
		rowSpan, colSpan := req.PositionInput.Spans()
		row, col, ok := grid.FirstFreeCell(placements, rowSpan, colSpan, step.GridColumns, s.maxRows)
		if !ok {
			return nil, ErrGridFull
		}
		pos = model.GridPosition{Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan}.Clamped(step.GridColumns)
	}

	f := &model.Field{FieldBase: model.FieldBase{
		StepID:     stepID,
		OrderIndex: len(siblings),
		IsVisible:  req.IsVisible == nil || *req.IsVisible,
		Key:        req.Key,
		Label:      req.Label,
		HelpText:   req.HelpText,
		Type:       req.Type,
		Required:   req.Required,
		Position:   pos,
	}}
	req.FieldAttrsInput.Apply(f)

	if err := s.fields.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateFieldKey
		}
		return nil, err
	}

	s.afterChange(ctx, ws.FieldCreated, f)
	return f, nil
}

// Update applies a partial update. When the request touches the position
// the new rectangle is checked against the step's other fields first. A
// group whose container width changes must still fit its inputs.
func (s *FieldService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateFieldRequest) (*model.Field, error) {
	f, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(f.StepID)
	defer unlock()

	// Re-read under the lock so the check sees the latest committed position.
	if f, err = s.fields.GetByID(ctx, id); err != nil {
		return nil, err
	}
	columnsBefore := containerColumns(f)

	if req.Key != nil && *req.Key != f.Key {
		if err := s.ensureKeyFree(ctx, f.StepID, *req.Key, f.ID); err != nil {
			return nil, err
		}
		f.Key = *req.Key
	}
	if req.Label != nil {
		f.Label = *req.Label
	}
	if req.HelpText != nil {
		f.HelpText = *req.HelpText
	}
	if req.Type != nil {
		f.Type = *req.Type
	}
	if req.Required != nil {
		f.Required = *req.Required
	}
	if req.IsVisible != nil {
		f.IsVisible = *req.IsVisible
	}
	if req.OrderIndex != nil {
		f.OrderIndex = *req.OrderIndex
	}
	req.FieldAttrsInput.Apply(f)

	if columns := containerColumns(f); columns != 0 && columns != columnsBefore {
		// Step lock first, then the container's.
		unlockGroup := s.locks.lock(f.ID)
		defer unlockGroup()
		if err := s.checkContainer(ctx, f.ID, columns); err != nil {
			return nil, err
		}
	}

	moved := false
	if req.PositionInput.IsSet() {
		candidate := req.PositionInput.Resolve(f.Position)
		if candidate != f.Position {
			if err := s.checkPlacement(ctx, f.StepID, f.ID, candidate); err != nil {
				return nil, err
			}
			f.Position = candidate
			moved = true
		}
	}

	if err := s.fields.Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateFieldKey
		}
		return nil, err
	}

	change := ws.FieldUpdated
	if moved {
		change = ws.FieldMoved
	}
	s.afterChange(ctx, change, f)
	return f, nil
}

// Move changes only a field's placement. A no-op move always succeeds.
func (s *FieldService) Move(ctx context.Context, id uuid.UUID, in model.PositionInput) (*model.Field, error) {
	f, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(f.StepID)
	defer unlock()

	if f, err = s.fields.GetByID(ctx, id); err != nil {
		return nil, err
	}

	candidate := in.Resolve(f.Position)
	if candidate == f.Position {
		return f, nil
	}
	if err := s.checkPlacement(ctx, f.StepID, f.ID, candidate); err != nil {
		return nil, err
	}
	if err := s.fields.UpdatePosition(ctx, f.ID, candidate); err != nil {
		return nil, err
	}
	f.Position = candidate

	s.afterChange(ctx, ws.FieldMoved, f)
	return f, nil
}

func (s *FieldService) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.fields.Delete(ctx, id); err != nil {
		return err
	}
	s.afterChange(ctx, ws.FieldDeleted, f)
	return nil
}

// checkPlacement rejects candidate when it would overlap another field of
// the step. Overlaps that exist without the candidate are not its fault.
func (s *FieldService) checkPlacement(ctx context.Context, stepID, fieldID uuid.UUID, candidate model.GridPosition) error {
	step, err := s.steps.GetByID(ctx, stepID)
	if err != nil {
		return err
	}
	siblings, err := s.fields.ListByStep(ctx, stepID)
	if err != nil {
		return fmt.Errorf("list step fields: %w", err)
	}
	if cs := grid.Conflicts(placementsOf(siblings), candidate.Placement(fieldID), step.GridColumns); len(cs) > 0 {
		return collisionError(cs)
	}
	return nil
}

// checkContainer rejects a container width at which the group's inputs
// would overlap.
func (s *FieldService) checkContainer(ctx context.Context, fieldID uuid.UUID, columns int) error {
	inputs, err := s.inputs.ListByField(ctx, fieldID)
	if err != nil {
		return fmt.Errorf("list grouped inputs: %w", err)
	}
	if cs := grid.DetectCollisions(inputPlacements(inputs), columns); len(cs) > 0 {
		return collisionError(cs)
	}
	return nil
}

func (s *FieldService) ensureKeyFree(ctx context.Context, stepID uuid.UUID, key string, exclude uuid.UUID) error {
	taken, err := s.fields.KeyExistsInVersion(ctx, stepID, key, exclude)
	if err != nil {
		return fmt.Errorf("check field key: %w", err)
	}
	if taken {
		return ErrDuplicateFieldKey
	}
	return nil
}

// afterChange notifies editors and drops cached renders. Both are best
// effort: the change is already committed.
func (s *FieldService) afterChange(ctx context.Context, change ws.LayoutChange, f *model.Field) {
	if err := s.publisher.PublishLayout(ctx, layoutEvent(change, f.StepID, f.ID, f.Position)); err != nil {
		s.log.Warn().Err(err).Str("field_id", f.ID.String()).Msg("Failed to publish layout event")
	}
	invalidateStep(ctx, s.steps, s.cache, s.log, f.StepID)
}

// containerColumns is the width of f's container grid, or 0 when f is not
// a group.
func containerColumns(f *model.Field) int {
	if f.Type.Kind() != model.KindGroup {
		return 0
	}
	if f.Group == nil || f.Group.GridColumns < 1 {
		return model.DefaultGridColumns
	}
	return f.Group.GridColumns
}

func placementsOf(fields []model.Field) []grid.Placement {
	out := make([]grid.Placement, len(fields))
	for i, f := range fields {
		out[i] = f.Position.Placement(f.ID)
	}
	return out
}
