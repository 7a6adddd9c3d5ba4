package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	ws "github.com/quizforge/quiz-cms-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldFixture struct {
	svc       *FieldService
	fields    *fakeFieldStore
	inputs    *fakeGroupedInputStore
	steps     *fakeStepStore
	locks     *LayoutLocks
	publisher *fakePublisher
	cache     *fakeCache
	step      model.Step
	quizID    uuid.UUID
}

func newFieldFixture(t *testing.T, maxRows int) *fieldFixture {
	t.Helper()
	steps := newFakeStepStore()
	quizID := uuid.New()
	step := steps.add(uuid.New(), quizID, 12)
	fields := newFakeFieldStore(steps)
	inputs := &fakeGroupedInputStore{}
	locks := NewLayoutLocks()
	publisher := &fakePublisher{}
	cache := &fakeCache{}
	return &fieldFixture{
		svc:       NewFieldService(fields, inputs, steps, publisher, cache, locks, maxRows, zerolog.Nop()),
		fields:    fields,
		inputs:    inputs,
		steps:     steps,
		locks:     locks,
		publisher: publisher,
		cache:     cache,
		step:      step,
		quizID:    quizID,
	}
}

func (fx *fieldFixture) seed(key string, row, col, rowSpan, colSpan int) model.Field {
	return fx.fields.put(model.Field{FieldBase: model.FieldBase{
		StepID:   fx.step.ID,
		Key:      key,
		Type:     model.FieldInputText,
		Position: model.GridPosition{Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan},
	}})
}

func intp(v int) *int { return &v }

func TestFieldService_CreateAutoPlaces(t *testing.T) {
	fx := newFieldFixture(t, 200)
	ctx := context.Background()

	first, err := fx.svc.Create(ctx, &model.CreateFieldRequest{StepID: fx.step.ID.String(), Key: "name", Type: model.FieldInputText})
	require.NoError(t, err)
	assert.Equal(t, model.GridPosition{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1}, first.Position)
	assert.Equal(t, 0, first.OrderIndex)
	assert.NotNil(t, first.Input)

	second, err := fx.svc.Create(ctx, &model.CreateFieldRequest{
		StepID:        fx.step.ID.String(),
		Key:           "email",
		Type:          model.FieldInputEmail,
		PositionInput: model.PositionInput{ColSpan: intp(12)},
	})
	require.NoError(t, err)
	assert.Equal(t, model.GridPosition{Row: 2, Col: 1, RowSpan: 1, ColSpan: 12}, second.Position)
	assert.Equal(t, 1, second.OrderIndex)

	assert.Equal(t, []ws.LayoutChange{ws.FieldCreated, ws.FieldCreated}, fx.publisher.changes())
	assert.Equal(t, []uuid.UUID{fx.quizID, fx.quizID}, fx.cache.invalidated)
}

func TestFieldService_CreateGridFull(t *testing.T) {
	fx := newFieldFixture(t, 1)
	fx.seed("wide", 1, 1, 1, 12)

	_, err := fx.svc.Create(context.Background(), &model.CreateFieldRequest{
		StepID: fx.step.ID.String(), Key: "next", Type: model.FieldInputText,
	})
	assert.ErrorIs(t, err, ErrGridFull)
	assert.Empty(t, fx.publisher.changes())
}

func TestFieldService_CreateAtCollidingPosition(t *testing.T) {
	fx := newFieldFixture(t, 200)
	a := fx.seed("a", 1, 1, 1, 6)

	_, err := fx.svc.Create(context.Background(), &model.CreateFieldRequest{
		StepID:        fx.step.ID.String(),
		Key:           "b",
		Type:          model.FieldInputText,
		PositionInput: model.PositionInput{Position: &model.PositionPatch{Row: intp(1), Col: intp(4), ColSpan: intp(3)}},
	})
	require.ErrorIs(t, err, ErrGridCollision)

	var ce *CollisionError
	require.True(t, errors.As(err, &ce))
	require.Len(t, ce.Collisions, 1)
	assert.Equal(t, grid.Collision{A: a.ID.String(), B: model.NewItemID}, ce.Collisions[0])

	got, _ := fx.fields.ListByStep(context.Background(), fx.step.ID)
	assert.Len(t, got, 1)
}

func TestFieldService_CreateDuplicateKeyAcrossSteps(t *testing.T) {
	fx := newFieldFixture(t, 200)
	fx.seed("email", 1, 1, 1, 1)
	other := fx.steps.add(fx.step.QuizVersionID, fx.quizID, 12)

	_, err := fx.svc.Create(context.Background(), &model.CreateFieldRequest{
		StepID: other.ID.String(), Key: "email", Type: model.FieldInputEmail,
	})
	assert.ErrorIs(t, err, ErrDuplicateFieldKey)
}

func TestFieldService_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("into a neighbour is blocked", func(t *testing.T) {
		fx := newFieldFixture(t, 200)
		a := fx.seed("a", 1, 1, 1, 6)
		b := fx.seed("b", 1, 7, 1, 6)

		_, err := fx.svc.Move(ctx, b.ID, model.PositionInput{ColIndex: intp(5)})
		require.ErrorIs(t, err, ErrGridCollision)

		var ce *CollisionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, []grid.Collision{{A: a.ID.String(), B: b.ID.String()}}, ce.Collisions)

		stored, _ := fx.fields.GetByID(ctx, b.ID)
		assert.Equal(t, 7, stored.Position.Col)
		assert.Empty(t, fx.publisher.changes())
	})

	t.Run("to a free row persists", func(t *testing.T) {
		fx := newFieldFixture(t, 200)
		fx.seed("a", 1, 1, 1, 6)
		b := fx.seed("b", 1, 7, 1, 6)

		moved, err := fx.svc.Move(ctx, b.ID, model.PositionInput{Position: &model.PositionPatch{Row: intp(2), Col: intp(1)}})
		require.NoError(t, err)
		assert.Equal(t, model.GridPosition{Row: 2, Col: 1, RowSpan: 1, ColSpan: 6}, moved.Position)

		stored, _ := fx.fields.GetByID(ctx, b.ID)
		assert.Equal(t, moved.Position, stored.Position)
		assert.Equal(t, []ws.LayoutChange{ws.FieldMoved}, fx.publisher.changes())
	})

	t.Run("no-op succeeds silently", func(t *testing.T) {
		fx := newFieldFixture(t, 200)
		a := fx.seed("a", 1, 1, 1, 6)

		moved, err := fx.svc.Move(ctx, a.ID, model.PositionInput{RowIndex: intp(1), ColIndex: intp(1)})
		require.NoError(t, err)
		assert.Equal(t, a.Position, moved.Position)
		assert.Empty(t, fx.publisher.changes())
	})

	t.Run("existing overlap does not block others", func(t *testing.T) {
		fx := newFieldFixture(t, 200)
		fx.seed("a", 1, 1, 1, 4)
		fx.seed("b", 1, 3, 1, 4)
		c := fx.seed("c", 2, 1, 1, 1)

		_, err := fx.svc.Move(ctx, c.ID, model.PositionInput{RowIndex: intp(3)})
		assert.NoError(t, err)
	})
}

func TestFieldService_ConcurrentMovesIntoSameCell(t *testing.T) {
	fx := newFieldFixture(t, 200)
	a := fx.seed("a", 1, 1, 1, 1)
	b := fx.seed("b", 1, 2, 1, 1)
	target := model.PositionInput{RowIndex: intp(5), ColIndex: intp(5)}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := fx.svc.Move(context.Background(), id, target); err != nil {
				assert.ErrorIs(t, err, ErrGridCollision)
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, failures)
	fields, _ := fx.fields.ListByStep(context.Background(), fx.step.ID)
	assert.Empty(t, grid.DetectCollisions(placementsOf(fields), fx.step.GridColumns))
}

func TestFieldService_UpdateTypeRenormalizes(t *testing.T) {
	fx := newFieldFixture(t, 200)
	ctx := context.Background()
	g := fx.fields.put(model.Field{
		FieldBase: model.FieldBase{StepID: fx.step.ID, Key: "dims", Type: model.FieldGroup, Position: model.DefaultPosition},
		Group:     &model.GroupAttrs{GridColumns: 6, LayoutMode: "grid"},
	})

	typ := model.FieldInputNumber
	updated, err := fx.svc.Update(ctx, g.ID, &model.UpdateFieldRequest{
		Type:            &typ,
		FieldAttrsInput: model.FieldAttrsInput{Unit: strp("cm")},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Group)
	require.NotNil(t, updated.Input)
	assert.Equal(t, "cm", updated.Input.Unit)
	assert.Equal(t, []ws.LayoutChange{ws.FieldUpdated}, fx.publisher.changes())
}

func TestFieldService_UpdatePositionChecked(t *testing.T) {
	fx := newFieldFixture(t, 200)
	ctx := context.Background()
	fx.seed("a", 1, 1, 2, 2)
	b := fx.seed("b", 3, 1, 1, 1)

	_, err := fx.svc.Update(ctx, b.ID, &model.UpdateFieldRequest{
		Label:         strp("renamed"),
		PositionInput: model.PositionInput{RowIndex: intp(2)},
	})
	require.ErrorIs(t, err, ErrGridCollision)

	stored, _ := fx.fields.GetByID(ctx, b.ID)
	assert.Empty(t, stored.Label)
	assert.Equal(t, 3, stored.Position.Row)
}

func TestFieldService_ContainerResizeKeepsInputsApart(t *testing.T) {
	fx := newFieldFixture(t, 200)
	ctx := context.Background()
	group := fx.fields.put(model.Field{
		FieldBase: model.FieldBase{StepID: fx.step.ID, Key: "dims", Type: model.FieldGroup, Position: model.DefaultPosition},
		Group:     &model.GroupAttrs{GridColumns: 4, LayoutMode: "grid"},
	})
	fx.inputs.add(model.GroupedInput{FieldID: group.ID, FieldKey: "h", Position: model.GridPosition{Row: 1, Col: 2, RowSpan: 1, ColSpan: 1}})
	fx.inputs.add(model.GroupedInput{FieldID: group.ID, FieldKey: "w", Position: model.GridPosition{Row: 1, Col: 4, RowSpan: 1, ColSpan: 1}})

	_, err := fx.svc.Update(ctx, group.ID, &model.UpdateFieldRequest{
		FieldAttrsInput: model.FieldAttrsInput{ContainerGridColumns: intp(2)},
	})
	require.ErrorIs(t, err, ErrGridCollision)
	stored, _ := fx.fields.GetByID(ctx, group.ID)
	assert.Equal(t, 4, stored.Group.GridColumns)
	assert.Empty(t, fx.publisher.changes())

	updated, err := fx.svc.Update(ctx, group.ID, &model.UpdateFieldRequest{
		FieldAttrsInput: model.FieldAttrsInput{ContainerGridColumns: intp(6)},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Group.GridColumns)
}

func TestFieldService_Delete(t *testing.T) {
	fx := newFieldFixture(t, 200)
	a := fx.seed("a", 1, 1, 1, 1)

	require.NoError(t, fx.svc.Delete(context.Background(), a.ID))
	_, err := fx.fields.GetByID(context.Background(), a.ID)
	assert.Error(t, err)
	assert.Equal(t, []ws.LayoutChange{ws.FieldDeleted}, fx.publisher.changes())
}

func strp(v string) *string { return &v }
