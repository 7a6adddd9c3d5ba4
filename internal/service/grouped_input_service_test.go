package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroupedInputService(fx *fieldFixture, fields fieldLookup) *GroupedInputService {
	return NewGroupedInputService(fx.inputs, fields, fx.steps, fx.cache, fx.locks, 200, zerolog.Nop())
}

func (fx *fieldFixture) seedGroup(key string, columns int) model.Field {
	return fx.fields.put(model.Field{
		FieldBase: model.FieldBase{StepID: fx.step.ID, Key: key, Type: model.FieldGroup, Position: model.DefaultPosition},
		Group:     &model.GroupAttrs{GridColumns: columns, LayoutMode: "grid"},
	})
}

func TestGroupedInputService_LaysOutOnContainerGrid(t *testing.T) {
	fx := newFieldFixture(t, 200)
	ctx := context.Background()
	group := fx.seedGroup("measurements", 2)
	svc := newGroupedInputService(fx, fx.fields)

	create := func(key string) (*model.GroupedInput, error) {
		return svc.Create(ctx, &model.CreateGroupedInputRequest{FieldID: group.ID.String(), FieldKey: key, InputType: "number"})
	}

	height, err := create("height")
	require.NoError(t, err)
	weight, err := create("weight")
	require.NoError(t, err)
	age, err := create("age")
	require.NoError(t, err)

	assert.Equal(t, model.GridPosition{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1}, height.Position)
	assert.Equal(t, model.GridPosition{Row: 1, Col: 2, RowSpan: 1, ColSpan: 1}, weight.Position)
	assert.Equal(t, model.GridPosition{Row: 2, Col: 1, RowSpan: 1, ColSpan: 1}, age.Position)

	_, err = create("age")
	assert.ErrorIs(t, err, ErrDuplicateFieldKey)

	_, err = svc.Update(ctx, age.ID, &model.UpdateGroupedInputRequest{PositionInput: model.PositionInput{RowIndex: intp(1)}})
	assert.ErrorIs(t, err, ErrGridCollision)

	moved, err := svc.Update(ctx, age.ID, &model.UpdateGroupedInputRequest{PositionInput: model.PositionInput{ColIndex: intp(2)}})
	require.NoError(t, err)
	assert.Equal(t, 2, moved.Position.Col)
}

func TestGroupedInputService_CreateAtCollidingPositionNamesNewInput(t *testing.T) {
	fx := newFieldFixture(t, 200)
	group := fx.seedGroup("measurements", 2)
	height := fx.inputs.add(model.GroupedInput{FieldID: group.ID, FieldKey: "height", Position: model.DefaultPosition})
	svc := newGroupedInputService(fx, fx.fields)

	_, err := svc.Create(context.Background(), &model.CreateGroupedInputRequest{
		FieldID:       group.ID.String(),
		FieldKey:      "weight",
		InputType:     "number",
		PositionInput: model.PositionInput{RowIndex: intp(1), ColIndex: intp(1)},
	})
	require.ErrorIs(t, err, ErrGridCollision)

	var ce *CollisionError
	require.True(t, errors.As(err, &ce))
	require.Len(t, ce.Collisions, 1)
	assert.True(t, ce.Collisions[0].Involves(height.ID.String()))
	assert.True(t, ce.Collisions[0].Involves(model.NewItemID))
}

func TestGroupedInputService_RequiresGroupField(t *testing.T) {
	fx := newFieldFixture(t, 200)
	text := fx.seed("name", 1, 1, 1, 1)
	svc := newGroupedInputService(fx, fx.fields)

	_, err := svc.Create(context.Background(), &model.CreateGroupedInputRequest{FieldID: text.ID.String(), FieldKey: "x", InputType: "text"})
	assert.ErrorIs(t, err, ErrFieldKindMismatch)
}

func TestGroupedInputService_UpdateSeesConcurrentContainerResize(t *testing.T) {
	fx := newFieldFixture(t, 200)
	ctx := context.Background()
	group := fx.seedGroup("measurements", 4)
	fx.inputs.add(model.GroupedInput{FieldID: group.ID, FieldKey: "x", Position: model.GridPosition{Row: 1, Col: 3, RowSpan: 1, ColSpan: 1}})
	y := fx.inputs.add(model.GroupedInput{FieldID: group.ID, FieldKey: "y", Position: model.DefaultPosition})

	// The container shrinks to 3 columns right after the input service reads
	// the group. At 3 columns y at col 4 would clamp onto x.
	var resized <-chan error
	fields := &hookedFieldStore{fakeFieldStore: fx.fields}
	fields.afterGet = func() {
		resized = runBriefly(func() error {
			_, err := fx.svc.Update(ctx, group.ID, &model.UpdateFieldRequest{
				FieldAttrsInput: model.FieldAttrsInput{ContainerGridColumns: intp(3)},
			})
			return err
		})
	}
	svc := newGroupedInputService(fx, fields)

	_, moveErr := svc.Update(ctx, y.ID, &model.UpdateGroupedInputRequest{PositionInput: model.PositionInput{ColIndex: intp(4)}})
	require.NotNil(t, resized)
	resizeErr := <-resized

	// Exactly one of the two changes may win.
	assert.True(t, (moveErr == nil) != (resizeErr == nil), "move: %v, resize: %v", moveErr, resizeErr)

	stored, err := fx.fields.GetByID(ctx, group.ID)
	require.NoError(t, err)
	inputs, _ := fx.inputs.ListByField(ctx, group.ID)
	assert.Empty(t, grid.DetectCollisions(inputPlacements(inputs), stored.Group.GridColumns))
}
