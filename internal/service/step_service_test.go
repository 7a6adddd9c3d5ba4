package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStepFixture(t *testing.T) (*StepService, *fieldFixture, *fakeVersionStore) {
	t.Helper()
	fx := newFieldFixture(t, 200)
	versions := &fakeVersionStore{versions: []model.Version{{ID: fx.step.QuizVersionID, QuizID: fx.quizID, Label: "A", IsDefault: true}}}
	svc := NewStepService(fx.steps, fx.fields, versions, fx.cache, fx.locks, zerolog.Nop())
	return svc, fx, versions
}

func TestStepService_CreateDefaults(t *testing.T) {
	svc, fx, _ := newStepFixture(t)

	st, err := svc.Create(context.Background(), &model.CreateStepRequest{QuizVersionID: fx.step.QuizVersionID.String(), Title: "Intro"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultGridColumns, st.GridColumns)
	assert.Equal(t, model.DefaultGridGapPx, st.GridGapPx)
	assert.Equal(t, model.StepLayoutDefault, st.Layout)
	assert.True(t, st.IsVisible)
	assert.Equal(t, 1, st.OrderIndex)
}

func TestStepService_ShrinkingColumnsChecksCollisions(t *testing.T) {
	svc, fx, _ := newStepFixture(t)
	ctx := context.Background()
	fx.seed("a", 1, 1, 1, 6)
	fx.seed("b", 1, 7, 1, 6)

	_, err := svc.Update(ctx, fx.step.ID, &model.UpdateStepRequest{GridColumns: intp(6)})
	require.ErrorIs(t, err, ErrGridCollision)
	stored, _ := fx.steps.GetByID(ctx, fx.step.ID)
	assert.Equal(t, 12, stored.GridColumns)

	updated, err := svc.Update(ctx, fx.step.ID, &model.UpdateStepRequest{GridColumns: intp(24)})
	require.NoError(t, err)
	assert.Equal(t, 24, updated.GridColumns)
	assert.Contains(t, fx.cache.invalidated, fx.quizID)
}

func TestStepService_ShrinkSerializesWithFieldMoves(t *testing.T) {
	fx := newFieldFixture(t, 200)
	ctx := context.Background()
	fx.seed("a", 1, 1, 1, 6)
	b := fx.seed("b", 2, 1, 1, 6)
	versions := &fakeVersionStore{versions: []model.Version{{ID: fx.step.QuizVersionID, QuizID: fx.quizID}}}

	// b moves beside a right after the resize has listed the step's fields.
	// On 6 columns that move would put b on top of a.
	var moved <-chan error
	fields := &hookedFieldStore{fakeFieldStore: fx.fields}
	fields.afterList = func() {
		moved = runBriefly(func() error {
			_, err := fx.svc.Move(ctx, b.ID, model.PositionInput{RowIndex: intp(1), ColIndex: intp(7)})
			return err
		})
	}
	svc := NewStepService(fx.steps, fields, versions, fx.cache, fx.locks, zerolog.Nop())

	updated, err := svc.Update(ctx, fx.step.ID, &model.UpdateStepRequest{GridColumns: intp(6)})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.GridColumns)
	require.NotNil(t, moved)
	assert.ErrorIs(t, <-moved, ErrGridCollision)

	stored, _ := fx.steps.GetByID(ctx, fx.step.ID)
	all, _ := fx.fields.ListByStep(ctx, fx.step.ID)
	assert.Empty(t, grid.DetectCollisions(placementsOf(all), stored.GridColumns))
}

func TestStepService_Collisions(t *testing.T) {
	svc, fx, _ := newStepFixture(t)
	a := fx.seed("a", 1, 1, 2, 2)
	b := fx.seed("b", 2, 2, 1, 1)
	fx.seed("c", 5, 1, 1, 1)

	cs, err := svc.Collisions(context.Background(), fx.step.ID)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.True(t, cs[0].Involves(a.ID.String()))
	assert.True(t, cs[0].Involves(b.ID.String()))
}

func TestStepService_CheckLayout(t *testing.T) {
	svc, fx, _ := newStepFixture(t)
	ctx := context.Background()
	a := fx.seed("a", 1, 1, 1, 6)
	b := fx.seed("b", 1, 7, 1, 6)

	tests := []struct {
		name    string
		req     model.LayoutCheckRequest
		collide bool
	}{
		{
			name:    "move onto neighbour",
			req:     model.LayoutCheckRequest{FieldID: b.ID.String(), PositionInput: model.PositionInput{ColIndex: intp(5)}},
			collide: true,
		},
		{
			name:    "no-op move",
			req:     model.LayoutCheckRequest{FieldID: a.ID.String(), PositionInput: model.PositionInput{ColIndex: intp(1)}},
			collide: false,
		},
		{
			name:    "new field on free row",
			req:     model.LayoutCheckRequest{PositionInput: model.PositionInput{RowIndex: intp(2), ColIndex: intp(1), ColSpan: intp(12)}},
			collide: false,
		},
		{
			name:    "new field over both",
			req:     model.LayoutCheckRequest{PositionInput: model.PositionInput{RowIndex: intp(1), ColIndex: intp(6), ColSpan: intp(2)}},
			collide: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.CheckLayout(ctx, fx.step.ID, &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.collide, res.WouldCollide)
			assert.Equal(t, tt.collide, len(res.Collisions) > 0)
			for _, c := range res.Collisions {
				if tt.req.FieldID == "" {
					assert.True(t, c.Involves(model.NewItemID))
				} else {
					assert.True(t, c.Involves(tt.req.FieldID))
				}
			}
		})
	}

	stored, _ := fx.fields.GetByID(ctx, b.ID)
	assert.Equal(t, 7, stored.Position.Col)
}

func TestStepService_Reorder(t *testing.T) {
	svc, fx, _ := newStepFixture(t)
	ctx := context.Background()
	second := fx.steps.add(fx.step.QuizVersionID, fx.quizID, 12)
	versionID := fx.step.QuizVersionID

	steps, err := svc.Reorder(ctx, versionID, []string{second.ID.String(), fx.step.ID.String()})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, second.ID, steps[0].ID)
	assert.Equal(t, fx.step.ID, steps[1].ID)

	bad := [][]string{
		{fx.step.ID.String()},
		{fx.step.ID.String(), fx.step.ID.String()},
		{fx.step.ID.String(), uuid.NewString()},
		{fx.step.ID.String(), "not-a-uuid"},
	}
	for _, order := range bad {
		_, err := svc.Reorder(ctx, versionID, order)
		assert.ErrorIs(t, err, ErrInvalidStepOrder, "order %v", order)
	}
}
