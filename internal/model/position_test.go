package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestPositionInput_BothShapesDecodeToSamePosition(t *testing.T) {
	var flat, nested MoveFieldRequest
	require.NoError(t, json.Unmarshal([]byte(`{"row_index":3,"col_index":5,"row_span":2,"col_span":4}`), &flat))
	require.NoError(t, json.Unmarshal([]byte(`{"position":{"row":3,"col":5,"row_span":2,"col_span":4}}`), &nested))

	want := GridPosition{Row: 3, Col: 5, RowSpan: 2, ColSpan: 4}
	assert.Equal(t, want, flat.Resolve(DefaultPosition))
	assert.Equal(t, want, nested.Resolve(DefaultPosition))
	assert.True(t, flat.IsSet())
	assert.True(t, nested.IsSet())
}

func TestPositionInput_Resolve(t *testing.T) {
	base := GridPosition{Row: 2, Col: 3, RowSpan: 1, ColSpan: 6}

	t.Run("nothing supplied keeps base", func(t *testing.T) {
		in := PositionInput{}
		assert.False(t, in.IsSet())
		assert.Equal(t, base, in.Resolve(base))
	})

	t.Run("partial patch overlays", func(t *testing.T) {
		in := PositionInput{ColIndex: intp(7)}
		assert.Equal(t, GridPosition{Row: 2, Col: 7, RowSpan: 1, ColSpan: 6}, in.Resolve(base))
	})

	t.Run("nested wins over flat", func(t *testing.T) {
		in := PositionInput{RowIndex: intp(9), Position: &PositionPatch{Row: intp(4)}}
		assert.Equal(t, 4, in.Resolve(base).Row)
	})

	t.Run("empty nested object is not a position", func(t *testing.T) {
		assert.False(t, PositionInput{Position: &PositionPatch{}}.IsSet())
	})

	t.Run("zero spans become one", func(t *testing.T) {
		in := PositionInput{RowSpan: intp(0)}
		assert.Equal(t, 1, in.Resolve(base).RowSpan)
	})
}

func TestPositionInput_SpansAndOrigin(t *testing.T) {
	r, c := PositionInput{ColSpan: intp(6)}.Spans()
	assert.Equal(t, [2]int{1, 6}, [2]int{r, c})

	assert.False(t, PositionInput{RowIndex: intp(1)}.HasOrigin())
	assert.True(t, PositionInput{RowIndex: intp(1), Position: &PositionPatch{Col: intp(2)}}.HasOrigin())
}

func TestGridPosition_Placement(t *testing.T) {
	id := uuid.New()
	p := GridPosition{Row: 1, Col: 10, RowSpan: 1, ColSpan: 5}.Placement(id)
	assert.Equal(t, id.String(), p.ID)
	assert.Equal(t, GridPosition{Row: 1, Col: 10, RowSpan: 1, ColSpan: 3}, GridPosition{Row: 1, Col: 10, RowSpan: 1, ColSpan: 5}.Clamped(12))
}

func TestGridPosition_InBounds(t *testing.T) {
	assert.True(t, DefaultPosition.InBounds())
	assert.True(t, GridPosition{Row: MaxGridRow, Col: MaxGridColumns, RowSpan: MaxGridRow, ColSpan: 1}.InBounds())
	assert.False(t, GridPosition{Row: MaxGridRow + 1, Col: 1, RowSpan: 1, ColSpan: 1}.InBounds())
	assert.False(t, GridPosition{Row: 1, Col: 1, RowSpan: 2_000_000, ColSpan: 1}.InBounds())
	assert.False(t, GridPosition{Row: 0, Col: 1, RowSpan: 1, ColSpan: 1}.InBounds())
	assert.False(t, GridPosition{Row: 1, Col: 25, RowSpan: 1, ColSpan: 1}.InBounds())
}

func TestRowLimit(t *testing.T) {
	assert.Equal(t, 200, RowLimit(200))
	assert.Equal(t, MaxGridRow, RowLimit(0))
	assert.Equal(t, MaxGridRow, RowLimit(-1))
	assert.Equal(t, MaxGridRow, RowLimit(5000))
}
