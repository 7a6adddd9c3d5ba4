package model

import (
	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/grid"
)

// GridPosition is the normalized rectangle an item occupies on a grid.
// Coordinates are 1-based.
type GridPosition struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	RowSpan int `json:"row_span"`
	ColSpan int `json:"col_span"`
}

// MaxGridRow bounds row and row span. The binding tags below and the
// schema's CHECK constraints repeat it, as they do MaxGridColumns.
const MaxGridRow = 1000

// RowLimit caps an auto-placement scan bound at MaxGridRow. n <= 0 means
// no configured bound.
func RowLimit(n int) int {
	if n <= 0 || n > MaxGridRow {
		return MaxGridRow
	}
	return n
}

// InBounds reports whether the position fits the stored coordinate range.
func (p GridPosition) InBounds() bool {
	return p.Row >= 1 && p.Row <= MaxGridRow &&
		p.RowSpan >= 1 && p.RowSpan <= MaxGridRow &&
		p.Col >= 1 && p.Col <= MaxGridColumns &&
		p.ColSpan >= 1 && p.ColSpan <= MaxGridColumns
}

// DefaultPosition is used when an item is stored without any coordinates.
var DefaultPosition = GridPosition{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1}

// Placement converts the position into the collision checker's input.
func (p GridPosition) Placement(id uuid.UUID) grid.Placement {
	return grid.Placement{ID: id.String(), Row: p.Row, Col: p.Col, RowSpan: p.RowSpan, ColSpan: p.ColSpan}
}

// NewItemID names an item that is not stored yet in collision reports.
const NewItemID = "new"

// PendingPlacement is Placement for an item that has no id yet.
func (p GridPosition) PendingPlacement() grid.Placement {
	return grid.Placement{ID: NewItemID, Row: p.Row, Col: p.Col, RowSpan: p.RowSpan, ColSpan: p.ColSpan}
}

// Clamped returns the position as the checker sees it on a grid of columns.
func (p GridPosition) Clamped(columns int) GridPosition {
	n := grid.Placement{Row: p.Row, Col: p.Col, RowSpan: p.RowSpan, ColSpan: p.ColSpan}.Normalize(columns)
	return GridPosition{Row: n.Row, Col: n.Col, RowSpan: n.RowSpan, ColSpan: n.ColSpan}
}

// PositionPatch is the nested "position" object of a request.
// Nil members mean "keep the current value".
type PositionPatch struct {
	Row     *int `json:"row" binding:"omitempty,min=1,max=1000"`
	Col     *int `json:"col" binding:"omitempty,min=1,max=24"`
	RowSpan *int `json:"row_span" binding:"omitempty,min=1,max=1000"`
	ColSpan *int `json:"col_span" binding:"omitempty,min=1,max=24"`
}

// PositionInput accepts both positional shapes clients send: a nested
// "position" object and the flat row_index/col_index/row_span/col_span
// attributes. Embed it in request DTOs and call Resolve at the boundary.
type PositionInput struct {
	Position *PositionPatch `json:"position"`
	RowIndex *int           `json:"row_index" binding:"omitempty,min=1,max=1000"`
	ColIndex *int           `json:"col_index" binding:"omitempty,min=1,max=24"`
	RowSpan  *int           `json:"row_span" binding:"omitempty,min=1,max=1000"`
	ColSpan  *int           `json:"col_span" binding:"omitempty,min=1,max=24"`
}

// IsSet reports whether any coordinate was supplied.
func (in PositionInput) IsSet() bool {
	if in.RowIndex != nil || in.ColIndex != nil || in.RowSpan != nil || in.ColSpan != nil {
		return true
	}
	p := in.Position
	return p != nil && (p.Row != nil || p.Col != nil || p.RowSpan != nil || p.ColSpan != nil)
}

// Resolve overlays the supplied coordinates on base. When both shapes name
// the same coordinate the nested object wins.
func (in PositionInput) Resolve(base GridPosition) GridPosition {
	out := base
	set(&out.Row, in.RowIndex)
	set(&out.Col, in.ColIndex)
	set(&out.RowSpan, in.RowSpan)
	set(&out.ColSpan, in.ColSpan)
	if p := in.Position; p != nil {
		set(&out.Row, p.Row)
		set(&out.Col, p.Col)
		set(&out.RowSpan, p.RowSpan)
		set(&out.ColSpan, p.ColSpan)
	}
	if out.RowSpan < 1 {
		out.RowSpan = 1
	}
	if out.ColSpan < 1 {
		out.ColSpan = 1
	}
	return out
}

// Spans returns the requested spans, defaulting each to 1.
func (in PositionInput) Spans() (rowSpan, colSpan int) {
	p := in.Resolve(GridPosition{})
	return p.RowSpan, p.ColSpan
}

// HasOrigin reports whether both row and column were supplied.
func (in PositionInput) HasOrigin() bool {
	row := in.RowIndex != nil || (in.Position != nil && in.Position.Row != nil)
	col := in.ColIndex != nil || (in.Position != nil && in.Position.Col != nil)
	return row && col
}

func set(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
