package model

import (
	"time"

	"github.com/google/uuid"
)

// StepLayout is the presentation width of a step.
type StepLayout string

const (
	StepLayoutDefault StepLayout = "default"
	StepLayoutWide    StepLayout = "wide"
	StepLayoutNarrow  StepLayout = "narrow"
)

const (
	DefaultGridColumns = 12
	DefaultGridGapPx   = 8
	MaxGridColumns     = 24
)

// Step is one page of a quiz version. Its fields are laid out on a
// GridColumns-wide grid with unbounded rows.
type Step struct {
	ID            uuid.UUID  `json:"id"`
	QuizVersionID uuid.UUID  `json:"quiz_version_id"`
	OrderIndex    int        `json:"order_index"`
	IsVisible     bool       `json:"is_visible"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	FootnoteText  string     `json:"footnote_text"`
	CTAText       string     `json:"cta_text"`
	Layout        StepLayout `json:"layout"`
	MediaID       *uuid.UUID `json:"media_id"`
	GridColumns   int        `json:"grid_columns"`
	GridRows      int        `json:"grid_rows"`
	GridGapPx     int        `json:"grid_gap_px"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateStepRequest struct {
	QuizVersionID string  `json:"quiz_version_id" binding:"required,uuid"`
	IsVisible     *bool   `json:"is_visible"`
	Title         string  `json:"title" binding:"max=200"`
	Description   string  `json:"description" binding:"max=2000"`
	FootnoteText  string  `json:"footnote_text" binding:"max=500"`
	CTAText       string  `json:"cta_text" binding:"max=80"`
	Layout        string  `json:"layout" binding:"omitempty,oneof=default wide narrow"`
	MediaID       *string `json:"media_id" binding:"omitempty,uuid"`
	GridColumns   *int    `json:"grid_columns" binding:"omitempty,min=1,max=24"`
	GridRows      *int    `json:"grid_rows" binding:"omitempty,min=0,max=200"`
	GridGapPx     *int    `json:"grid_gap_px" binding:"omitempty,min=0,max=64"`
}

type UpdateStepRequest struct {
	IsVisible    *bool   `json:"is_visible"`
	Title        *string `json:"title" binding:"omitempty,max=200"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	FootnoteText *string `json:"footnote_text" binding:"omitempty,max=500"`
	CTAText      *string `json:"cta_text" binding:"omitempty,max=80"`
	Layout       *string `json:"layout" binding:"omitempty,oneof=default wide narrow"`
	// MediaID "" clears the media reference.
	MediaID     *string `json:"media_id" binding:"omitempty,max=36"`
	GridColumns *int    `json:"grid_columns" binding:"omitempty,min=1,max=24"`
	GridRows    *int    `json:"grid_rows" binding:"omitempty,min=0,max=200"`
	GridGapPx   *int    `json:"grid_gap_px" binding:"omitempty,min=0,max=64"`
}

// ReorderStepsRequest lists every step id of a version in the new order.
type ReorderStepsRequest struct {
	Order []string `json:"order" binding:"required,min=1,dive,uuid"`
}

// LayoutCheckRequest asks whether a placement would collide without saving it.
// FieldID is empty when previewing a field that does not exist yet.
type LayoutCheckRequest struct {
	FieldID string `json:"field_id" binding:"omitempty,uuid"`
	PositionInput
}
