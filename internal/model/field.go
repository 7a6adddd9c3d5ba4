package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FieldType is the concrete control a field renders as.
type FieldType string

const (
	FieldChoiceSingle FieldType = "choice_single"
	FieldChoiceMulti  FieldType = "choice_multi"
	FieldInputText    FieldType = "input_text"
	FieldInputNumber  FieldType = "input_number"
	FieldInputEmail   FieldType = "input_email"
	FieldInputPhone   FieldType = "input_phone"
	FieldDate         FieldType = "date"
	FieldSlider       FieldType = "slider"
	FieldGroup        FieldType = "group"
)

// FieldKind groups field types by which attribute set they carry.
type FieldKind string

const (
	KindInput  FieldKind = "input"
	KindChoice FieldKind = "choice"
	KindGroup  FieldKind = "group"
)

// Kind returns the variant of t, or "" for unknown types.
func (t FieldType) Kind() FieldKind {
	switch t {
	case FieldChoiceSingle, FieldChoiceMulti:
		return KindChoice
	case FieldInputText, FieldInputNumber, FieldInputEmail, FieldInputPhone, FieldDate, FieldSlider:
		return KindInput
	case FieldGroup:
		return KindGroup
	}
	return ""
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool { return t.Kind() != "" }

// FieldBase holds what every field variant shares, including its position
// on the step grid.
type FieldBase struct {
	ID         uuid.UUID    `json:"id"`
	StepID     uuid.UUID    `json:"step_id"`
	OrderIndex int          `json:"order_index"`
	IsVisible  bool         `json:"is_visible"`
	Key        string       `json:"key"`
	Label      string       `json:"label"`
	HelpText   string       `json:"help_text"`
	Type       FieldType    `json:"type"`
	Required   bool         `json:"required"`
	Position   GridPosition `json:"position"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// InputAttrs configure free-entry controls (text, number, date, slider...).
type InputAttrs struct {
	Placeholder       string          `json:"placeholder"`
	InputMask         string          `json:"input_mask"`
	Min               *float64        `json:"min"`
	Max               *float64        `json:"max"`
	Unit              string          `json:"unit"`
	ValidationRegex   string          `json:"validation_regex"`
	ValidationMessage string          `json:"validation_message"`
	ValueFormat       string          `json:"value_format"`
	DefaultValue      json.RawMessage `json:"default_value,omitempty"`
}

// ChoiceAttrs configure single and multi choice fields.
type ChoiceAttrs struct {
	RandomizeOptions bool `json:"randomize_options"`
}

// GroupAttrs describe the inner grid grouped inputs are laid out on.
type GroupAttrs struct {
	LayoutMode  string `json:"container_layout_mode"`
	GridColumns int    `json:"container_grid_columns"`
	GridRows    int    `json:"container_grid_rows"`
	GapPx       int    `json:"container_gap_px"`
}

// Field is a tagged variant: exactly the attribute set matching
// Type.Kind() is non-nil once Normalize has run.
type Field struct {
	FieldBase
	Input  *InputAttrs  `json:"input,omitempty"`
	Choice *ChoiceAttrs `json:"choice,omitempty"`
	Group  *GroupAttrs  `json:"group,omitempty"`
}

// Normalize drops attribute sets that do not belong to the field's kind and
// creates the one that does.
func (f *Field) Normalize() {
	switch f.Type.Kind() {
	case KindInput:
		if f.Input == nil {
			f.Input = &InputAttrs{}
		}
		f.Choice, f.Group = nil, nil
	case KindChoice:
		if f.Choice == nil {
			f.Choice = &ChoiceAttrs{}
		}
		f.Input, f.Group = nil, nil
	case KindGroup:
		if f.Group == nil {
			f.Group = &GroupAttrs{}
		}
		if f.Group.GridColumns < 1 {
			f.Group.GridColumns = DefaultGridColumns
		}
		if f.Group.LayoutMode == "" {
			f.Group.LayoutMode = "grid"
		}
		f.Input, f.Choice = nil, nil
	default:
		f.Input, f.Choice, f.Group = nil, nil, nil
	}
}

// FieldAttrsInput carries every variant attribute a request may set. Only
// the ones matching the field's kind are applied.
type FieldAttrsInput struct {
	Placeholder       *string          `json:"placeholder" binding:"omitempty,max=200"`
	InputMask         *string          `json:"input_mask" binding:"omitempty,max=100"`
	Min               *float64         `json:"min"`
	Max               *float64         `json:"max"`
	Unit              *string          `json:"unit" binding:"omitempty,max=20"`
	ValidationRegex   *string          `json:"validation_regex" binding:"omitempty,max=500"`
	ValidationMessage *string          `json:"validation_message" binding:"omitempty,max=200"`
	ValueFormat       *string          `json:"value_format" binding:"omitempty,max=50"`
	DefaultValue      *json.RawMessage `json:"default_value"`

	RandomizeOptions *bool `json:"randomize_options"`

	ContainerLayoutMode  *string `json:"container_layout_mode" binding:"omitempty,oneof=grid stack"`
	ContainerGridColumns *int    `json:"container_grid_columns" binding:"omitempty,min=1,max=24"`
	ContainerGridRows    *int    `json:"container_grid_rows" binding:"omitempty,min=0,max=200"`
	ContainerGapPx       *int    `json:"container_gap_px" binding:"omitempty,min=0,max=64"`
}

// Apply normalizes f and copies the kind-relevant attributes onto it.
func (in FieldAttrsInput) Apply(f *Field) {
	f.Normalize()
	switch {
	case f.Input != nil:
		a := f.Input
		setStr(&a.Placeholder, in.Placeholder)
		setStr(&a.InputMask, in.InputMask)
		if in.Min != nil {
			a.Min = in.Min
		}
		if in.Max != nil {
			a.Max = in.Max
		}
		setStr(&a.Unit, in.Unit)
		setStr(&a.ValidationRegex, in.ValidationRegex)
		setStr(&a.ValidationMessage, in.ValidationMessage)
		setStr(&a.ValueFormat, in.ValueFormat)
		if in.DefaultValue != nil {
			a.DefaultValue = *in.DefaultValue
		}
	case f.Choice != nil:
		if in.RandomizeOptions != nil {
			f.Choice.RandomizeOptions = *in.RandomizeOptions
		}
	case f.Group != nil:
		g := f.Group
		setStr(&g.LayoutMode, in.ContainerLayoutMode)
		set(&g.GridColumns, in.ContainerGridColumns)
		set(&g.GridRows, in.ContainerGridRows)
		set(&g.GapPx, in.ContainerGapPx)
	}
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// CreateFieldRequest creates a field on a step. Without a position the
// field is auto-placed at the first free cell.
type CreateFieldRequest struct {
	StepID    string    `json:"step_id" binding:"required,uuid"`
	Key       string    `json:"key" binding:"required,max=64"`
	Label     string    `json:"label" binding:"max=300"`
	HelpText  string    `json:"help_text" binding:"max=1000"`
	Type      FieldType `json:"type" binding:"required,oneof=choice_single choice_multi input_text input_number input_email input_phone date slider group"`
	Required  bool      `json:"required"`
	IsVisible *bool     `json:"is_visible"`
	PositionInput
	FieldAttrsInput
}

// UpdateFieldRequest is a partial update of a field.
type UpdateFieldRequest struct {
	Key        *string    `json:"key" binding:"omitempty,min=1,max=64"`
	Label      *string    `json:"label" binding:"omitempty,max=300"`
	HelpText   *string    `json:"help_text" binding:"omitempty,max=1000"`
	Type       *FieldType `json:"type" binding:"omitempty,oneof=choice_single choice_multi input_text input_number input_email input_phone date slider group"`
	Required   *bool      `json:"required"`
	IsVisible  *bool      `json:"is_visible"`
	OrderIndex *int       `json:"order_index" binding:"omitempty,min=0"`
	PositionInput
	FieldAttrsInput
}

// MoveFieldRequest carries only a new placement.
type MoveFieldRequest struct {
	PositionInput
}
