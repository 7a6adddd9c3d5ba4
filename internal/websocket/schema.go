package websocket

import "github.com/quizforge/quiz-cms-backend/internal/grid"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionCheck Action = "check"
	ActionPing  Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// CheckRequest asks whether a placement would collide on the connected step.
// FieldID is empty for a field that has not been created yet.
type CheckRequest struct {
	Action  Action `json:"action"`
	FieldID string `json:"field_id"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	RowSpan int    `json:"row_span"`
	ColSpan int    `json:"col_span"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError       Event = "error"
	EventPong        Event = "pong"
	EventCheckResult Event = "check_result"
	EventLayout      Event = "layout"
)

// LayoutChange names what happened to a field on a step grid.
type LayoutChange string

const (
	FieldCreated LayoutChange = "field_created"
	FieldMoved   LayoutChange = "field_moved"
	FieldUpdated LayoutChange = "field_updated"
	FieldDeleted LayoutChange = "field_deleted"
)

// LayoutEvent is published on a step's layout channel after a field change
// is persisted and relayed verbatim to every connected editor.
type LayoutEvent struct {
	Event   Event        `json:"event"`
	Change  LayoutChange `json:"change"`
	StepID  string       `json:"step_id"`
	FieldID string       `json:"field_id"`
	Row     int          `json:"row,omitempty"`
	Col     int          `json:"col,omitempty"`
	RowSpan int          `json:"row_span,omitempty"`
	ColSpan int          `json:"col_span,omitempty"`
}

type CheckResponse struct {
	Event        Event            `json:"event"`
	WouldCollide bool             `json:"would_collide"`
	Collisions   []grid.Collision `json:"collisions"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
