package service

import (
	"errors"
	"fmt"

	"github.com/quizforge/quiz-cms-backend/internal/grid"
)

// Authoring rule violations. Handlers map each onto a response.ErrCode.
var (
	ErrGridCollision         = errors.New("grid collision detected")
	ErrGridFull              = errors.New("no free cell on the grid")
	ErrDuplicateFieldKey     = errors.New("field key already used in this version")
	ErrDuplicateOptionValue  = errors.New("option value already used in this field")
	ErrFieldKindMismatch     = errors.New("field kind does not allow this item")
	ErrTrafficWeightExceeded = errors.New("traffic weights exceed 100")
	ErrDefaultVersionLocked  = errors.New("default version cannot be removed while other versions exist")
	ErrQuizNotPublishable    = errors.New("quiz needs versions with exactly one default")
	ErrQuizNotPublished      = errors.New("quiz is not published")
	ErrInvalidStepOrder      = errors.New("order must list every step of the version exactly once")
	ErrInvalidReference      = errors.New("referenced record does not exist")
)

// CollisionError carries the pairs that blocked a layout change.
// errors.Is(err, ErrGridCollision) holds for it.
type CollisionError struct {
	Collisions []grid.Collision
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %d pair(s)", ErrGridCollision, len(e.Collisions))
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrGridCollision
}

func collisionError(cs []grid.Collision) error {
	grid.SortCollisions(cs)
	return &CollisionError{Collisions: cs}
}
