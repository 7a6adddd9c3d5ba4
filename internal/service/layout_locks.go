package service

import (
	"sync"

	"github.com/google/uuid"
)

// LayoutLocks serializes check-then-write layout changes per grid. Steps are
// keyed by step id and group containers by their field id. One instance must
// be shared by every service that writes to the same grids, otherwise a
// resize and a move can both pass their checks.
//
// When both are needed, take the step lock before the group lock.
type LayoutLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*gridLock
}

type gridLock struct {
	sync.Mutex
	refs int
}

func NewLayoutLocks() *LayoutLocks {
	return &LayoutLocks{locks: make(map[uuid.UUID]*gridLock)}
}

// lock acquires the grid's mutex and returns its release func.
func (l *LayoutLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	gl, ok := l.locks[id]
	if !ok {
		gl = &gridLock{}
		l.locks[id] = gl
	}
	gl.refs++
	l.mu.Unlock()

	gl.Lock()
	return func() {
		gl.Unlock()
		l.mu.Lock()
		gl.refs--
		if gl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
