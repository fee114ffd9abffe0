package control

import (
	"math"
	"time"
)

const (
	minMoveInterval = 16 * time.Millisecond
	minMoveDelta    = 2.0
)

// GestureState tracks the single pointer that owns the drag. Moves are
// throttled; the last throttled position is flushed on up.
type GestureState struct {
	active     bool
	pointer    int
	lastMoveAt time.Time
	lastX      float64
	lastY      float64
	now        func() time.Time
}

// NewGestureState returns a ready-to-use gesture tracker.
func NewGestureState() *GestureState {
	return &GestureState{now: time.Now}
}

// SetNowFunc overrides the clock used for throttling.
func (g *GestureState) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		g.now = fn
	}
}

// Active reports whether a pointer owns the drag.
func (g *GestureState) Active() bool {
	return g.active
}

// HandleDown processes a pointer down event. A second pointer is ignored
// while the first is still down.
func (g *GestureState) HandleDown(pointerID int, x, y float64) []Action {
	if g.active {
		return nil
	}
	g.active = true
	g.pointer = pointerID
	g.lastMoveAt = g.now()
	g.lastX = x
	g.lastY = y
	return []Action{{Type: ActPress, X: x, Y: y}}
}

// HandleMove processes a pointer move event.
func (g *GestureState) HandleMove(pointerID int, x, y float64) []Action {
	if !g.active || g.pointer != pointerID {
		return nil
	}

	now := g.now()
	if !g.lastMoveAt.IsZero() && now.Sub(g.lastMoveAt) < minMoveInterval {
		return nil
	}
	if math.Abs(x-g.lastX) < minMoveDelta && math.Abs(y-g.lastY) < minMoveDelta {
		return nil
	}

	g.lastMoveAt = now
	g.lastX = x
	g.lastY = y
	return []Action{{Type: ActMove, X: x, Y: y}}
}

// HandleUp processes a pointer up event. The up position is applied as a
// final move when it differs from the last one sent.
func (g *GestureState) HandleUp(pointerID int, x, y float64) []Action {
	if !g.active || g.pointer != pointerID {
		return nil
	}
	g.active = false
	if x != g.lastX || y != g.lastY {
		return []Action{{Type: ActMove, X: x, Y: y}, {Type: ActRelease, X: x, Y: y}}
	}
	return []Action{{Type: ActRelease, X: x, Y: y}}
}

// HandleCancel aborts the drag without applying the cancel position.
func (g *GestureState) HandleCancel(pointerID int) []Action {
	if !g.active || g.pointer != pointerID {
		return nil
	}
	g.active = false
	return []Action{{Type: ActRelease, X: g.lastX, Y: g.lastY}}
}

// Reset forgets any active pointer.
func (g *GestureState) Reset() {
	g.active = false
	g.lastMoveAt = time.Time{}
}
