package control

// ActionType identifies the kind of engine call to make.
type ActionType string

const (
	// ActPress starts a drag at a position.
	ActPress ActionType = "press"
	// ActMove continues the active drag.
	ActMove ActionType = "move"
	// ActRelease ends the active drag.
	ActRelease ActionType = "release"
)

// Action describes one engine call in view pixels.
type Action struct {
	Type ActionType
	X    float64
	Y    float64
}
