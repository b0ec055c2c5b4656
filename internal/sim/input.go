package sim

import "github.com/vovakirdan/tui-sonar/internal/core"

// Input tracks held controls, one-shot triggers and the pointer between frames.
// It is owned by the goroutine that calls Game.Step.
type Input struct {
	held    map[core.Action]bool
	pressed map[core.Action]bool // edges since the last frame

	pointerX, pointerY float64
	hovered            bool // pointer moved since the last frame
	clickX, clickY     float64
	clicked            bool
}

// NewInput creates an empty input tracker.
func NewInput() *Input {
	return &Input{
		held:    make(map[core.Action]bool),
		pressed: make(map[core.Action]bool),
	}
}

// KeyDown marks an action as held. A transition from released records a press edge.
func (in *Input) KeyDown(a core.Action) {
	if !in.held[a] {
		in.pressed[a] = true
	}
	in.held[a] = true
}

// KeyUp releases an action.
func (in *Input) KeyUp(a core.Action) {
	delete(in.held, a)
}

// PointerMove records the pointer position in viewport coordinates.
func (in *Input) PointerMove(x, y float64) {
	in.pointerX, in.pointerY = x, y
	in.hovered = true
}

// PointerClick records a click in viewport coordinates.
func (in *Input) PointerClick(x, y float64) {
	in.PointerMove(x, y)
	in.clickX, in.clickY = x, y
	in.clicked = true
}

// Held reports whether the action is currently held.
func (in *Input) Held(a core.Action) bool {
	return in.held[a]
}

// Pressed reports whether the action was pressed since the last frame.
func (in *Input) Pressed(a core.Action) bool {
	return in.pressed[a]
}

// Thrust returns the movement controls currently held.
func (in *Input) Thrust() Thrust {
	return Thrust{
		Up:    in.held[core.ActionUp],
		Down:  in.held[core.ActionDown],
		Left:  in.held[core.ActionLeft],
		Right: in.held[core.ActionRight],
	}
}

// Hover returns the pointer position if it moved since the last frame.
func (in *Input) Hover() (x, y float64, ok bool) {
	return in.pointerX, in.pointerY, in.hovered
}

// Click returns the click position if a click happened since the last frame.
func (in *Input) Click() (x, y float64, ok bool) {
	return in.clickX, in.clickY, in.clicked
}

// endFrame drops edge state once a frame has consumed it.
func (in *Input) endFrame() {
	clear(in.pressed)
	in.hovered = false
	in.clicked = false
}

// Reset releases everything.
func (in *Input) Reset() {
	clear(in.held)
	in.endFrame()
}
