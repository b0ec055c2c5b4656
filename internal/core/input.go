package core

// Action represents a semantic game action, abstracted from physical key presses.
// The platform maps keys and mouse buttons to actions; games never see raw keys.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // W, Up arrow - climb / menu up
	ActionDown               // S, Down arrow - dive / menu down
	ActionLeft               // A, Left arrow - brake
	ActionRight              // D, Right arrow - push forward
	ActionPulse              // Space - sonar pulse, also starts a run
	ActionPause              // Esc, P - pause/unpause
	ActionConfirm            // Enter - activate menu selection
	ActionRestart            // R - restart after a crash
	ActionToggleSound        // M - toggle pulse audio
	ActionQuit               // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPulse:
		return "Pulse"
	case ActionPause:
		return "Pause"
	case ActionConfirm:
		return "Confirm"
	case ActionRestart:
		return "Restart"
	case ActionToggleSound:
		return "ToggleSound"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsHeld reports whether the action is a continuous control that stays
// active while its key is held, as opposed to a one-shot trigger.
func (a Action) IsHeld() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		return true
	}
	return false
}
