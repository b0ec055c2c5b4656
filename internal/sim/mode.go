package sim

// Mode is the top-level state of the game.
type Mode int

const (
	ModeStart  Mode = iota // Title screen, waiting for a start trigger
	ModePlay               // Simulation running
	ModePaused             // Frozen with the pause menu open
	ModeCrash              // Run ended, crash timer then menu
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStart:
		return "start"
	case ModePlay:
		return "play"
	case ModePaused:
		return "paused"
	case ModeCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ModeChange describes one state transition.
type ModeChange struct {
	From      Mode
	To        Mode
	Score     int
	HighScore int
}

// ModeListener observes transitions. Listeners run on the Step goroutine.
type ModeListener func(ModeChange)
