package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and to seed procedural generation.
type RuntimeConfig struct {
	ScreenW    int    // Screen width in characters
	ScreenH    int    // Screen height in characters
	TickRate   int    // Frames per second the platform aims for (default 60)
	Seed       int64  // RNG seed; 0 means use current time in platform layer
	Player     string // Identity used for score submission and settings
	ConfigPath string // Optional path to a custom game config YAML
	Difficulty string // Optional difficulty preset name
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
		Player:   "guest",
	}
}

// GameState is the platform-facing summary of a running game.
type GameState struct {
	Score     int    // Current score
	HighScore int    // Best score known for this player
	Mode      string // Simulation mode name (start, play, paused, crash)
	GameOver  bool   // Whether the run has ended
	Paused    bool   // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation frame.
type StepResult struct {
	State GameState
}
