// Package registry provides a global registry for game mode factories.
// Modes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-sonar/internal/core"
	"github.com/vovakirdan/tui-sonar/internal/sim"
)

// Game is the interface the platform drives.
// Games contain pure logic with no Bubble Tea dependency; the platform
// handles key mapping, timing and terminal output.
type Game interface {
	// ID returns a unique identifier (e.g., "classic", "hardcore").
	// Used for CLI commands and as the score table's game mode.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset builds the simulation for the given screen and seed.
	// Called once at start and again when the terminal is resized.
	Reset(cfg core.RuntimeConfig)

	// Press and Release report control transitions.
	Press(a core.Action)
	Release(a core.Action)

	// Pointer reports a mouse position in screen cells; click marks a press.
	Pointer(x, y int, click bool)

	// Step advances the simulation by dt nominal frames.
	Step(dt float64) core.StepResult

	// Render draws the current frame into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current platform-facing summary.
	State() core.GameState

	// Close releases background work. The game must not be stepped afterwards.
	Close()
}

// Env carries the collaborators a game may use. Every field is optional.
type Env struct {
	Scores       sim.ScoreSink
	Settings     sim.SettingsSource
	SettingsSink sim.SettingsSink
	Identity     sim.IdentitySource
	Sounder      sim.PulseSounder
	Logger       *log.Logger
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance bound to env.
type Factory func(env Env) Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	g := f(Env{})
	titles[id] = g.Title()
	g.Close()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string, env Env) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(env), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
