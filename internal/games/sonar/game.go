// Package sonar adapts the sonar flight simulation to the platform's game
// interface. It owns config loading, key and pointer translation and the
// terminal rendering of simulation snapshots.
package sonar

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/core"
	"github.com/vovakirdan/tui-sonar/internal/registry"
	"github.com/vovakirdan/tui-sonar/internal/sim"
)

// Registered game modes.
const (
	ModeClassic  = "classic"
	ModeHardcore = "hardcore"
)

const settingsSaveTimeout = 5 * time.Second

// Game runs one sonar flight mode inside the platform.
type Game struct {
	id     string
	title  string
	preset config.DifficultyPreset
	env    registry.Env
	logger *log.Logger

	rt  core.RuntimeConfig
	cfg config.SonarConfig
	sim *sim.Game
}

// New creates a game mode. The simulation is built on the first Reset.
func New(id, title string, preset config.DifficultyPreset, env registry.Env) *Game {
	logger := env.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		id:     id,
		title:  title,
		preset: preset,
		env:    env,
		logger: logger.WithPrefix(id),
	}
}

// ID returns the mode identifier, also used as the score table's game mode.
func (g *Game) ID() string { return g.id }

// Title returns the display name.
func (g *Game) Title() string { return g.title }

// Reset adopts the runtime config. The simulation is rebuilt only when the
// seed, player, config file or difficulty changed; a terminal resize just
// rescales the output since the simulated viewport has a fixed size.
func (g *Game) Reset(rt core.RuntimeConfig) {
	rebuild := g.sim == nil ||
		rt.Seed != g.rt.Seed ||
		rt.Player != g.rt.Player ||
		rt.ConfigPath != g.rt.ConfigPath ||
		rt.Difficulty != g.rt.Difficulty
	g.rt = rt
	if !rebuild {
		return
	}

	if g.sim != nil {
		g.sim.Close()
	}
	g.cfg = g.loadConfig(rt)
	g.sim = sim.New(sim.Options{
		Config:   g.cfg,
		Seed:     rt.Seed,
		GameMode: g.id,
		Player:   rt.Player,
		Scores:   g.env.Scores,
		Settings: g.env.Settings,
		Identity: g.env.Identity,
		Sounder:  g.env.Sounder,
		Logger:   g.logger,
	})
}

func (g *Game) loadConfig(rt core.RuntimeConfig) config.SonarConfig {
	cfg, err := config.LoadSonar(rt.ConfigPath)
	if err != nil {
		g.logger.Warn("config load failed, using defaults", "path", rt.ConfigPath, "err", err)
	}

	preset := g.preset
	if rt.Difficulty != "" {
		p, err := config.ParsePreset(rt.Difficulty)
		if err != nil {
			g.logger.Warn("ignoring difficulty", "err", err)
		} else {
			preset = p
		}
	}
	config.ApplySonarPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		g.logger.Warn("config invalid after preset, using defaults", "preset", preset, "err", err)
		cfg = config.DefaultSonarConfig()
		config.ApplySonarPreset(&cfg, preset)
	}
	return cfg
}

// Sim exposes the underlying simulation, e.g. for spectator snapshots.
func (g *Game) Sim() *sim.Game { return g.sim }

// Snapshot returns the current frame for external viewers.
func (g *Game) Snapshot() sim.Snapshot { return g.sim.Snapshot() }

// Press reports a control going down.
func (g *Game) Press(a core.Action) {
	if g.sim == nil {
		return
	}
	switch a {
	case core.ActionNone, core.ActionQuit:
	case core.ActionToggleSound:
		g.toggleSound()
	default:
		g.sim.Input().KeyDown(a)
	}
}

// Release reports a control going up.
func (g *Game) Release(a core.Action) {
	if g.sim == nil {
		return
	}
	g.sim.Input().KeyUp(a)
}

// Pointer maps a screen cell to viewport coordinates. Row 0 is the HUD.
func (g *Game) Pointer(x, y int, click bool) {
	if g.sim == nil {
		return
	}
	vx, vy, ok := g.cellToViewport(x, y)
	if !ok {
		return
	}
	if click {
		g.sim.Input().PointerClick(vx, vy)
		return
	}
	g.sim.Input().PointerMove(vx, vy)
}

func (g *Game) cellToViewport(x, y int) (vx, vy float64, ok bool) {
	fieldH := g.rt.ScreenH - hudRows
	if g.rt.ScreenW <= 0 || fieldH <= 0 || y < hudRows {
		return 0, 0, false
	}
	vx = (float64(x) + 0.5) * g.cfg.World.Width / float64(g.rt.ScreenW)
	vy = (float64(y-hudRows) + 0.5) * g.cfg.World.Height / float64(fieldH)
	return vx, vy, true
}

// toggleSound flips pulse audio and persists the change in the background.
func (g *Game) toggleSound() {
	s := g.sim.Settings()
	s.PulseAudioEnabled = !s.PulseAudioEnabled
	g.sim.UpdateSettings(s)

	if g.env.SettingsSink == nil {
		return
	}
	player := g.rt.Player
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), settingsSaveTimeout)
		defer cancel()
		if err := g.env.SettingsSink.SaveSettings(ctx, player, s); err != nil {
			g.logger.Debug("settings save failed", "err", err)
		}
	}()
}

// Step advances the simulation.
func (g *Game) Step(dt float64) core.StepResult {
	if g.sim == nil {
		return core.StepResult{}
	}
	g.sim.Step(dt)
	return core.StepResult{State: g.State()}
}

// State returns the platform-facing summary.
func (g *Game) State() core.GameState {
	if g.sim == nil {
		return core.GameState{}
	}
	mode := g.sim.Mode()
	return core.GameState{
		Score:     g.sim.World().Score,
		HighScore: g.sim.HighScore(),
		Mode:      mode.String(),
		GameOver:  mode == sim.ModeCrash,
		Paused:    mode == sim.ModePaused,
	}
}

// Close stops the simulation's background work.
func (g *Game) Close() {
	if g.sim != nil {
		g.sim.Close()
	}
}

func init() {
	registry.Register(ModeClassic, func(env registry.Env) registry.Game {
		return New(ModeClassic, "Sonar Flight", config.DifficultyNormal, env)
	})
	registry.Register(ModeHardcore, func(env registry.Env) registry.Game {
		return New(ModeHardcore, "Sonar Flight: Hardcore", config.DifficultyHard, env)
	})
}
