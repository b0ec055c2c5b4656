package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-sonar/internal/core"
	"github.com/vovakirdan/tui-sonar/internal/registry"
	"github.com/vovakirdan/tui-sonar/internal/sim"
)

const (
	// holdWindow keeps a movement key held after its last key event.
	// Terminals report presses and autorepeats but never releases.
	holdWindow = 300 * time.Millisecond

	// maxFrameDT caps a single frame's time step after a stall.
	maxFrameDT = 3.0

	footerRows = 1
)

// Snapshotter is implemented by games that expose render snapshots.
type Snapshotter interface {
	Snapshot() sim.Snapshot
}

// Publisher receives snapshots for external viewers.
type Publisher interface {
	Publish(snap sim.Snapshot)
}

// Options tune a game model.
type Options struct {
	Publisher    Publisher   // Optional spectator feed
	PublishEvery int         // Publish every Nth frame (default 2)
	Embedded     bool        // "q" returns to the picker instead of exiting
	Logger       *log.Logger // Optional
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	config    core.RuntimeConfig
	clock     *sim.Clock
	keyMapper *KeyMapper
	help      help.Model
	held      map[core.Action]time.Time // release deadline, zero means after the next tick
	gameState core.GameState
	opts      Options
	logger    *log.Logger
	frames    *uint64
	footer    bool // Terminal is tall enough for the help line

	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.PublishEvery <= 0 {
		opts.PublishEvery = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = cfg.ScreenW
	footer := cfg.ScreenH > footerRows+1
	cfg.ScreenH = fieldHeight(cfg.ScreenH)

	return Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		clock:     sim.NewClock(cfg.TickRate, maxFrameDT),
		keyMapper: NewKeyMapper(),
		help:      h,
		held:      make(map[core.Action]time.Time),
		opts:      opts,
		logger:    logger,
		frames:    new(uint64),
		footer:    footer,
	}
}

// fieldHeight is the game's share of the terminal after the help footer.
func fieldHeight(h int) int {
	if h > footerRows+1 {
		return h - footerRows
	}
	return h
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		if m.opts.Embedded && msg.String() != "ctrl+c" {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionNone {
		return m, nil
	}

	m.press(action, now)
	return m, nil
}

// press delivers a fresh key event. Release first so that autorepeat of an
// already held key still registers as a new press in menus.
func (m Model) press(a core.Action, now time.Time) {
	m.game.Release(a)
	m.game.Press(a)

	switch {
	case a == core.ActionToggleSound:
	case a.IsHeld():
		m.held[a] = now.Add(holdWindow)
	default:
		m.held[a] = time.Time{}
	}
}

// releaseExpired lets go of one-shot actions after a tick has seen them and
// of movement keys whose hold window ran out.
func (m Model) releaseExpired(now time.Time) {
	for a, deadline := range m.held {
		if deadline.IsZero() || !now.Before(deadline) {
			m.game.Release(a)
			delete(m.held, a)
		}
	}
}

// handleMouse forwards pointer motion and left clicks.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionMotion:
		m.game.Pointer(msg.X, msg.Y, false)
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.game.Pointer(msg.X, msg.Y, true)
		}
	}
	return m, nil
}

// handleResize processes window resize events. The game keeps its run; only
// the output scale changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = fieldHeight(msg.Height)
	m.footer = msg.Height > footerRows+1
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width
	m.game.Reset(m.config)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.clock.Advance(now)
	result := m.game.Step(dt)
	m.gameState = result.State

	m.releaseExpired(now)
	m.publish()

	return m, tickCmd(m.config.TickRate)
}

// publish forwards a snapshot to the spectator feed every few frames.
func (m Model) publish() {
	if m.opts.Publisher == nil {
		return
	}
	*m.frames++
	if *m.frames%uint64(m.opts.PublishEvery) != 0 {
		return
	}
	if s, ok := m.game.(Snapshotter); ok {
		m.opts.Publisher.Publish(s.Snapshot())
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Debug("screenshot skipped", "err", err)
		return
	}
	dir := filepath.Join(home, ".sonar", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Debug("screenshot failed", "path", path, "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	out := RenderScreen(m.screen)
	if m.footer {
		return out + "\n" + footerStyle.Render(m.help.View(m.keyMapper.Keys()))
	}
	return out
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the picker.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game and closes the game
// when the program exits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	defer game.Close()

	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(), // Hover selects menu entries
	)

	_, err := p.Run()
	return err
}
