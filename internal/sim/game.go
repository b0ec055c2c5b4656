// Package sim implements the sonar flight simulation: a controllable body
// flying through an invisible, procedurally generated pillar field that a
// costly sonar pulse briefly reveals.
//
// The package is pure logic. The platform feeds Input, calls Step with a
// frame-rate-independent dt and draws from Snapshot. Score, settings and
// identity collaborators are optional and are only ever called
// asynchronously; their failures never interrupt a run.
package sim

import (
	"context"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/core"
)

// Options configures a Game. Zero collaborators are allowed.
type Options struct {
	Config   config.SonarConfig
	Seed     int64  // Master seed; each run derives its own
	GameMode string // Overrides Config.State.GameMode when set
	Player   string

	Scores   ScoreSink
	Settings SettingsSource
	Identity IdentitySource
	Sounder  PulseSounder
	Logger   *log.Logger
}

type listenerEntry struct {
	id int
	fn ModeListener
}

// Game is the START/PLAY/PAUSED/CRASH state machine around a World.
type Game struct {
	cfg      config.SonarConfig
	gameMode string
	player   string
	scores   ScoreSink
	sounder  PulseSounder
	logger   *log.Logger

	rng   *rand.Rand // Seeds every run's World
	world *World
	input *Input

	mode       Mode
	highScore  int
	submitted  bool    // Score already sent for the current run
	crashTimer float64 // Frames before the crash menu accepts input
	menuIndex  int
	settings   Settings

	listeners    []listenerEntry
	nextListener int

	ctx       context.Context
	cancel    context.CancelFunc
	bestCh    chan int
	settingCh chan Settings
	closed    bool
}

// New creates a game on the title screen and starts fetching settings and
// the player's best score in the background.
func New(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	gameMode := opts.GameMode
	if gameMode == "" {
		gameMode = opts.Config.State.GameMode
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:       opts.Config,
		gameMode:  gameMode,
		player:    opts.Player,
		scores:    opts.Scores,
		sounder:   opts.Sounder,
		logger:    logger,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		input:     NewInput(),
		mode:      ModeStart,
		settings:  DefaultSettings(),
		ctx:       ctx,
		cancel:    cancel,
		bestCh:    make(chan int, 4),
		settingCh: make(chan Settings, 4),
	}
	g.world = g.newWorld()

	if opts.Settings != nil {
		go g.fetchSettings(opts.Settings)
	}
	if opts.Identity != nil {
		go g.fetchBest(opts.Identity)
	}
	return g
}

// Input returns the tracker the platform feeds.
func (g *Game) Input() *Input { return g.input }

// Mode returns the current mode.
func (g *Game) Mode() Mode { return g.mode }

// World returns the current run.
func (g *Game) World() *World { return g.world }

// HighScore returns the best score known this session.
func (g *Game) HighScore() int { return g.highScore }

// GameMode returns the mode name used for score submission.
func (g *Game) GameMode() string { return g.gameMode }

// Settings returns the settings in effect.
func (g *Game) Settings() Settings { return g.settings }

// CrashTimer returns the frames left before the crash menu opens.
func (g *Game) CrashTimer() float64 { return g.crashTimer }

// MenuIndex returns the highlighted menu option.
func (g *Game) MenuIndex() int { return g.menuIndex }

// Submitted reports whether the current run's score was sent.
func (g *Game) Submitted() bool { return g.submitted }

// Subscribe registers a transition listener and returns its unsubscribe func.
func (g *Game) Subscribe(l ModeListener) (unsubscribe func()) {
	id := g.nextListener
	g.nextListener++
	g.listeners = append(g.listeners, listenerEntry{id: id, fn: l})
	return func() {
		for i, e := range g.listeners {
			if e.id == id {
				g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
				return
			}
		}
	}
}

// UpdateSettings applies new settings at the start of the next Step.
// Safe to call from any goroutine.
func (g *Game) UpdateSettings(s Settings) {
	select {
	case g.settingCh <- s.Normalize():
	default:
		g.logger.Debug("settings update dropped", "reason", "queue full")
	}
}

// Close stops background work, drops listeners and halts Step.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.cancel()
	g.listeners = nil
	g.input.Reset()
}

// Step advances the game by dt nominal frames.
func (g *Game) Step(dt float64) {
	if g.closed {
		return
	}
	dt = ClampDT(dt, g.cfg.Physics.MaxDT)
	g.drainAsync()

	switch g.mode {
	case ModeStart:
		g.stepStart()
	case ModePlay:
		g.stepPlay(dt)
	case ModePaused:
		g.stepPaused()
	case ModeCrash:
		g.stepCrash(dt)
	}
	g.input.endFrame()
}

func (g *Game) stepStart() {
	if g.input.Pressed(core.ActionPulse) || g.input.Pressed(core.ActionConfirm) {
		g.startRun()
	}
}

func (g *Game) stepPlay(dt float64) {
	in := g.input
	if in.Pressed(core.ActionPause) {
		g.menuIndex = 0
		g.setMode(ModePaused)
		return
	}
	if in.Pressed(core.ActionPulse) && g.world.TriggerPulse() {
		g.playPulse()
	}
	if g.world.Update(dt, in.Thrust()) {
		g.enterCrash()
	}
}

func (g *Game) stepPaused() {
	if g.input.Pressed(core.ActionPause) {
		g.setMode(ModePlay)
		return
	}
	g.handleMenu(pauseMenu)
}

func (g *Game) stepCrash(dt float64) {
	if g.input.Pressed(core.ActionRestart) {
		g.startRun()
		return
	}
	if g.crashTimer > 0 {
		g.crashTimer -= dt
		if g.crashTimer < 0 {
			g.crashTimer = 0
		}
		return
	}
	g.handleMenu(crashMenu)
}

// MenuOptions returns the options currently on screen, if any.
func (g *Game) MenuOptions() []MenuOption {
	switch {
	case g.mode == ModePaused:
		return pauseMenu
	case g.mode == ModeCrash && g.crashTimer <= 0:
		return crashMenu
	}
	return nil
}

func (g *Game) handleMenu(opts []MenuOption) {
	in := g.input
	n := len(opts)
	g.menuIndex = wrapIndex(g.menuIndex, 0, n)

	if in.Pressed(core.ActionUp) {
		g.menuIndex = wrapIndex(g.menuIndex, -1, n)
	}
	if in.Pressed(core.ActionDown) {
		g.menuIndex = wrapIndex(g.menuIndex, 1, n)
	}

	boxes := MenuLayout(n, g.cfg.World.Width, g.cfg.World.Height)
	if x, y, ok := in.Hover(); ok {
		for i, b := range boxes {
			if b.Contains(x, y) {
				g.menuIndex = i
			}
		}
	}
	if x, y, ok := in.Click(); ok {
		for i, b := range boxes {
			if b.Contains(x, y) {
				g.menuIndex = i
				g.activate(opts[i])
				return
			}
		}
	}

	if in.Pressed(core.ActionConfirm) || in.Pressed(core.ActionPulse) {
		g.activate(opts[g.menuIndex])
	}
}

func (g *Game) activate(opt MenuOption) {
	switch opt {
	case MenuResume:
		g.setMode(ModePlay)
	case MenuRestart:
		g.startRun()
	case MenuMainMenu:
		g.resetRun()
		g.setMode(ModeStart)
	}
}

// startRun discards the current run and begins a new one.
func (g *Game) startRun() {
	g.resetRun()
	g.setMode(ModePlay)
}

func (g *Game) resetRun() {
	g.world = g.newWorld()
	g.submitted = false
	g.crashTimer = 0
	g.menuIndex = 0
}

func (g *Game) newWorld() *World {
	return NewWorld(g.cfg, g.rng.Int63())
}

// enterCrash ends the run: high score, one submission, crash timer.
func (g *Game) enterCrash() {
	g.crashTimer = g.cfg.State.CrashFrames
	g.menuIndex = 0
	if g.world.Score > g.highScore {
		g.highScore = g.world.Score
	}
	g.submitScore()
	g.setMode(ModeCrash)
}

func (g *Game) setMode(m Mode) {
	if m == g.mode {
		return
	}
	change := ModeChange{
		From:      g.mode,
		To:        m,
		Score:     g.world.Score,
		HighScore: g.highScore,
	}
	g.mode = m
	g.logger.Debug("mode change", "from", change.From, "to", change.To, "score", change.Score)

	for _, e := range append([]listenerEntry(nil), g.listeners...) {
		e.fn(change)
	}
}

func (g *Game) playPulse() {
	if g.sounder == nil || !g.settings.PulseAudioEnabled {
		return
	}
	g.sounder.PlayPulse(g.settings.Volume())
}

// submitScore sends the run's score at most once.
func (g *Game) submitScore() {
	if g.submitted {
		return
	}
	g.submitted = true
	if g.scores == nil {
		return
	}

	sub := ScoreSubmission{Score: g.world.Score, GameMode: g.gameMode, Player: g.player}
	go func() {
		best, err := g.scores.SubmitScore(g.ctx, sub)
		if err != nil {
			g.logger.Debug("score submission failed", "score", sub.Score, "err", err)
			return
		}
		g.sendBest(best)
	}()
}

func (g *Game) fetchSettings(src SettingsSource) {
	s, err := src.FetchSettings(g.ctx, g.player)
	if err != nil {
		g.logger.Debug("settings fetch failed", "err", err)
		return
	}
	select {
	case g.settingCh <- s.Normalize():
	case <-g.ctx.Done():
	}
}

func (g *Game) fetchBest(src IdentitySource) {
	best, err := src.BestScore(g.ctx, g.player)
	if err != nil {
		g.logger.Debug("best score fetch failed", "player", g.player, "err", err)
		return
	}
	g.sendBest(best)
}

func (g *Game) sendBest(best int) {
	select {
	case g.bestCh <- best:
	case <-g.ctx.Done():
	}
}

// drainAsync adopts results that arrived since the last frame without blocking.
func (g *Game) drainAsync() {
	for {
		select {
		case best := <-g.bestCh:
			if best > g.highScore {
				g.highScore = best
			}
		case s := <-g.settingCh:
			g.settings = s
		default:
			return
		}
	}
}
