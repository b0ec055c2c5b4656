package sim

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/core"
)

type fakeSink struct {
	calls chan ScoreSubmission
	best  int
	err   error
}

func newFakeSink(best int, err error) *fakeSink {
	return &fakeSink{calls: make(chan ScoreSubmission, 16), best: best, err: err}
}

func (f *fakeSink) SubmitScore(_ context.Context, s ScoreSubmission) (int, error) {
	f.calls <- s
	return f.best, f.err
}

type fakeSettings struct{ s Settings }

func (f fakeSettings) FetchSettings(context.Context, string) (Settings, error) { return f.s, nil }

type fakeIdentity struct{ best int }

func (f fakeIdentity) BestScore(context.Context, string) (int, error) { return f.best, nil }

type fakeSounder struct {
	mu      sync.Mutex
	volumes []float64
}

func (f *fakeSounder) PlayPulse(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volumes = append(f.volumes, v)
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == (config.SonarConfig{}) {
		opts.Config = config.DefaultSonarConfig()
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	g := New(opts)
	t.Cleanup(g.Close)
	return g
}

// press records a one-shot action for the next Step.
func press(g *Game, a core.Action) {
	g.Input().KeyDown(a)
	g.Input().KeyUp(a)
}

func startRun(t *testing.T, g *Game) {
	t.Helper()
	press(g, core.ActionPulse)
	g.Step(1)
	if g.Mode() != ModePlay {
		t.Fatalf("Mode() = %v after start trigger, expected play", g.Mode())
	}
}

func runUntilCrash(t *testing.T, g *Game, limit int) int {
	t.Helper()
	for i := 0; i < limit; i++ {
		if g.Mode() == ModeCrash {
			return i
		}
		g.Step(1)
	}
	if g.Mode() != ModeCrash {
		t.Fatalf("no crash within %d frames", limit)
	}
	return limit
}

// waitFor steps with dt=0 until cond holds, letting async results land.
func waitFor(t *testing.T, g *Game, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		g.Step(0)
		time.Sleep(time.Millisecond)
	}
}

func TestStartTriggers(t *testing.T) {
	for _, a := range []core.Action{core.ActionPulse, core.ActionConfirm} {
		g := newTestGame(t, Options{})
		if g.Mode() != ModeStart {
			t.Fatalf("new game Mode() = %v, expected start", g.Mode())
		}
		g.Step(1)
		if g.Mode() != ModeStart {
			t.Errorf("game left start without input")
		}
		press(g, a)
		g.Step(1)
		if g.Mode() != ModePlay {
			t.Errorf("%v: Mode() = %v, expected play", a, g.Mode())
		}
	}
}

func TestStartPulseDoesNotSpendEnergy(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	if g.World().Pulse.Energy() != g.World().Pulse.MaxEnergy() {
		t.Errorf("start trigger spent energy: %v", g.World().Pulse.Energy())
	}
}

func TestPauseAndResume(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	g.Step(1)

	press(g, core.ActionPause)
	g.Step(1)
	if g.Mode() != ModePaused {
		t.Fatalf("Mode() = %v, expected paused", g.Mode())
	}

	frozen := g.Snapshot()
	for i := 0; i < 30; i++ {
		g.Step(1)
	}
	if !reflect.DeepEqual(frozen, g.Snapshot()) {
		t.Error("world advanced while paused")
	}

	press(g, core.ActionPause)
	g.Step(1)
	if g.Mode() != ModePlay {
		t.Errorf("Mode() = %v after second pause press, expected play", g.Mode())
	}
}

func TestPauseMenuNavigation(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	press(g, core.ActionPause)
	g.Step(1)

	if !reflect.DeepEqual(g.MenuOptions(), []MenuOption{MenuResume, MenuRestart, MenuMainMenu}) {
		t.Fatalf("MenuOptions() = %v", g.MenuOptions())
	}

	steps := []struct {
		action   core.Action
		expected int
	}{
		{core.ActionUp, 2},
		{core.ActionUp, 1},
		{core.ActionDown, 2},
		{core.ActionDown, 0},
		{core.ActionDown, 1},
	}
	for _, s := range steps {
		press(g, s.action)
		g.Step(1)
		if g.MenuIndex() != s.expected {
			t.Fatalf("after %v MenuIndex() = %d, expected %d", s.action, g.MenuIndex(), s.expected)
		}
	}

	press(g, core.ActionConfirm)
	g.Step(1)
	if g.Mode() != ModePlay || g.World().Score != 0 {
		t.Errorf("Restart: mode %v score %d, expected a fresh run", g.Mode(), g.World().Score)
	}
}

func TestMenuPointer(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	for i := 0; i < 60; i++ {
		g.Step(1)
		if g.Mode() != ModePlay {
			t.Skip("crashed before the menu could be opened")
		}
	}
	press(g, core.ActionPause)
	g.Step(1)

	cfg := config.DefaultSonarConfig()
	boxes := MenuLayout(3, cfg.World.Width, cfg.World.Height)

	g.Input().PointerMove(boxes[1].X+5, boxes[1].Y+5)
	g.Step(1)
	if g.MenuIndex() != 1 {
		t.Fatalf("hover MenuIndex() = %d, expected 1", g.MenuIndex())
	}

	// A pointer resting outside every box leaves keyboard selection alone.
	g.Input().PointerMove(0, 0)
	press(g, core.ActionDown)
	g.Step(1)
	if g.MenuIndex() != 2 {
		t.Fatalf("MenuIndex() = %d, expected 2", g.MenuIndex())
	}

	g.Input().PointerClick(boxes[2].X+5, boxes[2].Y+5)
	g.Step(1)
	if g.Mode() != ModeStart {
		t.Fatalf("Main Menu click: Mode() = %v, expected start", g.Mode())
	}
	if g.World().Scroll != 0 || g.World().Score != 0 {
		t.Errorf("main menu kept the old run: scroll %v", g.World().Scroll)
	}
}

func TestMenuLayoutStacksWithinViewport(t *testing.T) {
	boxes := MenuLayout(3, 960, 600)
	for i, b := range boxes {
		if b.X < 0 || b.Y < 0 || b.X+b.W > 960 || b.Y+b.H > 600 {
			t.Errorf("box %d %+v outside viewport", i, b)
		}
		if i > 0 && b.Y <= boxes[i-1].Y+boxes[i-1].H {
			t.Errorf("box %d overlaps box %d", i, i-1)
		}
	}
	if MenuLayout(0, 960, 600) != nil {
		t.Error("MenuLayout(0) should be nil")
	}
}

func TestIdleRunCrashes(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)

	crashedAt := runUntilCrash(t, g, 1000)
	for i := crashedAt; i < 1000; i++ {
		g.Step(1)
	}

	if g.Mode() != ModeCrash {
		t.Fatalf("Mode() = %v, expected crash", g.Mode())
	}
	if g.CrashTimer() != 0 {
		t.Errorf("CrashTimer() = %v, expected 0", g.CrashTimer())
	}
	if !reflect.DeepEqual(g.MenuOptions(), []MenuOption{MenuRestart, MenuMainMenu}) {
		t.Errorf("MenuOptions() = %v, expected [Restart Main Menu]", g.MenuOptions())
	}
}

func TestCrashTimerGatesMenu(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	runUntilCrash(t, g, 1000)

	if g.MenuOptions() != nil {
		t.Fatal("crash menu open before the timer ran out")
	}
	press(g, core.ActionConfirm)
	g.Step(1)
	if g.Mode() != ModeCrash {
		t.Fatalf("confirm accepted during crash timer, Mode() = %v", g.Mode())
	}

	press(g, core.ActionRestart)
	g.Step(1)
	if g.Mode() != ModePlay {
		t.Fatalf("restart during crash timer: Mode() = %v, expected play", g.Mode())
	}
	if g.Submitted() {
		t.Error("new run starts with submitted set")
	}
}

func TestScoreSubmittedOnce(t *testing.T) {
	sink := newFakeSink(0, nil)
	g := newTestGame(t, Options{Scores: sink, Player: "ava", GameMode: "classic"})
	startRun(t, g)
	runUntilCrash(t, g, 1000)
	score := g.World().Score

	for i := 0; i < 300; i++ {
		g.Step(1)
	}
	g.enterCrash()

	select {
	case sub := <-sink.calls:
		if sub.Score != score || sub.GameMode != "classic" || sub.Player != "ava" {
			t.Errorf("submission = %+v, expected score %d classic ava", sub, score)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no score submitted")
	}
	select {
	case sub := <-sink.calls:
		t.Errorf("second submission %+v", sub)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmissionBestAdopted(t *testing.T) {
	sink := newFakeSink(9999, nil)
	g := newTestGame(t, Options{Scores: sink})
	startRun(t, g)
	runUntilCrash(t, g, 1000)

	waitFor(t, g, func() bool { return g.HighScore() == 9999 })
}

func TestSubmissionFailureIsSwallowed(t *testing.T) {
	sink := newFakeSink(0, errors.New("network down"))
	g := newTestGame(t, Options{Scores: sink})
	startRun(t, g)
	runUntilCrash(t, g, 1000)
	<-sink.calls

	for i := 0; i < 200; i++ {
		g.Step(1)
	}
	if g.Mode() != ModeCrash {
		t.Errorf("Mode() = %v after failed submission, expected crash", g.Mode())
	}
	if g.HighScore() != g.World().Score {
		t.Errorf("HighScore() = %d, expected local score %d", g.HighScore(), g.World().Score)
	}
}

func TestIdentitySeedsHighScore(t *testing.T) {
	g := newTestGame(t, Options{Identity: fakeIdentity{best: 500}})
	waitFor(t, g, func() bool { return g.HighScore() == 500 })
}

func TestPulseSoundFollowsSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		volumes  []float64
	}{
		{"enabled", Settings{PulseAudioEnabled: true, PulseVolume: 80}, []float64{0.8}},
		{"disabled", Settings{PulseAudioEnabled: false, PulseVolume: 80}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snd := &fakeSounder{}
			g := newTestGame(t, Options{Settings: fakeSettings{s: tt.settings}, Sounder: snd})
			waitFor(t, g, func() bool { return g.Settings() == tt.settings })

			startRun(t, g)
			press(g, core.ActionPulse)
			g.Step(1)

			if !reflect.DeepEqual(snd.volumes, tt.volumes) {
				t.Errorf("played volumes %v, expected %v", snd.volumes, tt.volumes)
			}
		})
	}
}

func TestUpdateSettings(t *testing.T) {
	g := newTestGame(t, Options{})
	g.UpdateSettings(Settings{PulseAudioEnabled: false, PulseVolume: 250})
	g.Step(0)
	if got := g.Settings(); got != (Settings{PulseAudioEnabled: false, PulseVolume: 100}) {
		t.Errorf("Settings() = %+v, expected disabled at 100", got)
	}
}

func TestPulseWithLowEnergy(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	g.World().Pulse.SetEnergy(21)

	press(g, core.ActionPulse)
	g.Step(0)

	if n := len(g.World().Pulse.Rings()); n != 0 {
		t.Errorf("%d rings after a pulse with 21 energy, expected 0", n)
	}
	if e := g.World().Pulse.Energy(); e != 21 {
		t.Errorf("Energy() = %v, expected 21", e)
	}
}

func TestPlasmaRefills(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	w := g.World()
	w.Pulse.SetEnergy(10)

	c := w.BodyCenter()
	w.Powerups.items = append(w.Powerups.items, &Powerup{X: c.X(), Y: c.Y(), Kind: PowerupPlasma})
	g.Step(0)

	if e := w.Pulse.Energy(); e != w.Pulse.MaxEnergy() {
		t.Errorf("Energy() = %v after plasma, expected %v", e, w.Pulse.MaxEnergy())
	}
}

func TestImmunityPreventsCrash(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	w := g.World()
	w.Effects.GrantImmunity(300)
	w.Body.Y = -50

	for i := 0; i < 100; i++ {
		g.Step(1)
	}
	if g.Mode() != ModePlay {
		t.Fatalf("invulnerable body crashed, Mode() = %v", g.Mode())
	}
	if w.Body.Y < 0 || w.Body.Y+w.Body.H > 600 {
		t.Errorf("invulnerable body left the viewport: y=%v", w.Body.Y)
	}
}

func TestFireballFromPickup(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	w := g.World()
	c := w.BodyCenter()
	w.Powerups.items = append(w.Powerups.items, &Powerup{X: c.X(), Y: c.Y(), Kind: PowerupFireball})
	g.Step(0)
	if !w.Effects.Fireball {
		t.Fatal("fireball pickup did not arm")
	}

	press(g, core.ActionPulse)
	g.Step(0)
	if w.Effects.Fireball {
		t.Error("fireball still armed after pulse")
	}
	destructive := 0
	for _, r := range w.Pulse.Rings() {
		if r.Destructive {
			destructive++
		}
	}
	if destructive != 1 {
		t.Errorf("%d destructive rings, expected 1", destructive)
	}
}

func TestDestroyedObstacleLeavesSnapshot(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	obs := g.World().Obstacles.Obstacles()
	if len(obs) == 0 {
		t.Fatal("no obstacles generated")
	}
	before := len(g.Snapshot().Obstacles)
	obs[0].destroy()

	if after := len(g.Snapshot().Obstacles); after != before-1 {
		t.Errorf("snapshot has %d obstacles, expected %d", after, before-1)
	}
}

func TestZeroDTStepIsIdempotent(t *testing.T) {
	a := newTestGame(t, Options{Seed: 7})
	b := newTestGame(t, Options{Seed: 7})
	startRun(t, a)
	startRun(t, b)

	for i := 0; i < 120; i++ {
		for _, g := range []*Game{a, b} {
			if i%20 == 0 {
				press(g, core.ActionPulse)
			}
			if i%3 == 0 {
				g.Input().KeyDown(core.ActionUp)
			} else {
				g.Input().KeyUp(core.ActionUp)
			}
		}
		a.Step(1)
		b.Step(1)
		b.Step(0)

		if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
			t.Fatalf("frame %d: Step(dt) then Step(0) differs from Step(dt)", i)
		}
	}
}

func TestModeListeners(t *testing.T) {
	g := newTestGame(t, Options{})
	var changes []ModeChange
	unsubscribe := g.Subscribe(func(c ModeChange) { changes = append(changes, c) })

	startRun(t, g)
	press(g, core.ActionPause)
	g.Step(1)
	unsubscribe()
	press(g, core.ActionPause)
	g.Step(1)

	expected := []struct{ from, to Mode }{
		{ModeStart, ModePlay},
		{ModePlay, ModePaused},
	}
	if len(changes) != len(expected) {
		t.Fatalf("got %d changes %+v, expected %d", len(changes), changes, len(expected))
	}
	for i, e := range expected {
		if changes[i].From != e.from || changes[i].To != e.to {
			t.Errorf("change %d = %v->%v, expected %v->%v", i, changes[i].From, changes[i].To, e.from, e.to)
		}
	}
}

func TestCloseHaltsGame(t *testing.T) {
	g := newTestGame(t, Options{})
	called := false
	g.Subscribe(func(ModeChange) { called = true })
	g.Close()

	press(g, core.ActionPulse)
	g.Step(1)
	if g.Mode() != ModeStart {
		t.Errorf("closed game changed mode to %v", g.Mode())
	}
	if called {
		t.Error("listener called after Close")
	}
	g.Close()
}

func TestSnapshotViewportSpace(t *testing.T) {
	g := newTestGame(t, Options{})
	startRun(t, g)
	for i := 0; i < 30 && g.Mode() == ModePlay; i++ {
		g.Input().KeyDown(core.ActionUp)
		g.Step(1)
		g.Input().KeyUp(core.ActionUp)
		g.Step(1)
	}
	s := g.Snapshot()
	w := g.World()
	if s.Scroll != w.Scroll || s.Scroll == 0 {
		t.Fatalf("snapshot scroll %v, world scroll %v", s.Scroll, w.Scroll)
	}
	for i, o := range s.Obstacles {
		if o.X != w.Obstacles.Obstacles()[i].X-w.Scroll {
			t.Errorf("obstacle %d x %v not shifted by scroll", i, o.X)
		}
	}
}
