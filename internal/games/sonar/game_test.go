package sonar

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/core"
	"github.com/vovakirdan/tui-sonar/internal/registry"
	"github.com/vovakirdan/tui-sonar/internal/sim"
)

type savedSettings struct {
	player string
	s      sim.Settings
}

type fakeSettingsSink struct{ saved chan savedSettings }

func (f fakeSettingsSink) SaveSettings(_ context.Context, player string, s sim.Settings) error {
	f.saved <- savedSettings{player, s}
	return nil
}

// testRuntime maps one screen cell to 10x10 viewport units below the HUD.
func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 96, ScreenH: 61, TickRate: 60, Seed: 42, Player: "ava"}
}

func newTestGame(t *testing.T, env registry.Env) *Game {
	t.Helper()
	g := New(ModeClassic, "Sonar Flight", "", env)
	g.Reset(testRuntime())
	t.Cleanup(g.Close)
	return g
}

func tap(g *Game, a core.Action) {
	g.Press(a)
	g.Release(a)
}

func render(g *Game) string {
	rt := g.rt
	screen := core.NewScreen(rt.ScreenW, rt.ScreenH)
	g.Render(screen)
	return screen.String()
}

func TestModesRegistered(t *testing.T) {
	tests := []struct {
		id    string
		title string
	}{
		{ModeClassic, "Sonar Flight"},
		{ModeHardcore, "Sonar Flight: Hardcore"},
	}
	for _, tt := range tests {
		g, err := registry.Create(tt.id, registry.Env{})
		if err != nil {
			t.Fatalf("Create(%q) error = %v", tt.id, err)
		}
		if g.ID() != tt.id || g.Title() != tt.title {
			t.Errorf("Create(%q) = %s/%s, expected %s/%s", tt.id, g.ID(), g.Title(), tt.id, tt.title)
		}
		g.Close()
	}
}

func TestHardcorePreset(t *testing.T) {
	g, err := registry.Create(ModeHardcore, registry.Env{})
	if err != nil {
		t.Fatal(err)
	}
	hc := g.(*Game)
	hc.Reset(testRuntime())
	defer hc.Close()

	if hc.cfg.Obstacles.PairChance != 0.75 {
		t.Errorf("PairChance = %v, expected 0.75", hc.cfg.Obstacles.PairChance)
	}
	if hc.Sim().GameMode() != ModeHardcore {
		t.Errorf("GameMode() = %q, expected %q", hc.Sim().GameMode(), ModeHardcore)
	}
}

func TestResizeKeepsRun(t *testing.T) {
	g := newTestGame(t, registry.Env{})
	before := g.Sim()

	rt := testRuntime()
	rt.ScreenW, rt.ScreenH = 120, 40
	g.Reset(rt)
	if g.Sim() != before {
		t.Error("resize rebuilt the simulation")
	}

	rt.Seed = 7
	g.Reset(rt)
	if g.Sim() == before {
		t.Error("new seed kept the old simulation")
	}
}

func TestStartAndPlay(t *testing.T) {
	g := newTestGame(t, registry.Env{})
	if !strings.Contains(render(g), "Press SPACE to start") {
		t.Error("title screen missing start prompt")
	}

	tap(g, core.ActionPulse)
	res := g.Step(1)
	if res.State.Mode != "play" {
		t.Fatalf("Mode = %q, expected play", res.State.Mode)
	}

	g.Press(core.ActionUp)
	for i := 0; i < 10; i++ {
		g.Step(1)
	}
	g.Release(core.ActionUp)

	out := render(g)
	if !strings.Contains(out, "SCORE") || !strings.Contains(out, "ENERGY") {
		t.Error("HUD missing from play screen")
	}
	if !strings.ContainsRune(out, BodyChar) {
		t.Error("body not drawn")
	}
}

func TestPauseMenuRendersAndClicks(t *testing.T) {
	g := newTestGame(t, registry.Env{})
	tap(g, core.ActionPulse)
	g.Step(1)
	tap(g, core.ActionPause)
	g.Step(1)

	if !g.State().Paused {
		t.Fatal("game not paused")
	}
	out := render(g)
	for _, want := range []string{"PAUSED", "Resume", "Restart", "Main Menu"} {
		if !strings.Contains(out, want) {
			t.Errorf("pause screen missing %q", want)
		}
	}

	// Main Menu box spans viewport y 380..428 at x 350..610.
	g.Pointer(48, 41, true)
	g.Step(1)
	if g.State().Mode != "start" {
		t.Errorf("Mode = %q after clicking Main Menu, expected start", g.State().Mode)
	}
}

func TestPointerMapping(t *testing.T) {
	g := newTestGame(t, registry.Env{})
	tests := []struct {
		x, y   int
		vx, vy float64
		ok     bool
	}{
		{0, 1, 5, 5, true},
		{95, 60, 955, 595, true},
		{10, 0, 0, 0, false},
	}
	for _, tt := range tests {
		vx, vy, ok := g.cellToViewport(tt.x, tt.y)
		if ok != tt.ok || (ok && (vx != tt.vx || vy != tt.vy)) {
			t.Errorf("cellToViewport(%d, %d) = (%v, %v, %v), expected (%v, %v, %v)",
				tt.x, tt.y, vx, vy, ok, tt.vx, tt.vy, tt.ok)
		}
	}
}

func TestToggleSoundPersists(t *testing.T) {
	sink := fakeSettingsSink{saved: make(chan savedSettings, 1)}
	g := newTestGame(t, registry.Env{SettingsSink: sink})

	g.Press(core.ActionToggleSound)
	g.Step(0)

	if g.Sim().Settings().PulseAudioEnabled {
		t.Error("pulse audio still enabled after toggle")
	}
	select {
	case got := <-sink.saved:
		if got.player != "ava" || got.s.PulseAudioEnabled {
			t.Errorf("saved %+v, expected ava with audio off", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("settings not saved")
	}
	if !strings.Contains(render(g), "SOUND OFF") {
		t.Error("HUD does not show sound off")
	}
}

func TestBadConfigPathFallsBack(t *testing.T) {
	g := New(ModeClassic, "Sonar Flight", "", registry.Env{})
	rt := testRuntime()
	rt.ConfigPath = "/nonexistent/sonar.yaml"
	g.Reset(rt)
	defer g.Close()

	if g.cfg.World.Width != 960 {
		t.Errorf("World.Width = %v, expected default 960", g.cfg.World.Width)
	}
}

func TestHardcoreWideGapConfigKeepsSpacing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sonar.yaml")
	if err := os.WriteFile(path, []byte("obstacles:\n  gap: 350\n  max_spacing: 500\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	g := New(ModeHardcore, "Sonar Flight: Hardcore", config.DifficultyHard, registry.Env{})
	rt := testRuntime()
	rt.ConfigPath = path
	g.Reset(rt)
	defer g.Close()

	if g.cfg.Obstacles.Gap != 350 {
		t.Errorf("Gap = %v, expected custom 350", g.cfg.Obstacles.Gap)
	}
	if err := g.cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, expected nil", err)
	}

	gen := sim.NewObstacleGenerator(g.cfg, rand.New(rand.NewSource(7)))
	seen := make(map[float64]bool)
	for scroll := 0.0; scroll < 20000; scroll += 100 {
		gen.Update(scroll)
		for _, o := range gen.Obstacles() {
			seen[o.X] = true
		}
	}
	slots := make([]float64, 0, len(seen))
	for x := range seen {
		slots = append(slots, x)
	}
	sort.Float64s(slots)
	for i := 1; i < len(slots); i++ {
		if d := slots[i] - slots[i-1]; d < g.cfg.Obstacles.Gap {
			t.Fatalf("slot spacing %v below gap %v", d, g.cfg.Obstacles.Gap)
		}
	}
}

func TestRenderTinyScreen(t *testing.T) {
	g := newTestGame(t, registry.Env{})
	tap(g, core.ActionPulse)
	g.Step(1)
	for _, size := range [][2]int{{1, 1}, {5, 2}, {0, 0}} {
		screen := core.NewScreen(size[0], size[1])
		g.Render(screen)
	}
}
