package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-sonar/internal/config"
)

func newTestPulse() (*PulseEngine, config.PulseConfig) {
	cfg := config.DefaultSonarConfig().Pulse
	return NewPulseEngine(cfg), cfg
}

// pillarAt returns a square pillar whose center sits at (cx, cy).
func pillarAt(cx, cy, w float64) *Obstacle {
	half := w / 2
	return &Obstacle{
		X: cx - half, W: w, H: w, Top: true,
		Points: []mgl64.Vec2{{cx - half, cy - half}, {cx + half, cy - half}, {cx + half, cy + half}, {cx - half, cy + half}},
		center: mgl64.Vec2{cx, cy},
	}
}

func TestPulseTriggerEnergy(t *testing.T) {
	tests := []struct {
		name     string
		energy   float64
		triggers int
		fired    int
		left     float64
	}{
		{"below cost", 21, 1, 0, 21},
		{"exactly cost", 22, 1, 1, 0},
		{"full tank", 100, 5, 4, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPulse()
			p.SetEnergy(tt.energy)
			fired := 0
			for i := 0; i < tt.triggers; i++ {
				if p.Trigger(mgl64.Vec2{0, 0}, &Effects{}) {
					fired++
				}
			}
			if fired != tt.fired {
				t.Errorf("fired %d pulses, expected %d", fired, tt.fired)
			}
			if len(p.Rings()) != tt.fired {
				t.Errorf("%d rings active, expected %d", len(p.Rings()), tt.fired)
			}
			if math.Abs(p.Energy()-tt.left) > eps {
				t.Errorf("Energy() = %v, expected %v", p.Energy(), tt.left)
			}
		})
	}
}

func TestPulseEnergyStaysInRange(t *testing.T) {
	p, cfg := newTestPulse()
	for i := 0; i < 2000; i++ {
		if i%7 == 0 {
			p.Trigger(mgl64.Vec2{0, 0}, &Effects{})
		}
		p.Update(1.7, float64(i%4), nil)
		if p.Energy() < 0 || p.Energy() > cfg.MaxEnergy {
			t.Fatalf("energy %v out of [0, %v] at frame %d", p.Energy(), cfg.MaxEnergy, i)
		}
	}
}

func TestPulseRecharge(t *testing.T) {
	tests := []struct {
		speedFactor float64
		expected    float64
	}{
		{1.0, 50.06},
		{2.59, 50.06},
		{2.6, 50.12},
		{3.0, 50.12},
	}
	for _, tt := range tests {
		p, _ := newTestPulse()
		p.SetEnergy(50)
		p.Update(1, tt.speedFactor, nil)
		if math.Abs(p.Energy()-tt.expected) > 1e-9 {
			t.Errorf("speedFactor %v: Energy() = %v, expected %v", tt.speedFactor, p.Energy(), tt.expected)
		}
	}
}

func TestPulseRevealAndFade(t *testing.T) {
	p, cfg := newTestPulse()
	o := pillarAt(100, 0, 60)
	obs := []*Obstacle{o}

	p.Trigger(mgl64.Vec2{0, 0}, &Effects{})

	// Touch needs radius + 30 > 100; radius is 10 + 9n after n frames.
	for i := 0; i < 6; i++ {
		p.Update(1, 1, obs)
	}
	if o.Opacity != 0 {
		t.Fatalf("pillar revealed too early at radius %v", p.Rings()[0].Radius)
	}
	p.Update(1, 1, obs)
	if o.Opacity != 1 || o.RevealTimer != cfg.RevealHold {
		t.Fatalf("pillar not revealed: opacity %v timer %v", o.Opacity, o.RevealTimer)
	}

	for len(p.Rings()) > 0 {
		p.Update(1, 1, obs)
	}
	for i := 0; i < int(cfg.RevealHold); i++ {
		p.Update(1, 1, obs)
	}
	if o.Opacity != 1 {
		t.Errorf("opacity %v before hold ran out, expected 1", o.Opacity)
	}
	p.Update(1, 1, obs)
	if math.Abs(o.Opacity-(1-cfg.FadeRate)) > eps {
		t.Errorf("opacity %v after first fade frame, expected %v", o.Opacity, 1-cfg.FadeRate)
	}
	for i := 0; i < 100; i++ {
		p.Update(1, 1, obs)
	}
	if o.Opacity != 0 {
		t.Errorf("opacity %v after fading out, expected 0", o.Opacity)
	}
}

func TestFireballPulse(t *testing.T) {
	p, cfg := newTestPulse()
	near := pillarAt(50, 0, 60)
	far := pillarAt(600, 0, 60)
	obs := []*Obstacle{near, far}
	fx := Effects{Fireball: true}

	if !p.Trigger(mgl64.Vec2{0, 0}, &fx) {
		t.Fatal("Trigger() with full energy failed")
	}
	if fx.Fireball {
		t.Error("fireball charge not consumed")
	}
	rings := p.Rings()
	if len(rings) != 2 || rings[0].Destructive || !rings[1].Destructive {
		t.Fatalf("expected a reveal ring and a destructive ring, got %+v", rings)
	}
	if rings[1].MaxRadius != cfg.FireMaxRadius {
		t.Errorf("destructive ring max radius %v, expected %v", rings[1].MaxRadius, cfg.FireMaxRadius)
	}

	// Radius 24 touches the near pillar (24+30 > 50) but does not yet reach its center.
	p.Update(1, 1, obs)
	if near.Destroyed {
		t.Fatal("pillar destroyed before the ring reached its center")
	}
	for i := 0; i < 3; i++ {
		p.Update(1, 1, obs)
	}
	if !near.Destroyed || near.Opacity != 0 {
		t.Errorf("near pillar not destroyed: %+v", near)
	}
	if far.Destroyed {
		t.Error("far pillar destroyed")
	}

	before := len(p.Rings())
	if !p.Trigger(mgl64.Vec2{0, 0}, &fx) {
		t.Fatal("second Trigger() failed")
	}
	if added := len(p.Rings()) - before; added != 1 {
		t.Errorf("second pulse added %d rings, expected 1", added)
	}
}

func TestRingAlpha(t *testing.T) {
	r := PulseRing{Radius: 85, MaxRadius: 340}
	if math.Abs(r.Alpha()-0.75) > eps {
		t.Errorf("Alpha() = %v, expected 0.75", r.Alpha())
	}
	r.Radius = 340
	if r.Alpha() != 0 {
		t.Errorf("Alpha() at max = %v, expected 0", r.Alpha())
	}
}
