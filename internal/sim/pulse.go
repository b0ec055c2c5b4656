package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/core"
)

// PulseRing is an expanding sonar ring anchored in world space.
type PulseRing struct {
	Origin      mgl64.Vec2
	Radius      float64
	MaxRadius   float64
	Rate        float64 // Radius growth per frame
	Destructive bool
}

// Alpha returns the ring's draw intensity, fading as it expands.
func (r *PulseRing) Alpha() float64 {
	if r.MaxRadius <= 0 {
		return 0
	}
	return core.ClampF(1-r.Radius/r.MaxRadius, 0, 1)
}

// PulseEngine owns the energy resource and the active rings.
type PulseEngine struct {
	cfg    config.PulseConfig
	energy float64
	rings  []*PulseRing
}

// NewPulseEngine creates an engine at full energy.
func NewPulseEngine(cfg config.PulseConfig) *PulseEngine {
	return &PulseEngine{cfg: cfg, energy: cfg.MaxEnergy}
}

// Energy returns the current energy.
func (p *PulseEngine) Energy() float64 { return p.energy }

// MaxEnergy returns the energy cap.
func (p *PulseEngine) MaxEnergy() float64 { return p.cfg.MaxEnergy }

// SetEnergy sets energy, clamped to [0, max].
func (p *PulseEngine) SetEnergy(e float64) {
	p.energy = core.ClampF(e, 0, p.cfg.MaxEnergy)
}

// Refill restores energy to the cap.
func (p *PulseEngine) Refill() {
	p.energy = p.cfg.MaxEnergy
}

// Rings returns the active rings.
func (p *PulseEngine) Rings() []*PulseRing {
	return p.rings
}

// Trigger fires a pulse from origin if energy allows and reports whether it did.
// An armed fireball adds a destructive ring and is consumed.
func (p *PulseEngine) Trigger(origin mgl64.Vec2, fx *Effects) bool {
	if p.energy < p.cfg.Cost {
		return false
	}
	p.energy -= p.cfg.Cost
	p.rings = append(p.rings, &PulseRing{
		Origin:    origin,
		Radius:    p.cfg.InitialRadius,
		MaxRadius: p.cfg.MaxRadius,
		Rate:      p.cfg.Rate,
	})
	if fx != nil && fx.Fireball {
		fx.Fireball = false
		p.rings = append(p.rings, &PulseRing{
			Origin:      origin,
			Radius:      p.cfg.InitialRadius,
			MaxRadius:   p.cfg.FireMaxRadius,
			Rate:        p.cfg.FireRate,
			Destructive: true,
		})
	}
	return true
}

// Update recharges energy, fades revealed pillars, grows rings and applies
// their reveal and destroy effects. Rings that reach full size are dropped.
func (p *PulseEngine) Update(dt, speedFactor float64, obstacles []*Obstacle) {
	rate := p.cfg.RechargeBase
	if speedFactor >= p.cfg.FastSpeedFactor {
		rate = p.cfg.RechargeFast
	}
	p.energy = math.Min(p.cfg.MaxEnergy, p.energy+rate*dt)

	for _, o := range obstacles {
		if !o.Destroyed {
			o.fade(dt, p.cfg.FadeRate)
		}
	}

	live := p.rings[:0]
	for _, r := range p.rings {
		r.Radius = math.Min(r.Radius+r.Rate*dt, r.MaxRadius)
		p.sweep(r, obstacles)
		if r.Radius < r.MaxRadius {
			live = append(live, r)
		}
	}
	clear(p.rings[len(live):])
	p.rings = live
}

// sweep applies one ring to every pillar it currently touches.
func (p *PulseEngine) sweep(r *PulseRing, obstacles []*Obstacle) {
	for _, o := range obstacles {
		if o.Destroyed {
			continue
		}
		d := r.Origin.Sub(o.Center()).Len()
		if d >= r.Radius+o.W/2 {
			continue
		}
		if r.Destructive && d < r.Radius {
			o.destroy()
			continue
		}
		o.reveal(p.cfg.RevealHold)
	}
}
