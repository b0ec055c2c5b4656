package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/core"
)

// World is the state of one run. A fresh World is built for every run so
// nothing leaks from a crashed flight into the next.
type World struct {
	cfg config.SonarConfig

	Body        Body
	Scroll      float64 // World units travelled
	Score       int
	SpeedFactor float64

	Obstacles *ObstacleGenerator
	Powerups  *PowerupGenerator
	Pulse     *PulseEngine
	Effects   Effects
}

// NewWorld creates a run seeded by seed. Obstacles and powerups draw from
// independent streams so one generator cannot shift the other's layout.
func NewWorld(cfg config.SonarConfig, seed int64) *World {
	rng := rand.New(rand.NewSource(seed))
	w := &World{
		cfg:       cfg,
		Body:      NewBody(cfg),
		Obstacles: NewObstacleGenerator(cfg, rand.New(rand.NewSource(rng.Int63()))),
		Powerups:  NewPowerupGenerator(cfg, rand.New(rand.NewSource(rng.Int63()))),
		Pulse:     NewPulseEngine(cfg.Pulse),
	}
	w.SpeedFactor = SpeedFactor(w.Body.X, cfg.World.Width, cfg.Physics.SpeedK)
	w.Obstacles.Update(0)
	w.Powerups.Update(0, 0, w.Obstacles.Obstacles())
	return w
}

// BodyCenter returns the body's center in world space.
func (w *World) BodyCenter() mgl64.Vec2 {
	c := w.Body.Center()
	return mgl64.Vec2{c.X() + w.Scroll, c.Y()}
}

// TriggerPulse fires a pulse from the body and reports whether energy allowed it.
func (w *World) TriggerPulse() bool {
	return w.Pulse.Trigger(w.BodyCenter(), &w.Effects)
}

// Update advances the run by dt frames and reports whether the body crashed.
func (w *World) Update(dt float64, t Thrust) bool {
	p := w.cfg.Physics
	w.Body.Integrate(dt, t, p, p.MinX, w.cfg.MaxX())
	if w.Effects.Invulnerable {
		w.holdInBounds()
	}

	w.SpeedFactor = SpeedFactor(w.Body.X, w.cfg.World.Width, p.SpeedK)
	w.Scroll += p.BaseSpeed * w.SpeedFactor * dt
	w.Score = int(math.Floor(w.Scroll / 10))

	w.Obstacles.Update(w.Scroll)
	w.Powerups.Update(dt, w.Scroll, w.Obstacles.Obstacles())
	for _, kind := range w.Powerups.Collect(w.BodyCenter()) {
		w.apply(kind)
	}

	w.Pulse.Update(dt, w.SpeedFactor, w.Obstacles.Obstacles())
	w.Effects.Tick(dt)

	return Collides(w.Body, w.Scroll, w.Obstacles.Obstacles(), w.Effects,
		w.cfg.World.Width, w.cfg.World.Height, w.cfg.State.CollisionMargin)
}

// holdInBounds keeps an invulnerable body on screen, since bounds are not
// tested while immunity lasts.
func (w *World) holdInBounds() {
	maxY := w.cfg.World.Height - w.Body.H
	if w.Body.Y < 0 || w.Body.Y > maxY {
		w.Body.Y = core.ClampF(w.Body.Y, 0, maxY)
		w.Body.VY = 0
	}
}

func (w *World) apply(kind PowerupKind) {
	switch kind {
	case PowerupImmunity:
		w.Effects.GrantImmunity(w.cfg.Effects.ImmunityFrames)
	case PowerupFireball:
		w.Effects.Fireball = true
	case PowerupPlasma:
		w.Pulse.Refill()
	}
}
