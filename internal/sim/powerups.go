package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-sonar/internal/config"
)

// PowerupKind identifies a pickup's effect.
type PowerupKind int

const (
	PowerupImmunity PowerupKind = iota // Temporary invulnerability
	PowerupFireball                    // Next pulse also fires a destructive ring
	PowerupPlasma                      // Instant energy refill
	powerupKindCount
)

// String returns the lowercase name of the kind.
func (k PowerupKind) String() string {
	switch k {
	case PowerupImmunity:
		return "immunity"
	case PowerupFireball:
		return "fireball"
	case PowerupPlasma:
		return "plasma"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k PowerupKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Powerup is a pickup floating in world space.
type Powerup struct {
	X, Y  float64
	Kind  PowerupKind
	Phase float64 // Animation phase, visual only
}

// PowerupGenerator spawns pickups on its own frontier, always inside the
// vertical band left free by nearby pillars.
type PowerupGenerator struct {
	cfg   config.PowerupConfig
	viewW float64
	viewH float64
	rng   *rand.Rand
	items []*Powerup
	nextX float64
}

// NewPowerupGenerator creates a generator whose first slot lies past the right edge.
func NewPowerupGenerator(cfg config.SonarConfig, rng *rand.Rand) *PowerupGenerator {
	return &PowerupGenerator{
		cfg:   cfg.Powerups,
		viewW: cfg.World.Width,
		viewH: cfg.World.Height,
		rng:   rng,
		nextX: cfg.World.Width + cfg.Powerups.FirstSpawn,
	}
}

// Powerups returns the live pickups.
func (g *PowerupGenerator) Powerups() []*Powerup {
	return g.items
}

// Update spawns slots up to the right edge, animates and prunes pickups.
// Obstacles must already be generated past the right edge plus the scan
// distance so the safe band sees every nearby pillar.
func (g *PowerupGenerator) Update(dt, scroll float64, obstacles []*Obstacle) {
	for g.nextX < scroll+g.viewW {
		g.spawnSlot(g.nextX, obstacles)
		g.nextX += g.cfg.MinSpacing + g.rng.Float64()*(g.cfg.MaxSpacing-g.cfg.MinSpacing)
	}

	live := g.items[:0]
	for _, p := range g.items {
		if p.X-scroll < -g.cfg.PickupRadius {
			continue
		}
		p.Phase += g.cfg.PhaseRate * dt
		live = append(live, p)
	}
	clear(g.items[len(live):])
	g.items = live
}

func (g *PowerupGenerator) spawnSlot(x float64, obstacles []*Obstacle) {
	lo, hi, ok := g.SafeBand(x, obstacles)
	if !ok {
		return
	}
	jitter := math.Min(g.cfg.MaxJitter, (hi-lo)/4)
	g.items = append(g.items, &Powerup{
		X:    x,
		Y:    (lo+hi)/2 + (g.rng.Float64()*2-1)*jitter,
		Kind: PowerupKind(g.rng.Intn(int(powerupKindCount))),
	})
}

// SafeBand returns the free vertical band [lo, hi] at world x.
// Pillars within the scan distance push the band edges inward by their
// height plus padding. ok is false when the band is thinner than the minimum.
func (g *PowerupGenerator) SafeBand(x float64, obstacles []*Obstacle) (lo, hi float64, ok bool) {
	lo = g.cfg.EdgeMargin
	hi = g.viewH - g.cfg.EdgeMargin
	for _, o := range obstacles {
		if o.Destroyed {
			continue
		}
		if x < o.X-g.cfg.ScanDistance || x > o.X+o.W+g.cfg.ScanDistance {
			continue
		}
		if o.Top {
			lo = math.Max(lo, o.H+g.cfg.WallPadding)
		} else {
			hi = math.Min(hi, g.viewH-o.H-g.cfg.WallPadding)
		}
	}
	return lo, hi, hi-lo >= g.cfg.MinBand
}

// Collect removes every pickup within the pickup radius of the world-space
// point c and returns their kinds.
func (g *PowerupGenerator) Collect(c mgl64.Vec2) []PowerupKind {
	var kinds []PowerupKind
	live := g.items[:0]
	for _, p := range g.items {
		if c.Sub(mgl64.Vec2{p.X, p.Y}).Len() < g.cfg.PickupRadius {
			kinds = append(kinds, p.Kind)
			continue
		}
		live = append(live, p)
	}
	clear(g.items[len(live):])
	g.items = live
	return kinds
}
