package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/core"
)

// Obstacle is an organic pillar hanging from the ceiling or rising from the floor.
// Points are in world space; subtract the scroll offset to draw or test.
type Obstacle struct {
	X, W, H     float64 // Left edge, slot width, vertical extent
	Top         bool    // Attached to the ceiling
	Paired      bool    // Shares its slot with an opposite pillar
	Points      []mgl64.Vec2
	Opacity     float64 // 0 invisible .. 1 fully revealed
	RevealTimer float64 // Frames left at full opacity
	Destroyed   bool

	center mgl64.Vec2
}

// Center returns the pillar's reference point used by pulse touch tests.
func (o *Obstacle) Center() mgl64.Vec2 {
	return o.center
}

// fade decays visibility once the reveal hold has run out.
func (o *Obstacle) fade(dt, rate float64) {
	if o.RevealTimer > 0 {
		o.RevealTimer = math.Max(0, o.RevealTimer-dt)
		return
	}
	o.Opacity = math.Max(0, o.Opacity-rate*dt)
}

// reveal lights the pillar for hold frames.
func (o *Obstacle) reveal(hold float64) {
	o.Opacity = 1
	o.RevealTimer = hold
}

// destroy removes the pillar from play.
func (o *Obstacle) destroy() {
	o.Destroyed = true
	o.Opacity = 0
	o.RevealTimer = 0
}

// MaxPairedHeight returns the tallest second pillar that keeps a passable gap
// of gapFactor player heights between it and a pillar of height pairH.
func MaxPairedHeight(viewH, pairH, playerH, gapFactor float64) float64 {
	return viewH - pairH - playerH*gapFactor
}

// ObstacleGenerator produces pillars ahead of the viewport on an
// unbounded forward frontier and prunes those scrolled far behind.
type ObstacleGenerator struct {
	cfg     config.ObstacleConfig
	viewW   float64
	viewH   float64
	playerH float64
	rng     *rand.Rand
	items   []*Obstacle
	nextX   float64 // World x of the next spawn slot
}

// NewObstacleGenerator creates a generator whose first slot lies just past the right edge.
func NewObstacleGenerator(cfg config.SonarConfig, rng *rand.Rand) *ObstacleGenerator {
	return &ObstacleGenerator{
		cfg:     cfg.Obstacles,
		viewW:   cfg.World.Width,
		viewH:   cfg.World.Height,
		playerH: cfg.Player.Height,
		rng:     rng,
		nextX:   cfg.World.Width + cfg.Obstacles.FirstSpawn,
	}
}

// Obstacles returns the live pillars, oldest first.
func (g *ObstacleGenerator) Obstacles() []*Obstacle {
	return g.items
}

// Frontier returns the world x of the next spawn slot.
func (g *ObstacleGenerator) Frontier() float64 {
	return g.nextX
}

// Update fills the lookahead window ahead of scroll and prunes stale pillars.
func (g *ObstacleGenerator) Update(scroll float64) {
	horizon := scroll + g.viewW*g.cfg.Lookahead
	for g.nextX < horizon {
		g.spawnSlot(g.nextX)
		g.nextX += g.cfg.Gap + g.rng.Float64()*(g.cfg.MaxSpacing-g.cfg.Gap)
	}

	live := g.items[:0]
	for _, o := range g.items {
		if o.X-scroll >= -g.cfg.PruneMargin {
			live = append(live, o)
		}
	}
	clear(g.items[len(live):])
	g.items = live
}

func (g *ObstacleGenerator) spawnSlot(x float64) {
	top := g.rng.Float64() < 0.5
	first := g.SpawnPillar(x, top, 0)
	g.items = append(g.items, first)

	if g.rng.Float64() >= g.cfg.PairChance {
		return
	}
	if MaxPairedHeight(g.viewH, first.H, g.playerH, g.cfg.PairGapFactor) <= 0 {
		return
	}
	second := g.SpawnPillar(x, !top, first.H)
	first.Paired = true
	second.Paired = true
	g.items = append(g.items, second)
}

// SpawnPillar builds a single pillar at world x without adding it to the field.
// A positive pairH caps the height so an opposite pillar of that height leaves
// the minimum passable gap.
func (g *ObstacleGenerator) SpawnPillar(x float64, top bool, pairH float64) *Obstacle {
	w := g.cfg.MinWidth + g.rng.Float64()*(g.cfg.MaxWidth-g.cfg.MinWidth)

	maxH := g.viewH * g.cfg.HeightFraction
	if pairH > 0 {
		maxH = math.Min(maxH, MaxPairedHeight(g.viewH, pairH, g.playerH, g.cfg.PairGapFactor))
	}
	h := math.Max(maxH, 0)
	if maxH > g.cfg.MinHeight {
		h = g.cfg.MinHeight + g.rng.Float64()*(maxH-g.cfg.MinHeight)
	}

	base, dir := 0.0, 1.0
	if !top {
		base, dir = g.viewH, -1.0
	}

	return &Obstacle{
		X:      x,
		W:      w,
		H:      h,
		Top:    top,
		Points: g.outline(x, w, h, base, dir),
		center: mgl64.Vec2{x + w/2, base + dir*h/2},
	}
}

// outline traces a tapered pillar from its base to the tip and back.
// Each edge point sways with a shared sine bulge plus independent noise;
// x stays inside the slot [x, x+w] and y never passes the tip.
func (g *ObstacleGenerator) outline(x, w, h, base, dir float64) []mgl64.Vec2 {
	n := max(g.cfg.Segments, 2)
	phase := g.rng.Float64() * 2 * math.Pi
	bulge := w * g.cfg.Bulge
	noise := w * g.cfg.Noise
	cx := x + w/2

	edge := func(i int, side float64) mgl64.Vec2 {
		t := float64(i) / float64(n)
		half := w / 2 * (1 - 0.6*t)
		sway := bulge*math.Sin(t*2*math.Pi+phase) + (g.rng.Float64()*2-1)*noise
		px := core.ClampF(cx+side*half+sway, x, x+w)
		return mgl64.Vec2{px, base + dir*t*h}
	}

	pts := make([]mgl64.Vec2, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		pts = append(pts, edge(i, -1))
	}
	for i := n; i >= 0; i-- {
		pts = append(pts, edge(i, 1))
	}
	return pts
}
