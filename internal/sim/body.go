package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-sonar/internal/config"
)

// Thrust is the set of movement controls applied during one frame.
type Thrust struct {
	Up, Down, Left, Right bool
}

// Body is the player-controlled physics body.
// Coordinates are viewport space: x grows right, y grows down.
type Body struct {
	X, Y   float64 // Top-left corner
	VX, VY float64
	W, H   float64
}

// NewBody places a body at its start pose, vertically centered.
func NewBody(cfg config.SonarConfig) Body {
	return Body{
		X: cfg.Player.StartX,
		Y: (cfg.World.Height - cfg.Player.Height) / 2,
		W: cfg.Player.Width,
		H: cfg.Player.Height,
	}
}

// Integrate advances the body by dt frames.
// Accelerations scale linearly with dt; drag decays as drag^dt so the
// damping is the same whether a second is split into 30 or 120 frames.
// Horizontal position is clamped to [minX, maxX].
func (b *Body) Integrate(dt float64, t Thrust, p config.PhysicsConfig, minX, maxX float64) {
	if t.Up {
		b.VY -= p.Lift * dt
	}
	if t.Down {
		b.VY += p.DescendFactor * p.Lift * dt
	}
	if t.Right {
		b.VX += p.ThrustRight * dt
	}
	if t.Left {
		b.VX -= p.ThrustLeft * dt
	}
	b.VY += p.Gravity * dt

	b.VY *= math.Pow(p.Drag, dt)
	b.VX *= math.Pow(p.DragX, dt)

	b.X += b.VX * dt
	b.Y += b.VY * dt

	if b.X < minX {
		b.X = minX
		b.VX = math.Max(b.VX, 0)
	}
	if b.X > maxX {
		b.X = maxX
		b.VX = math.Min(b.VX, 0)
	}
}

// Center returns the center of the body's bounding box.
func (b Body) Center() mgl64.Vec2 {
	return mgl64.Vec2{b.X + b.W/2, b.Y + b.H/2}
}

// SamplePoints returns the four points tested against obstacle polygons:
// top-center, bottom-center, right-center and left-edge.
func (b Body) SamplePoints() [4]mgl64.Vec2 {
	return [4]mgl64.Vec2{
		{b.X + b.W/2, b.Y},
		{b.X + b.W/2, b.Y + b.H},
		{b.X + b.W, b.Y + b.H/2},
		{b.X, b.Y + b.H/2},
	}
}

// SpeedFactor is the world scroll multiplier for a body at x.
// Pushing forward speeds the world up.
func SpeedFactor(x, viewW, k float64) float64 {
	return 1 + (x/viewW)*k
}
