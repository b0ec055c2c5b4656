package sim

import "github.com/go-gl/mathgl/mgl64"

// Collides reports whether the body hits the vertical bounds or any live
// pillar near the viewport. Invulnerability skips every test.
func Collides(b Body, scroll float64, obstacles []*Obstacle, fx Effects, viewW, viewH, margin float64) bool {
	if fx.Invulnerable {
		return false
	}
	if b.Y < 0 || b.Y+b.H > viewH {
		return true
	}

	pts := b.SamplePoints()
	for _, o := range obstacles {
		if o.Destroyed {
			continue
		}
		sx := o.X - scroll
		if sx > viewW+margin || sx+o.W < -margin {
			continue
		}
		for _, p := range pts {
			if PointInPolygon(mgl64.Vec2{p.X() + scroll, p.Y()}, o.Points) {
				return true
			}
		}
	}
	return false
}
