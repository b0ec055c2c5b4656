package sim

import "github.com/go-gl/mathgl/mgl64"

// PointInPolygon reports whether p lies inside poly using the even-odd
// ray-crossing rule. The polygon is implicitly closed.
func PointInPolygon(p mgl64.Vec2, poly []mgl64.Vec2) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[j]
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) {
			crossX := (b.X()-a.X())*(p.Y()-a.Y())/(b.Y()-a.Y()) + a.X()
			if p.X() < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Box is an axis-aligned rectangle in viewport coordinates.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether (x, y) lies inside the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}
