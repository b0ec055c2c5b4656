package sim

import (
	"math"
	"time"
)

// Clock turns wall-clock frame timestamps into time-step multipliers.
// A frame that takes exactly the target duration yields dt = 1.
type Clock struct {
	frame time.Duration
	maxDT float64
	last  time.Time
}

// NewClock creates a clock targeting tickRate frames per second.
func NewClock(tickRate int, maxDT float64) *Clock {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Clock{
		frame: time.Second / time.Duration(tickRate),
		maxDT: maxDT,
	}
}

// Advance records a frame at now and returns its dt.
// The first frame after creation or Reset is nominal.
func (c *Clock) Advance(now time.Time) float64 {
	if c.last.IsZero() {
		c.last = now
		return 1
	}
	elapsed := now.Sub(c.last)
	c.last = now
	return ClampDT(float64(elapsed)/float64(c.frame), c.maxDT)
}

// Reset forgets the previous frame so a stall is not integrated.
func (c *Clock) Reset() {
	c.last = time.Time{}
}

// ClampDT bounds dt to [0, maxDT]. NaN maps to 0.
func ClampDT(dt, maxDT float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if dt > maxDT {
		return maxDT
	}
	return dt
}
