// Package audio plays the sonar pulse sound through the system speaker.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-sonar/internal/sim"
)

const (
	sampleRate    = beep.SampleRate(44100)
	pulseDuration = 420 * time.Millisecond
)

var _ sim.PulseSounder = (*PulseSound)(nil)

// PulseSound mixes pulse sounds onto the speaker.
// Until Initialize succeeds every call is silently ignored.
type PulseSound struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewPulseSound creates a silent sounder; call Initialize to open the device.
func NewPulseSound() *PulseSound {
	return &PulseSound{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. On failure the sounder stays silent.
func (p *PulseSound) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayPulse queues one pulse at volume in [0, 1].
func (p *PulseSound) PlayPulse(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || volume <= 0 {
		return
	}
	speaker.Lock()
	p.mixer.Add(PulseStreamer(volume))
	speaker.Unlock()
}

// Cleanup stops queued sounds.
func (p *PulseSound) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// PulseStreamer returns a finite "fah" sweep scaled to volume in [0, 1].
func PulseStreamer(volume float64) beep.Streamer {
	s := beep.Take(sampleRate.N(pulseDuration), NewSweepGenerator(sampleRate))
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(volume, 1)), Silent: false}
}

// SweepGenerator produces a breathy tone gliding down from 520 Hz to 180 Hz
// under an exponential decay, the sonar "fah".
type SweepGenerator struct {
	sr    beep.SampleRate
	pos   int
	phase float64
	seed  int64
}

// NewSweepGenerator creates a sweep generator.
func NewSweepGenerator(sr beep.SampleRate) *SweepGenerator {
	return &SweepGenerator{sr: sr, seed: 1}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		freq := 180 + 340*math.Exp(-t*6)
		g.phase += freq / float64(g.sr)
		if g.phase >= 1 {
			g.phase--
		}

		attack := math.Min(1, t*80)
		envelope := attack * math.Exp(-t*5)

		// Low-level noise gives the breath
		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		sample := envelope * (0.55*math.Sin(2*math.Pi*g.phase) + 0.12*noise)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}
