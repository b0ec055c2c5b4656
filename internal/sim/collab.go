package sim

import (
	"context"
	"encoding/json"
	"math"
)

// ScoreSubmission is the payload sent when a run ends.
type ScoreSubmission struct {
	Score    int    `json:"score"`
	GameMode string `json:"gameMode"`
	Player   string `json:"player,omitempty"`
}

// ScoreSink records finished runs and returns the player's best score.
type ScoreSink interface {
	SubmitScore(ctx context.Context, s ScoreSubmission) (best int, err error)
}

// SettingsSource provides the player's audio settings.
type SettingsSource interface {
	FetchSettings(ctx context.Context, player string) (Settings, error)
}

// IdentitySource provides the best score recorded for a player.
type IdentitySource interface {
	BestScore(ctx context.Context, player string) (int, error)
}

// PulseSounder plays the pulse sound at volume in [0, 1].
type PulseSounder interface {
	PlayPulse(volume float64)
}

// Settings are the player's pulse audio preferences.
type Settings struct {
	PulseAudioEnabled bool `json:"pulseAudioEnabled"`
	PulseVolume       int  `json:"pulseVolume"` // 0..100
}

// DefaultSettings returns audio on at half volume.
func DefaultSettings() Settings {
	return Settings{PulseAudioEnabled: true, PulseVolume: 50}
}

// Volume returns the volume as a fraction in [0, 1].
func (s Settings) Volume() float64 {
	return float64(s.PulseVolume) / 100
}

// Normalize clamps the volume into range.
func (s Settings) Normalize() Settings {
	s.PulseVolume = ClampVolume(float64(s.PulseVolume))
	return s
}

// ClampVolume rounds v and clamps it to 0..100.
func ClampVolume(v float64) int {
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

// ParseSettings decodes a settings payload, validating each field on its own.
// A missing or malformed field keeps its default; an undecodable payload
// yields the defaults. Payloads may be wrapped as {"settings": {...}}.
func ParseSettings(data []byte) Settings {
	s := DefaultSettings()

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return s
	}
	if inner, ok := raw["settings"].(map[string]any); ok {
		raw = inner
	}

	if v, ok := raw["pulseAudioEnabled"].(bool); ok {
		s.PulseAudioEnabled = v
	}
	if v, ok := raw["pulseVolume"].(float64); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
		s.PulseVolume = ClampVolume(v)
	}
	return s
}

// SettingsSink persists settings changed during play.
type SettingsSink interface {
	SaveSettings(ctx context.Context, player string, s Settings) error
}
