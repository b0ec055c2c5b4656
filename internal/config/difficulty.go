package config

import (
	"fmt"
	"math"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a CLI string to a preset. Empty means "use config as is".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "":
		return "", nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplySonarPreset modifies the config based on a difficulty preset.
// Presets only tune pairing density, slot spacing and pulse cost; the
// minimum passable gap between paired pillars is never relaxed, and slot
// spacing never drops below the configured gap.
func ApplySonarPreset(cfg *SonarConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Obstacles.PairChance = 0.35
		cfg.Obstacles.Gap = 280
		cfg.Obstacles.MaxSpacing = 440
		cfg.Pulse.Cost = 16
		cfg.Pulse.RechargeBase = 0.09
	case DifficultyHard:
		cfg.Obstacles.PairChance = 0.75
		cfg.Obstacles.MaxSpacing = math.Max(cfg.Obstacles.Gap, 300)
		cfg.Pulse.Cost = 28
		cfg.Pulse.RechargeBase = 0.045
		cfg.State.GameMode = "hardcore"
	}
}
