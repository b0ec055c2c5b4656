package config

import (
	_ "embed"
)

//go:embed defaults/sonar.yaml
var defaultSonarYAML []byte

// DefaultSonarConfig returns the built-in configuration.
// It must stay in sync with defaults/sonar.yaml.
func DefaultSonarConfig() SonarConfig {
	return SonarConfig{
		World: WorldConfig{
			Width:  960,
			Height: 600,
		},
		Physics: PhysicsConfig{
			Gravity:       0.25,
			Lift:          0.55,
			DescendFactor: 0.7,
			ThrustRight:   0.45,
			ThrustLeft:    0.30,
			Drag:          0.96,
			DragX:         0.90,
			BaseSpeed:     2.2,
			MinX:          40,
			MaxXFraction:  0.6,
			SpeedK:        3.5,
			MaxDT:         3.0,
		},
		Player: PlayerConfig{
			StartX: 120,
			Width:  48,
			Height: 32,
		},
		Obstacles: ObstacleConfig{
			MinWidth:       60,
			MaxWidth:       120,
			MinHeight:      60,
			HeightFraction: 0.45,
			PairGapFactor:  3.8,
			PairChance:     0.55,
			Gap:            220,
			MaxSpacing:     380,
			Lookahead:      1.5,
			PruneMargin:    200,
			FirstSpawn:     200,
			Segments:       12,
			Bulge:          0.12,
			Noise:          0.05,
		},
		Powerups: PowerupConfig{
			MinSpacing:   520,
			MaxSpacing:   900,
			FirstSpawn:   420,
			ScanDistance: 160,
			EdgeMargin:   40,
			WallPadding:  24,
			MinBand:      90,
			MaxJitter:    40,
			PickupRadius: 34,
			PhaseRate:    0.08,
		},
		Pulse: PulseConfig{
			MaxEnergy:       100,
			Cost:            22,
			RechargeBase:    0.06,
			RechargeFast:    0.12,
			FastSpeedFactor: 2.6,
			InitialRadius:   10,
			MaxRadius:       340,
			Rate:            9,
			FireMaxRadius:   520,
			FireRate:        14,
			RevealHold:      45,
			FadeRate:        0.02,
		},
		Effects: EffectsConfig{
			ImmunityFrames: 300,
		},
		State: StateConfig{
			CrashFrames:     90,
			CollisionMargin: 200,
			GameMode:        "classic",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSonarYAML
}
