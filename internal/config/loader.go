package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSonar loads the sonar game configuration.
// Search order: customPath -> ~/.sonar/configs/sonar.yaml -> ./configs/sonar.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the keys it names.
func LoadSonar(customPath string) (SonarConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultSonarConfig(), fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := ParseSonar(data)
		if err != nil {
			return DefaultSonarConfig(), fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("sonar.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseSonar(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "sonar.yaml")); err == nil {
		if cfg, err := ParseSonar(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseSonar(defaultSonarYAML)
	if err != nil {
		return DefaultSonarConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseSonar decodes YAML over the default configuration and validates the result.
func ParseSonar(data []byte) (SonarConfig, error) {
	cfg := DefaultSonarConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sonar", "configs", filename)
}

// Validate rejects configurations that would break generator or physics invariants.
func (c SonarConfig) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("config: world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("config: player size must be positive")
	case c.Physics.Drag <= 0 || c.Physics.Drag > 1 || c.Physics.DragX <= 0 || c.Physics.DragX > 1:
		return fmt.Errorf("config: drag factors must be in (0, 1]")
	case c.Physics.MaxDT <= 0:
		return fmt.Errorf("config: max_dt must be positive")
	case c.Obstacles.Gap <= 0:
		return fmt.Errorf("config: obstacle gap must be positive")
	case c.Obstacles.MaxSpacing < c.Obstacles.Gap:
		return fmt.Errorf("config: obstacle max_spacing %v below gap %v", c.Obstacles.MaxSpacing, c.Obstacles.Gap)
	case c.Obstacles.MinWidth <= 0 || c.Obstacles.MaxWidth < c.Obstacles.MinWidth:
		return fmt.Errorf("config: invalid obstacle width range [%v, %v]", c.Obstacles.MinWidth, c.Obstacles.MaxWidth)
	case c.Obstacles.Segments < 2:
		return fmt.Errorf("config: obstacle segments must be at least 2")
	case c.Obstacles.PairChance < 0 || c.Obstacles.PairChance > 1:
		return fmt.Errorf("config: pair_chance must be in [0, 1]")
	case c.Powerups.MinSpacing <= 0 || c.Powerups.MaxSpacing < c.Powerups.MinSpacing:
		return fmt.Errorf("config: invalid powerup spacing range [%v, %v]", c.Powerups.MinSpacing, c.Powerups.MaxSpacing)
	case c.Pulse.MaxEnergy <= 0 || c.Pulse.Cost <= 0:
		return fmt.Errorf("config: pulse energy and cost must be positive")
	case c.Pulse.Rate <= 0 || c.Pulse.FireRate <= 0:
		return fmt.Errorf("config: pulse ring rates must be positive")
	}
	return nil
}
