// Package config provides YAML-based game configuration loading and
// difficulty presets for the sonar game.
package config

// SonarConfig contains all tunables for the sonar flight simulation.
// Distances are world units; the world viewport defaults to 960x600.
// Rates are per nominal frame (dt = 1 at the target frame duration).
type SonarConfig struct {
	World     WorldConfig    `yaml:"world"`
	Physics   PhysicsConfig  `yaml:"physics"`
	Player    PlayerConfig   `yaml:"player"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Powerups  PowerupConfig  `yaml:"powerups"`
	Pulse     PulseConfig    `yaml:"pulse"`
	Effects   EffectsConfig  `yaml:"effects"`
	State     StateConfig    `yaml:"state"`
}

// WorldConfig defines the simulated viewport.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig defines body integration parameters.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`
	Lift          float64 `yaml:"lift"`
	DescendFactor float64 `yaml:"descend_factor"` // Fraction of lift applied when diving
	ThrustRight   float64 `yaml:"thrust_right"`
	ThrustLeft    float64 `yaml:"thrust_left"`
	Drag          float64 `yaml:"drag"`   // Vertical velocity retained per frame
	DragX         float64 `yaml:"drag_x"` // Horizontal velocity retained per frame
	BaseSpeed     float64 `yaml:"base_speed"`
	MinX          float64 `yaml:"min_x"`
	MaxXFraction  float64 `yaml:"max_x_fraction"` // Right bound as a fraction of world width
	SpeedK        float64 `yaml:"speed_k"`        // Scroll speed gain per body x / width
	MaxDT         float64 `yaml:"max_dt"`
}

// PlayerConfig defines the body's starting pose and dimensions.
type PlayerConfig struct {
	StartX float64 `yaml:"start_x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ObstacleConfig defines pillar generation and pairing rules.
type ObstacleConfig struct {
	MinWidth       float64 `yaml:"min_width"`
	MaxWidth       float64 `yaml:"max_width"`
	MinHeight      float64 `yaml:"min_height"`
	HeightFraction float64 `yaml:"height_fraction"` // Unpaired cap as a fraction of world height
	PairGapFactor  float64 `yaml:"pair_gap_factor"` // Minimum gap in player heights
	PairChance     float64 `yaml:"pair_chance"`
	Gap            float64 `yaml:"gap"` // Minimum spacing between spawn slots
	MaxSpacing     float64 `yaml:"max_spacing"`
	Lookahead      float64 `yaml:"lookahead"` // Generation window as a fraction of world width
	PruneMargin    float64 `yaml:"prune_margin"`
	FirstSpawn     float64 `yaml:"first_spawn"` // Distance beyond the right edge for the first slot
	Segments       int     `yaml:"segments"`
	Bulge          float64 `yaml:"bulge"` // Sinusoidal bulge amplitude as a fraction of width
	Noise          float64 `yaml:"noise"` // Positional noise amplitude as a fraction of width
}

// PowerupConfig defines pickup spawning.
type PowerupConfig struct {
	MinSpacing   float64 `yaml:"min_spacing"`
	MaxSpacing   float64 `yaml:"max_spacing"`
	FirstSpawn   float64 `yaml:"first_spawn"`
	ScanDistance float64 `yaml:"scan_distance"`
	EdgeMargin   float64 `yaml:"edge_margin"`
	WallPadding  float64 `yaml:"wall_padding"`
	MinBand      float64 `yaml:"min_band"`
	MaxJitter    float64 `yaml:"max_jitter"`
	PickupRadius float64 `yaml:"pickup_radius"`
	PhaseRate    float64 `yaml:"phase_rate"`
}

// PulseConfig defines the energy resource and sonar rings.
type PulseConfig struct {
	MaxEnergy       float64 `yaml:"max_energy"`
	Cost            float64 `yaml:"cost"`
	RechargeBase    float64 `yaml:"recharge_base"`
	RechargeFast    float64 `yaml:"recharge_fast"`
	FastSpeedFactor float64 `yaml:"fast_speed_factor"` // Speed factor unlocking the fast rate
	InitialRadius   float64 `yaml:"initial_radius"`
	MaxRadius       float64 `yaml:"max_radius"`
	Rate            float64 `yaml:"rate"`
	FireMaxRadius   float64 `yaml:"fire_max_radius"`
	FireRate        float64 `yaml:"fire_rate"`
	RevealHold      float64 `yaml:"reveal_hold"` // Frames a touched wall stays fully lit
	FadeRate        float64 `yaml:"fade_rate"`   // Opacity lost per frame after the hold
}

// EffectsConfig defines powerup effect durations.
type EffectsConfig struct {
	ImmunityFrames float64 `yaml:"immunity_frames"`
}

// StateConfig defines state machine timings and collision tuning.
type StateConfig struct {
	CrashFrames     float64 `yaml:"crash_frames"`
	CollisionMargin float64 `yaml:"collision_margin"`
	GameMode        string  `yaml:"game_mode"`
}

// MaxX returns the right bound of the body's horizontal band.
func (c SonarConfig) MaxX() float64 {
	return c.World.Width * c.Physics.MaxXFraction
}
