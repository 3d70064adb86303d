package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"mazerun/internal/mathutil"
)

// Config is the rules table: every balancing constant the simulation
// consumes, expressed as pure data parameterized by level number. The
// core reads it, never writes it.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Throttle   ThrottleConfig   `yaml:"throttle"`
	Horde      HordeConfig      `yaml:"horde"`
	Collision  CollisionConfig  `yaml:"collision"`
	Combo      ComboConfig      `yaml:"combo"`
	Score      ScoreConfig      `yaml:"score"`
}

type SimulationConfig struct {
	MazeSize          int `yaml:"maze_size"`
	TPS               int `yaml:"tps"`
	StartLives        int `yaml:"start_lives"`
	PlacementAttempts int `yaml:"placement_attempts"`
	MinPlayerDistance int `yaml:"min_player_distance"`

	// Alert decays one point every AlertDecayBase frames at level 1;
	// each level adds AlertDecayPerLevel frames, so higher levels stay
	// suspicious longer.
	AlertDecayBase     int `yaml:"alert_decay_base"`
	AlertDecayPerLevel int `yaml:"alert_decay_per_level"`

	// Probability that a freshly spawned agent patrols waypoints
	// instead of random-walking. Grows with level, capped at 0.9.
	WaypointChanceBase     float64 `yaml:"waypoint_chance_base"`
	WaypointChancePerLevel float64 `yaml:"waypoint_chance_per_level"`
}

// ThrottleConfig partitions agents into distance bands from the player.
// Far agents update 1-in-FarFactor frames, medium 1-in-MediumFactor,
// near agents every frame.
type ThrottleConfig struct {
	FarDistance    int `yaml:"far_distance"`
	FarFactor      int `yaml:"far_factor"`
	MediumDistance int `yaml:"medium_distance"`
	MediumFactor   int `yaml:"medium_factor"`
}

type HordeConfig struct {
	// SpawnsPerFrame caps how many queued spawn tasks materialize per
	// frame so a large wave never spikes frame time.
	SpawnsPerFrame int `yaml:"spawns_per_frame"`

	// MoveIntervalScale shortens horde agents' move interval.
	MoveIntervalScale float64 `yaml:"move_interval_scale"`

	// DistanceThresholds are tried strictest-first when sampling wave
	// spawn cells away from the player.
	DistanceThresholds []int `yaml:"distance_thresholds"`
}

type CollisionConfig struct {
	HitInvincibilityFrames     int `yaml:"hit_invincibility_frames"`
	ShieldInvincibilityFrames  int `yaml:"shield_invincibility_frames"`
	RespawnInvincibilityFrames int `yaml:"respawn_invincibility_frames"`

	// SafeRadius is the Manhattan distance around the respawn cell that
	// must be clear of chase-capable agents after a respawn.
	SafeRadius int `yaml:"safe_radius"`
}

type ComboConfig struct {
	FastThresholdMs int   `yaml:"fast_threshold_ms"`
	SlowThresholdMs int   `yaml:"slow_threshold_ms"`
	DecayWindowMs   int   `yaml:"decay_window_ms"`
	CooldownMs      int   `yaml:"cooldown_ms"`
	Milestones      []int `yaml:"milestones"`
}

type ScoreConfig struct {
	ComboWeight       int `yaml:"combo_weight"`
	CollectWeight     int `yaml:"collect_weight"`
	LevelWeight       int `yaml:"level_weight"`
	TimeBonusCeilingS int `yaml:"time_bonus_ceiling_seconds"`
	TimeBonusPerS     int `yaml:"time_bonus_per_second"`
}

// DefaultConfig returns the coded baseline used when no YAML file is
// supplied. Tests run against this table.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			MazeSize:               15,
			TPS:                    60,
			StartLives:             3,
			PlacementAttempts:      50,
			MinPlayerDistance:      6,
			AlertDecayBase:         10,
			AlertDecayPerLevel:     3,
			WaypointChanceBase:     0.35,
			WaypointChancePerLevel: 0.05,
		},
		Throttle: ThrottleConfig{
			FarDistance:    45,
			FarFactor:      4,
			MediumDistance: 25,
			MediumFactor:   2,
		},
		Horde: HordeConfig{
			SpawnsPerFrame:     2,
			MoveIntervalScale:  0.7,
			DistanceThresholds: []int{10, 6, 3},
		},
		Collision: CollisionConfig{
			HitInvincibilityFrames:     90,
			ShieldInvincibilityFrames:  45,
			RespawnInvincibilityFrames: 180,
			SafeRadius:                 5,
		},
		Combo: ComboConfig{
			FastThresholdMs: 2000,
			SlowThresholdMs: 3000,
			DecayWindowMs:   3000,
			CooldownMs:      1000,
			Milestones:      []int{5, 10, 20, 50},
		},
		Score: ScoreConfig{
			ComboWeight:       100,
			CollectWeight:     25,
			LevelWeight:       500,
			TimeBonusCeilingS: 300,
			TimeBonusPerS:     10,
		},
	}
}

// LoadConfig reads the rules table from a YAML file, overlaying the
// defaults so partial files stay valid.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig loads the rules table and panics on error. Startup only.
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	return cfg
}

// Validate rejects tables the simulation cannot run against.
func (c *Config) Validate() error {
	if c.Simulation.MazeSize < 2 {
		return fmt.Errorf("maze_size must be at least 2, got %d", c.Simulation.MazeSize)
	}
	if c.Simulation.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", c.Simulation.TPS)
	}
	if c.Throttle.FarFactor < 1 || c.Throttle.MediumFactor < 1 {
		return fmt.Errorf("throttle factors must be at least 1")
	}
	if c.Horde.SpawnsPerFrame < 1 {
		return fmt.Errorf("horde spawns_per_frame must be at least 1")
	}
	for i := 1; i < len(c.Combo.Milestones); i++ {
		if c.Combo.Milestones[i] <= c.Combo.Milestones[i-1] {
			return fmt.Errorf("combo milestones must be strictly increasing")
		}
	}
	return nil
}

// FactorFor returns the update throttle factor for an agent at the
// given Manhattan distance from the player.
func (t ThrottleConfig) FactorFor(distance int) int {
	switch {
	case distance > t.FarDistance:
		return t.FarFactor
	case distance > t.MediumDistance:
		return t.MediumFactor
	default:
		return 1
	}
}

// AlertDecayInterval returns how many frames pass between alert-level
// decay steps at the given level. Higher levels decay more slowly.
func (s SimulationConfig) AlertDecayInterval(level int) int {
	return mathutil.IntMax(1, s.AlertDecayBase+(level-1)*s.AlertDecayPerLevel)
}

// WaypointChance returns the probability that a new agent uses waypoint
// patrol at the given level.
func (s SimulationConfig) WaypointChance(level int) float64 {
	ch := s.WaypointChanceBase + float64(level-1)*s.WaypointChancePerLevel
	if ch > 0.9 {
		ch = 0.9
	}
	if ch < 0 {
		ch = 0
	}
	return ch
}

// FramesFromMs converts a millisecond window into whole frames at the
// configured tick rate, rounding up so short windows never vanish.
func (c *Config) FramesFromMs(ms int) int {
	tps := c.Simulation.TPS
	if tps <= 0 {
		tps = 60
	}
	frames := (ms*tps + 999) / 1000
	return mathutil.IntMax(1, frames)
}

// FastThreshold returns the inter-move window under which a forward
// move builds combo.
func (cc ComboConfig) FastThreshold() time.Duration {
	return time.Duration(cc.FastThresholdMs) * time.Millisecond
}

// SlowThreshold returns the upper bound of the grace zone.
func (cc ComboConfig) SlowThreshold() time.Duration {
	return time.Duration(cc.SlowThresholdMs) * time.Millisecond
}

// DecayWindow returns the idle window after which the combo decays.
func (cc ComboConfig) DecayWindow() time.Duration {
	return time.Duration(cc.DecayWindowMs) * time.Millisecond
}
