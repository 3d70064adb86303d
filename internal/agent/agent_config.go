package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mazerun/internal/mathutil"
)

// Definition holds the per-variant configuration record that
// parameterizes the shared agent state machine. All balancing numbers
// here scale with level through the *At helpers.
type Definition struct {
	Name string `yaml:"name"`

	// MoveInterval is the number of frames between move attempts at
	// level 1; each level shaves MoveIntervalPerLevel frames, floored
	// at MoveIntervalMin.
	MoveInterval         int     `yaml:"move_interval"`
	MoveIntervalPerLevel float64 `yaml:"move_interval_per_level"`
	MoveIntervalMin      int     `yaml:"move_interval_min"`

	// ChaseIntervalScale shortens the effective interval while chasing
	// or fleeing so engaged agents feel faster.
	ChaseIntervalScale float64 `yaml:"chase_interval_scale"`

	ChaseRange  int  `yaml:"chase_range"`
	ChaseBuffer int  `yaml:"chase_buffer"`
	CanChase    bool `yaml:"can_chase"`

	// ChecksOccupancy controls whether the variant consults the spatial
	// registry before committing a move. Decorative variants may skip
	// it; boss-class agents must honor it to avoid stacking.
	ChecksOccupancy bool `yaml:"checks_occupancy"`

	// PatrolRange is the half-extent of the territory rectangle around
	// the spawn cell.
	PatrolRange int `yaml:"patrol_range"`

	// Level-start population counts.
	CountBase     int     `yaml:"count_base"`
	CountPerLevel float64 `yaml:"count_per_level"`
	CountMax      int     `yaml:"count_max"`
}

// Definitions maps each variant to its configuration record.
type Definitions map[Variant]Definition

// MoveIntervalAt returns the frames between move attempts at a level.
func (d Definition) MoveIntervalAt(level int) int {
	interval := d.MoveInterval - int(float64(level-1)*d.MoveIntervalPerLevel)
	return mathutil.IntMax(mathutil.IntMax(1, d.MoveIntervalMin), interval)
}

// CountAt returns how many agents of this variant a level starts with.
func (d Definition) CountAt(level int) int {
	count := d.CountBase + int(float64(level-1)*d.CountPerLevel)
	if d.CountMax > 0 {
		count = mathutil.IntMin(count, d.CountMax)
	}
	return mathutil.IntMax(0, count)
}

// DefaultDefinitions returns the coded baseline variant records.
// Tests run against these.
func DefaultDefinitions() Definitions {
	return Definitions{
		VariantPatroller: {
			Name:                 "Patroller",
			MoveInterval:         30,
			MoveIntervalPerLevel: 1.5,
			MoveIntervalMin:      12,
			ChaseIntervalScale:   0.7,
			ChaseRange:           6,
			ChaseBuffer:          4,
			CanChase:             true,
			ChecksOccupancy:      true,
			PatrolRange:          4,
			CountBase:            3,
			CountPerLevel:        0.75,
			CountMax:             12,
		},
		VariantDog: {
			Name:                 "Dog",
			MoveInterval:         20,
			MoveIntervalPerLevel: 1,
			MoveIntervalMin:      8,
			ChaseIntervalScale:   0.5,
			ChaseRange:           8,
			ChaseBuffer:          4,
			CanChase:             true,
			ChecksOccupancy:      true,
			PatrolRange:          6,
			CountBase:            1,
			CountPerLevel:        0.5,
			CountMax:             6,
		},
		VariantBoss: {
			Name:                 "Boss",
			MoveInterval:         40,
			MoveIntervalPerLevel: 2,
			MoveIntervalMin:      16,
			ChaseIntervalScale:   0.6,
			ChaseRange:           10,
			ChaseBuffer:          5,
			CanChase:             true,
			ChecksOccupancy:      true,
			PatrolRange:          8,
			CountBase:            0,
			CountPerLevel:        0.34,
			CountMax:             2,
		},
		VariantSpecialMonster: {
			Name:                 "Special Monster",
			MoveInterval:         45,
			MoveIntervalPerLevel: 0,
			MoveIntervalMin:      45,
			ChaseIntervalScale:   1.0,
			ChaseRange:           0,
			ChaseBuffer:          0,
			CanChase:             false,
			ChecksOccupancy:      false,
			PatrolRange:          3,
			CountBase:            1,
			CountPerLevel:        0.25,
			CountMax:             3,
		},
	}
}

// LoadDefinitions reads variant records from a YAML file keyed by
// variant name, overlaying the defaults.
func LoadDefinitions(filename string) (Definitions, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent config file: %w", err)
	}

	var raw struct {
		Agents map[string]Definition `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse agent config YAML: %w", err)
	}

	defs := DefaultDefinitions()
	for key, def := range raw.Agents {
		v, ok := VariantFromKey(key)
		if !ok {
			return nil, fmt.Errorf("unknown agent variant %q in config", key)
		}
		defs[v] = def
	}

	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return defs, nil
}

// MustLoadDefinitions loads variant records and panics on error.
func MustLoadDefinitions(filename string) Definitions {
	defs, err := LoadDefinitions(filename)
	if err != nil {
		panic("failed to load agent definitions: " + err.Error())
	}
	return defs
}

// Validate checks every variant has a usable record.
func (defs Definitions) Validate() error {
	for _, v := range Variants {
		def, ok := defs[v]
		if !ok {
			return fmt.Errorf("missing definition for variant %s", v)
		}
		if def.MoveInterval < 1 {
			return fmt.Errorf("%s: move_interval must be at least 1", v)
		}
		if def.ChaseIntervalScale <= 0 || def.ChaseIntervalScale > 1 {
			return fmt.Errorf("%s: chase_interval_scale must be in (0, 1]", v)
		}
		if def.CanChase && def.ChaseRange < 1 {
			return fmt.Errorf("%s: chase-capable variant needs a positive chase_range", v)
		}
		if def.PatrolRange < 1 {
			return fmt.Errorf("%s: patrol_range must be at least 1", v)
		}
	}
	return nil
}
