package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/castlechase/boss"
	"github.com/milk9111/castlechase/mapgen"
)

// TableFile is the name of the difficulty table.
const TableFile = "difficulty.yaml"

var (
	ErrUnknownDifficulty = errors.New("config: unknown difficulty")
	ErrInvalid           = errors.New("config: invalid difficulty")
)

// Difficulty is one level's tuning knobs.
type Difficulty struct {
	MapTiles        int     `yaml:"map_tiles"`
	ObstacleDensity float64 `yaml:"obstacle_density"`
	KeyCount        int     `yaml:"key_count"`

	KnightSpeedBase     float64       `yaml:"knight_speed_base"`
	KnightSpeedMax      float64       `yaml:"knight_speed_max"`
	KnightSpeedRamp     string        `yaml:"knight_speed_ramp"`
	MaxKnights          int           `yaml:"max_knights"`
	KnightSpawnInterval time.Duration `yaml:"knight_spawn_interval"`
	FirstKnightDelay    time.Duration `yaml:"first_knight_delay"`

	FireballSpeed         float64       `yaml:"fireball_speed"`
	AttackCooldownMin     time.Duration `yaml:"attack_cooldown_min"`
	AttackCooldownMax     time.Duration `yaml:"attack_cooldown_max"`
	StunDuration          time.Duration `yaml:"stun_duration"`
	RollTelegraphDuration time.Duration `yaml:"roll_telegraph_duration"`
	SpinDuration          time.Duration `yaml:"spin_duration"`
	SpinRevolutions       int           `yaml:"spin_revolutions"`
	SpinFireballsPerRev   int           `yaml:"spin_fireballs_per_rev"`

	BombsToWin        int           `yaml:"bombs_to_win"`
	BombSpawnInterval time.Duration `yaml:"bomb_spawn_interval"`
}

// Validate rejects values the generator and encounter do not handle.
func (d Difficulty) Validate() error {
	if minSize := mapgen.MinMapSize(mapgen.DefaultOptions()); d.MapTiles < minSize {
		return fmt.Errorf("%w: map_tiles %d below minimum %d", ErrInvalid, d.MapTiles, minSize)
	}
	if d.ObstacleDensity < 0 || d.ObstacleDensity >= 1 {
		return fmt.Errorf("%w: obstacle_density %v outside [0, 1)", ErrInvalid, d.ObstacleDensity)
	}
	if d.KeyCount < 0 {
		return fmt.Errorf("%w: key_count %d is negative", ErrInvalid, d.KeyCount)
	}
	if d.KnightSpeedBase < 0 || d.KnightSpeedMax < d.KnightSpeedBase {
		return fmt.Errorf("%w: knight speed range [%v, %v]", ErrInvalid, d.KnightSpeedBase, d.KnightSpeedMax)
	}
	if d.MaxKnights < 0 {
		return fmt.Errorf("%w: max_knights %d is negative", ErrInvalid, d.MaxKnights)
	}
	if d.KnightSpawnInterval <= 0 {
		return fmt.Errorf("%w: knight_spawn_interval must be positive", ErrInvalid)
	}
	if d.AttackCooldownMin < 0 || d.AttackCooldownMin > d.AttackCooldownMax {
		return fmt.Errorf("%w: attack cooldown range [%v, %v]", ErrInvalid, d.AttackCooldownMin, d.AttackCooldownMax)
	}
	if d.SpinRevolutions <= 0 || d.SpinFireballsPerRev <= 0 {
		return fmt.Errorf("%w: spin needs positive revolutions and fireballs per revolution", ErrInvalid)
	}
	if d.SpinDuration <= 0 {
		return fmt.Errorf("%w: spin_duration must be positive", ErrInvalid)
	}
	if d.BombsToWin <= 0 || d.BombSpawnInterval <= 0 {
		return fmt.Errorf("%w: bombs_to_win and bomb_spawn_interval must be positive", ErrInvalid)
	}
	return nil
}

// BossConfig returns the dragon's tuning for this level.
func (d Difficulty) BossConfig() boss.Config {
	cfg := boss.DefaultConfig()
	cfg.CooldownMin = d.AttackCooldownMin
	cfg.CooldownMax = d.AttackCooldownMax
	cfg.TelegraphDuration = d.RollTelegraphDuration
	cfg.StunDuration = d.StunDuration
	cfg.SpinDuration = d.SpinDuration
	cfg.SpinRevolutions = d.SpinRevolutions
	cfg.SpinPerRevolution = d.SpinFireballsPerRev
	cfg.ProjectileSpeed = d.FireballSpeed
	return cfg
}

// Table is the full set of difficulty levels.
type Table struct {
	Default string                `yaml:"default"`
	Levels  map[string]Difficulty `yaml:"levels"`
}

// Get returns the named level; an empty name selects the default.
func (t Table) Get(name string) (Difficulty, error) {
	if name == "" {
		name = t.Default
	}
	d, ok := t.Levels[name]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
	}
	return d, nil
}

// Names returns the level names in a stable order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.Levels))
	for name := range t.Levels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return t.Levels[names[i]].MapTiles < t.Levels[names[j]].MapTiles ||
			(t.Levels[names[i]].MapTiles == t.Levels[names[j]].MapTiles && names[i] < names[j])
	})
	return names
}

// LoadTable reads the difficulty table, disk override first.
func LoadTable() (Table, error) {
	data, err := Load(TableFile)
	if err != nil {
		return Table{}, fmt.Errorf("config: load %s: %w", TableFile, err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a difficulty table.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("config: parse %s: %w", TableFile, err)
	}
	if len(t.Levels) == 0 {
		return Table{}, fmt.Errorf("%w: no levels defined", ErrInvalid)
	}
	for name, d := range t.Levels {
		if err := d.Validate(); err != nil {
			return Table{}, fmt.Errorf("config: level %s: %w", name, err)
		}
	}
	if _, ok := t.Levels[t.Default]; !ok {
		return Table{}, fmt.Errorf("config: default: %w: %q", ErrUnknownDifficulty, t.Default)
	}
	return t, nil
}
