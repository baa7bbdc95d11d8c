// Package config provides YAML-based game configuration loading and
// difficulty presets for the tetris platform.
package config

// TetrisConfig contains all configuration for the game.
type TetrisConfig struct {
	Field      TetrisField      `yaml:"field"`
	Timing     TetrisTiming     `yaml:"timing"`
	Preview    int              `yaml:"preview_length"`
	Level      int              `yaml:"level"`
	Scoring    TetrisScoring    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TetrisField defines the playfield geometry.
type TetrisField struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Overflow int `yaml:"overflow"` // hidden rows above the visible field
}

// TetrisTiming defines gravity and lock delay.
type TetrisTiming struct {
	GravityRate    float64 `yaml:"gravity_rate"` // rows per second
	LockDelay      float64 `yaml:"lock_delay"`   // seconds
	SoftDropFactor float64 `yaml:"soft_drop_factor"`
}

// TetrisScoring defines the reward table for clearing 1..4 rows at level 1.
type TetrisScoring struct {
	ClearedLines []int `yaml:"cleared_lines"`
}

// DifficultyConfig bounds what a difficulty preset can do to timing.
// Presets pick a fixed point between the base timing and these limits;
// nothing changes while a game is running.
type DifficultyConfig struct {
	MaxGravityRate float64 `yaml:"max_gravity_rate"`
	MinLockDelay   float64 `yaml:"min_lock_delay"`
	MaxLevel       int     `yaml:"max_level"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the accepted preset names.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// InitialLevelForPreset returns how far (0.0 to 1.0) a preset moves timing
// from the base values toward the difficulty limits.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset leaves the file's values untouched.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
