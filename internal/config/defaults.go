package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the built-in configuration. It matches the
// embedded defaults/tetris.yaml.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Field: TetrisField{
			Width:    10,
			Height:   20,
			Overflow: 4,
		},
		Timing: TetrisTiming{
			GravityRate:    1.0,
			LockDelay:      0.5,
			SoftDropFactor: 20.0,
		},
		Preview: 5,
		Level:   1,
		Scoring: TetrisScoring{
			ClearedLines: []int{100, 300, 500, 800},
		},
		Difficulty: DifficultyConfig{
			MaxGravityRate: 20.0,
			MinLockDelay:   0.25,
			MaxLevel:       10,
		},
	}
}

// DefaultTetrisYAML returns the embedded default configuration file.
func DefaultTetrisYAML() []byte {
	return defaultTetrisYAML
}
