package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name looked up in the config directories.
const ConfigFile = "tetris.yaml"

// LoadTetris loads the game configuration.
// Search order: customPath -> ~/.tetris/configs/tetris.yaml -> ./configs/tetris.yaml -> embedded default.
// Keys missing from a file keep their default values. A custom path that
// cannot be read or parsed is an error; the other locations are optional.
func LoadTetris(customPath string) (TetrisConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return TetrisConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return TetrisConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultTetrisYAML)
	if err != nil {
		return DefaultTetrisConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte) (TetrisConfig, error) {
	cfg := DefaultTetrisConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TetrisConfig{}, err
	}
	return cfg, nil
}

func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetris", "configs", filename)
}

// ParsePreset converts a preset name; the empty string means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q", name)
}

// ApplyTetrisPreset moves gravity, lock delay and level from the file's
// base values toward the difficulty limits. The result is static for the
// whole game.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		return
	}
	t := InitialLevelForPreset(preset)
	d := cfg.Difficulty

	if d.MaxGravityRate > cfg.Timing.GravityRate {
		cfg.Timing.GravityRate = lerp(cfg.Timing.GravityRate, d.MaxGravityRate, t)
	}
	if d.MinLockDelay > 0 && d.MinLockDelay < cfg.Timing.LockDelay {
		cfg.Timing.LockDelay = lerp(cfg.Timing.LockDelay, d.MinLockDelay, t)
	}
	if d.MaxLevel > cfg.Level {
		cfg.Level += int(math.Round(t * float64(d.MaxLevel-cfg.Level)))
	}
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*clampF(t, 0, 1)
}

func clampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Validate clamps the preview length to what the bag can serve and checks
// the rest against the engine's limits.
func (c *TetrisConfig) Validate() error {
	if c.Preview > engine.MaxPreview {
		c.Preview = engine.MaxPreview
	}
	if len(c.Scoring.ClearedLines) != 4 {
		return fmt.Errorf("config: scoring.cleared_lines needs 4 entries, got %d", len(c.Scoring.ClearedLines))
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Settings converts the configuration into engine settings.
func (c TetrisConfig) Settings() engine.Settings {
	s := engine.Settings{
		FieldWidth:          c.Field.Width,
		FieldHeight:         c.Field.Height,
		FieldOverflowHeight: c.Field.Overflow,
		GravityRate:         c.Timing.GravityRate,
		LockDelaySeconds:    c.Timing.LockDelay,
		SoftDropFactor:      c.Timing.SoftDropFactor,
		PreviewLength:       c.Preview,
		Level:               c.Level,
	}
	copy(s.ClearedLinesScore[:], c.Scoring.ClearedLines)
	return s
}

// FromSettings builds a configuration that reproduces s. Used when a replay
// stores the exact settings it was played with.
func FromSettings(s engine.Settings) TetrisConfig {
	cfg := DefaultTetrisConfig()
	cfg.Field = TetrisField{Width: s.FieldWidth, Height: s.FieldHeight, Overflow: s.FieldOverflowHeight}
	cfg.Timing = TetrisTiming{
		GravityRate:    s.GravityRate,
		LockDelay:      s.LockDelaySeconds,
		SoftDropFactor: s.SoftDropFactor,
	}
	cfg.Preview = s.PreviewLength
	cfg.Level = s.Level
	cfg.Scoring.ClearedLines = append([]int(nil), s.ClearedLinesScore[:]...)
	return cfg
}

// Marshal encodes the configuration as YAML.
func (c TetrisConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a YAML document on top of the defaults.
func Unmarshal(data []byte) (TetrisConfig, error) {
	cfg, err := parse(data)
	if err != nil {
		return TetrisConfig{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
