package engine

import (
	"errors"
	"fmt"
)

// Settings are the tunables of a session. Loading them is the caller's
// job; NewSession only accepts settings that pass Validate.
type Settings struct {
	FieldWidth          int
	FieldHeight         int
	FieldOverflowHeight int

	GravityRate      float64 // rows per second
	LockDelaySeconds float64
	SoftDropFactor   float64 // gravity multiplier while soft drop is held

	PreviewLength int // at most MaxPreview
	Level         int

	ClearedLinesScore [4]int // reward for 1..4 rows at level 1
}

// DefaultSettings returns the standard 10x20 game.
func DefaultSettings() Settings {
	return Settings{
		FieldWidth:          10,
		FieldHeight:         20,
		FieldOverflowHeight: 4,
		GravityRate:         1,
		LockDelaySeconds:    0.5,
		SoftDropFactor:      20,
		PreviewLength:       5,
		Level:               1,
		ClearedLinesScore:   [4]int{100, 300, 500, 800},
	}
}

const (
	minFieldWidth = 4 // widest piece
	minOverflow   = 2 // spawned pieces reach one row above row 0
)

// Validate reports every out-of-range field.
func (s Settings) Validate() error {
	var errs []error
	if s.FieldWidth < minFieldWidth {
		errs = append(errs, fmt.Errorf("field width %d is below %d", s.FieldWidth, minFieldWidth))
	}
	if s.FieldHeight < 1 {
		errs = append(errs, fmt.Errorf("field height %d must be positive", s.FieldHeight))
	}
	if s.FieldOverflowHeight < minOverflow {
		errs = append(errs, fmt.Errorf("overflow height %d is below %d", s.FieldOverflowHeight, minOverflow))
	}
	if s.GravityRate < 0 {
		errs = append(errs, fmt.Errorf("gravity rate %g is negative", s.GravityRate))
	}
	if s.LockDelaySeconds < 0 {
		errs = append(errs, fmt.Errorf("lock delay %g is negative", s.LockDelaySeconds))
	}
	if s.SoftDropFactor < 1 {
		errs = append(errs, fmt.Errorf("soft drop factor %g is below 1", s.SoftDropFactor))
	}
	if s.PreviewLength < 0 || s.PreviewLength > MaxPreview {
		errs = append(errs, fmt.Errorf("preview length %d is outside 0..%d", s.PreviewLength, MaxPreview))
	}
	if s.Level < 1 {
		errs = append(errs, fmt.Errorf("level %d must be at least 1", s.Level))
	}
	for i, v := range s.ClearedLinesScore {
		if v < 0 {
			errs = append(errs, fmt.Errorf("score for %d lines is negative", i+1))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("engine: invalid settings: %w", err)
	}
	return nil
}
