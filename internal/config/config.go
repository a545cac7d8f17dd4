// Package config provides YAML-based configuration loading for the 2048
// board presets, tile tiers and move timing.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// MinBoardSide is the smallest allowed width or height of a preset.
const MinBoardSide = 2

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	SettleMS int           `yaml:"settle_ms"` // Delay after a move before the next spawn
	Tiers    []int         `yaml:"tiers"`     // Value progression, first = spawn value
	Colors   []string      `yaml:"colors"`    // Optional color name per tier
	Presets  []BoardPreset `yaml:"presets"`
}

// BoardPreset defines a playable board size.
type BoardPreset struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// SettleInterval returns the settle delay as a duration.
func (c T2048Config) SettleInterval() time.Duration {
	return time.Duration(c.SettleMS) * time.Millisecond
}

// Preset returns the preset with the given ID.
func (c T2048Config) Preset(id string) (BoardPreset, bool) {
	for _, p := range c.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return BoardPreset{}, false
}

// ColorFor returns the configured color name for a tier index.
// Indexes past the end of the list use the last color.
func (c T2048Config) ColorFor(tier int) string {
	if len(c.Colors) == 0 {
		return ""
	}
	if tier < 0 {
		tier = 0
	}
	if tier >= len(c.Colors) {
		tier = len(c.Colors) - 1
	}
	return c.Colors[tier]
}

// Validate checks presets, tiers and timing. Invalid configuration is a
// startup error.
func (c T2048Config) Validate() error {
	var errs []error

	if c.SettleMS < 0 {
		errs = append(errs, fmt.Errorf("%w: settle_ms %d is negative", ErrInvalidConfig, c.SettleMS))
	}

	if len(c.Tiers) == 0 {
		errs = append(errs, fmt.Errorf("%w: tiers must not be empty", ErrInvalidConfig))
	} else {
		if first := c.Tiers[0]; first < 2 || first&(first-1) != 0 {
			errs = append(errs, fmt.Errorf("%w: first tier %d is not a power of two >= 2", ErrInvalidConfig, first))
		}
		for i := 1; i < len(c.Tiers); i++ {
			if c.Tiers[i] != c.Tiers[i-1]*2 {
				errs = append(errs, fmt.Errorf("%w: tier %d is %d, want %d", ErrInvalidConfig, i, c.Tiers[i], c.Tiers[i-1]*2))
			}
		}
	}

	if len(c.Presets) == 0 {
		errs = append(errs, fmt.Errorf("%w: no presets defined", ErrInvalidConfig))
	}
	seen := make(map[string]bool, len(c.Presets))
	for i, p := range c.Presets {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("%w: preset %d has no id", ErrInvalidConfig, i))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("%w: duplicate preset id %q", ErrInvalidConfig, p.ID))
		}
		seen[p.ID] = true
		if p.Width < MinBoardSide || p.Height < MinBoardSide {
			errs = append(errs, fmt.Errorf("%w: preset %q is %dx%d, both sides must be >= %d",
				ErrInvalidConfig, p.ID, p.Width, p.Height, MinBoardSide))
		}
	}

	return errors.Join(errs...)
}
