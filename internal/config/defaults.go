package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the built-in 2048 configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		SettleMS: 100,
		Tiers:    []int{2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048},
		Colors: []string{
			"white", "bright_white", "yellow", "orange", "bright_red", "red",
			"bright_yellow", "bright_green", "green", "bright_cyan", "bright_magenta",
		},
		Presets: []BoardPreset{
			{ID: "2048", Title: "2048", Width: 4, Height: 4},
			{ID: "2048-3x3", Title: "2048 Mini (3x3)", Width: 3, Height: 3},
			{ID: "2048-5x5", Title: "2048 Big (5x5)", Width: 5, Height: 5},
			{ID: "2048-6x4", Title: "2048 Wide (6x4)", Width: 6, Height: 4},
		},
	}
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return defaultT2048YAML
}
