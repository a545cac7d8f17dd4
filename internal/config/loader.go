package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const configFile = "t2048.yaml"

// ErrConfigExists is returned by WriteDefault when it would overwrite a file.
var ErrConfigExists = errors.New("config: file already exists")

// LoadT2048 loads the 2048 configuration and validates it.
// Search order: customPath -> ~/.t2048/configs/t2048.yaml -> ./configs/t2048.yaml -> embedded default.
// A custom path must exist and parse. Discovered files that cannot be read
// or parsed are logged and skipped. logger may be nil.
func LoadT2048(customPath string, logger *log.Logger) (T2048Config, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg, err := readT2048(customPath, searchPaths(), logger)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func searchPaths() []string {
	var paths []string
	if p := UserConfigPath(); p != "" {
		paths = append(paths, p)
	}
	return append(paths, filepath.Join("configs", configFile))
}

func readT2048(customPath string, candidates []string, logger *log.Logger) (T2048Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return T2048Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseT2048(data)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("skipping unreadable config", "path", path, "err", err)
			}
			continue
		}
		cfg, err := parseT2048(data)
		if err != nil {
			logger.Warn("skipping invalid config", "path", path, "err", err)
			continue
		}
		logger.Debug("config loaded", "path", path)
		return cfg, nil
	}

	cfg, err := parseT2048(defaultT2048YAML)
	if err != nil {
		return DefaultT2048Config(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseT2048 decodes a config file. Keys the file leaves out keep their
// default values; an explicit settle_ms: 0 still selects synchronous
// settling.
func parseT2048(data []byte) (T2048Config, error) {
	cfg := T2048Config{SettleMS: DefaultT2048Config().SettleMS}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return T2048Config{}, err
	}
	return withDefaults(cfg), nil
}

// withDefaults fills sections a partial user file left out.
func withDefaults(cfg T2048Config) T2048Config {
	def := DefaultT2048Config()
	if len(cfg.Tiers) == 0 {
		cfg.Tiers = def.Tiers
		if len(cfg.Colors) == 0 {
			cfg.Colors = def.Colors
		}
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = def.Presets
	}
	return cfg
}

// UserConfigPath returns ~/.t2048/configs/t2048.yaml, or empty if home is unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "configs", configFile)
}

// WriteDefault writes the embedded default config to path, creating its
// directory. An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory: %w", err)
	}
	if err := os.WriteFile(path, defaultT2048YAML, 0o644); err != nil {
		return fmt.Errorf("config: cannot write %s: %w", path, err)
	}
	return nil
}
