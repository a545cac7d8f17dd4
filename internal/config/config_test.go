package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

func TestDefaultYAMLMatchesDefaults(t *testing.T) {
	var cfg T2048Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	def := DefaultT2048Config()

	if cfg.SettleMS != def.SettleMS {
		t.Errorf("settle_ms = %d, want %d", cfg.SettleMS, def.SettleMS)
	}
	if len(cfg.Tiers) != len(def.Tiers) {
		t.Fatalf("tiers len = %d, want %d", len(cfg.Tiers), len(def.Tiers))
	}
	for i := range def.Tiers {
		if cfg.Tiers[i] != def.Tiers[i] {
			t.Errorf("tier %d = %d, want %d", i, cfg.Tiers[i], def.Tiers[i])
		}
	}
	if len(cfg.Presets) != len(def.Presets) {
		t.Fatalf("presets len = %d, want %d", len(cfg.Presets), len(def.Presets))
	}
	for i := range def.Presets {
		if cfg.Presets[i] != def.Presets[i] {
			t.Errorf("preset %d = %+v, want %+v", i, cfg.Presets[i], def.Presets[i])
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := DefaultT2048Config

	tests := []struct {
		name   string
		mutate func(*T2048Config)
		ok     bool
	}{
		{"defaults", func(*T2048Config) {}, true},
		{"negative settle", func(c *T2048Config) { c.SettleMS = -1 }, false},
		{"empty tiers", func(c *T2048Config) { c.Tiers = nil }, false},
		{"first tier not power of two", func(c *T2048Config) { c.Tiers = []int{3, 6} }, false},
		{"tier gap", func(c *T2048Config) { c.Tiers = []int{2, 4, 16} }, false},
		{"start at four", func(c *T2048Config) { c.Tiers = []int{4, 8, 16} }, true},
		{"no presets", func(c *T2048Config) { c.Presets = nil }, false},
		{"narrow preset", func(c *T2048Config) {
			c.Presets = []BoardPreset{{ID: "thin", Width: 1, Height: 4}}
		}, false},
		{"missing id", func(c *T2048Config) {
			c.Presets = []BoardPreset{{Width: 4, Height: 4}}
		}, false},
		{"duplicate id", func(c *T2048Config) {
			c.Presets = []BoardPreset{
				{ID: "a", Width: 4, Height: 4},
				{ID: "a", Width: 3, Height: 3},
			}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("error %v does not wrap ErrInvalidConfig", err)
				}
			}
		})
	}
}

func TestPresetLookup(t *testing.T) {
	cfg := DefaultT2048Config()

	p, ok := cfg.Preset("2048-5x5")
	if !ok {
		t.Fatal("preset 2048-5x5 not found")
	}
	if p.Width != 5 || p.Height != 5 {
		t.Errorf("preset size = %dx%d, want 5x5", p.Width, p.Height)
	}
	if _, ok := cfg.Preset("nope"); ok {
		t.Error("unknown preset reported as found")
	}
}

func TestColorForClampsToLastTier(t *testing.T) {
	cfg := DefaultT2048Config()
	last := cfg.Colors[len(cfg.Colors)-1]

	if got := cfg.ColorFor(0); got != cfg.Colors[0] {
		t.Errorf("ColorFor(0) = %q, want %q", got, cfg.Colors[0])
	}
	if got := cfg.ColorFor(100); got != last {
		t.Errorf("ColorFor(100) = %q, want %q", got, last)
	}
	if got := (T2048Config{}).ColorFor(3); got != "" {
		t.Errorf("ColorFor without colors = %q, want empty", got)
	}
}

func TestSettleInterval(t *testing.T) {
	cfg := T2048Config{SettleMS: 250}
	if got := cfg.SettleInterval(); got != 250*time.Millisecond {
		t.Errorf("SettleInterval() = %v, want 250ms", got)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t2048.yaml")
	data := []byte("settle_ms: 0\npresets:\n  - id: tiny\n    title: Tiny\n    width: 2\n    height: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadT2048(path, nil)
	if err != nil {
		t.Fatalf("LoadT2048: %v", err)
	}
	if len(cfg.Presets) != 1 || cfg.Presets[0].ID != "tiny" {
		t.Errorf("presets = %+v, want only tiny", cfg.Presets)
	}
	if len(cfg.Tiers) == 0 {
		t.Error("tiers not filled from defaults")
	}
	if cfg.SettleInterval() != 0 {
		t.Errorf("settle = %v, want 0", cfg.SettleInterval())
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	data := []byte("presets:\n  - id: line\n    width: 1\n    height: 4\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadT2048(path, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadT2048 error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := LoadT2048(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestLoadKeepsDefaultSettleWhenOmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t2048.yaml")
	data := []byte("presets:\n  - id: tiny\n    title: Tiny\n    width: 2\n    height: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadT2048(path, nil)
	if err != nil {
		t.Fatalf("LoadT2048: %v", err)
	}
	if want := DefaultT2048Config().SettleMS; cfg.SettleMS != want {
		t.Errorf("settle_ms = %d, want default %d", cfg.SettleMS, want)
	}
}

func TestReadSkipsBrokenDiscoveredFile(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(broken, []byte("presets: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(good, []byte("settle_ms: 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	cfg, err := readT2048("", []string{filepath.Join(dir, "missing.yaml"), broken, good}, log.New(&buf))
	if err != nil {
		t.Fatalf("readT2048: %v", err)
	}
	if cfg.SettleMS != 40 {
		t.Errorf("settle_ms = %d, want 40 from the second file", cfg.SettleMS)
	}
	if !bytes.Contains(buf.Bytes(), []byte("skipping invalid config")) {
		t.Errorf("broken file not logged: %q", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte("missing.yaml")) {
		t.Errorf("missing file should be skipped quietly: %q", buf.String())
	}
}

func TestReadFallsBackToEmbedded(t *testing.T) {
	cfg, err := readT2048("", []string{filepath.Join(t.TempDir(), "none.yaml")}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("readT2048: %v", err)
	}
	if len(cfg.Presets) == 0 || cfg.SettleMS != DefaultT2048Config().SettleMS {
		t.Errorf("embedded default not used: %+v", cfg)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "t2048.yaml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, DefaultYAML()) {
		t.Error("written file differs from the embedded default")
	}
	if err := WriteDefault(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second write error = %v, want ErrConfigExists", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("forced write: %v", err)
	}
}
