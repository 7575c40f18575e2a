package config

import (
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoadDefaults(t *testing.T) {
	resetViper()
	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"InputDir", cfg.InputDir, "."},
		{"Output", cfg.Output, "consolidated.xlsx"},
		{"CachePath", cfg.CachePath, ""},
		{"RunLogPath", cfg.RunLogPath, ".sheaf.runs.toml"},
		{"DebounceMS", cfg.DebounceMS, 500},
		{"TUI", cfg.TUI, false},
		{"Verbose", cfg.Verbose, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	resetViper()
	viper.Set("input_dir", "/data/sheets")
	viper.Set("output", "merged.xlsx")
	viper.Set("cache_path", "/tmp/sheaf.db")
	viper.Set("tui", true)

	cfg := Load()
	if cfg.InputDir != "/data/sheets" {
		t.Errorf("InputDir = %q", cfg.InputDir)
	}
	if cfg.Output != "merged.xlsx" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.CachePath != "/tmp/sheaf.db" {
		t.Errorf("CachePath = %q", cfg.CachePath)
	}
	if !cfg.TUI {
		t.Error("TUI should be true")
	}
}
