package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for a sheaf invocation.
// Values are populated from .sheaf.yaml, SHEAF_* env vars, and CLI flags.
type Config struct {
	InputDir   string `mapstructure:"input_dir"`
	Output     string `mapstructure:"output"`
	CachePath  string `mapstructure:"cache_path"`
	RunLogPath string `mapstructure:"run_log_path"`
	DebounceMS int    `mapstructure:"debounce_ms"`
	TUI        bool   `mapstructure:"tui"`
	Verbose    bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for
// any values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("input_dir", ".")
	viper.SetDefault("output", "consolidated.xlsx")
	viper.SetDefault("cache_path", "")
	viper.SetDefault("run_log_path", ".sheaf.runs.toml")
	viper.SetDefault("debounce_ms", 500)
	viper.SetDefault("tui", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
