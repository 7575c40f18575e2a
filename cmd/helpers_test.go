package cmd

import "github.com/marenkov/sheaf/internal/config"

// configFixture returns a Config with the built-in defaults, without
// touching global viper state.
func configFixture() config.Config {
	return config.Config{
		InputDir:   ".",
		Output:     "consolidated.xlsx",
		RunLogPath: ".sheaf.runs.toml",
		DebounceMS: 500,
	}
}
