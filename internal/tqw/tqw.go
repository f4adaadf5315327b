// Package tqw loads CLI preferences from a TOML file: the REPL's default
// configuration path, numeric display precision, and prompt string.
package tqw

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Preferences is the REPL's on-disk settings file.
type Preferences struct {
	// ConfigPath is the unit catalog JSON configuration to load on startup,
	// used when the --config flag is not given on the command line.
	ConfigPath string `toml:"config_path"`

	// Prompt is the REPL's prompt string.
	Prompt string `toml:"prompt"`

	// HistoryFile is where readline persists command history between runs.
	HistoryFile string `toml:"history_file"`
}

// DefaultPreferences is returned when no preferences file exists.
func DefaultPreferences() Preferences {
	return Preferences{
		ConfigPath: "config.json",
		Prompt:     "units> ",
	}
}

// Load reads preferences from path. A missing file is not an error; it
// yields DefaultPreferences so a first-run REPL has sane defaults.
func Load(path string) (Preferences, error) {
	prefs := DefaultPreferences()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, err
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

// Save writes prefs to path in TOML form.
func Save(path string, prefs Preferences) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(prefs)
}
