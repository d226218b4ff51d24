// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Storage  StorageConfig  `toml:"storage"`
}

// PracticeConfig maps practice-related settings. Unset fields leave the
// profile's stored settings untouched.
type PracticeConfig struct {
	Difficulty *string `toml:"difficulty"`
	Source     *string `toml:"source"`
	CustomText *string `toml:"custom-text"`
	WordList   *string `toml:"wordlist"`
}

// StorageConfig maps storage settings.
type StorageConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DefaultConfigTemplate is written when the user opens a config that does not exist yet.
const DefaultConfigTemplate = `# typetastic configuration

[practice]
# difficulty = "easy"      # easy, medium, hard
# source = "quotes"        # random, quotes, pangram, custom
# custom-text = "The quick brown fox jumps over the lazy dog."
# wordlist = ""            # newline-separated words used by the random source

[storage]
# path = ""                # SQLite database path
`

// EnsureConfigFile creates the config file with the default template if it
// does not exist.
func EnsureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
