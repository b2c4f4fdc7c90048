// Package toolconfig holds the assembler tool's own local preferences,
// distinct from the project manifest (package manifest), which travels with
// a project. Configuration lives in a TOML file under a platform-specific
// config directory.
package toolconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the ecfasm tool's local configuration.
type Config struct {
	Debug struct {
		EmitParsed      bool   `toml:"emit_parsed"`
		EmitSpaced      bool   `toml:"emit_spaced"`
		EmitAddressed   bool   `toml:"emit_addressed"`
		EmitImplemented bool   `toml:"emit_implemented"`
		EmitSummary     bool   `toml:"emit_summary"`
		Dir             string `toml:"dir"`
	} `toml:"debug"`

	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		NumberFormat string `toml:"number_format"` // hex, dec
	} `toml:"display"`

	Tables struct {
		WriteFile        string `toml:"write_file"`
		ReadFile         string `toml:"read_file"`
		InstructionsFile string `toml:"instructions_file"`
	} `toml:"tables"`
}

// DefaultConfig returns a Config with the tool's shipped defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Debug.EmitParsed = true
	cfg.Debug.EmitSpaced = true
	cfg.Debug.EmitAddressed = true
	cfg.Debug.EmitImplemented = true
	cfg.Debug.EmitSummary = false
	cfg.Debug.Dir = "Debug"

	cfg.Display.ColorOutput = true
	cfg.Display.NumberFormat = "dec"

	cfg.Tables.WriteFile = "write_addresses.tsv"
	cfg.Tables.ReadFile = "read_addresses.tsv"
	cfg.Tables.InstructionsFile = "instructions.tsv"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "ecfasm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "ecfasm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file
// yields defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
