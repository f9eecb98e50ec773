// Package config provides YAML configuration parsing for the plotcast CLI.
//
// Configuration lives in a single file with defaults for every field, so an
// absent or partial file is always usable. CLI flags override file values.
//
// Example configuration:
//
//	host: 127.0.0.1
//	port: 7878
//	history_limit: 200
//	open_browser: true
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values applied when the config file is absent or partial.
const (
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 7878
	DefaultHistoryLimit = 200
)

// Config is the root configuration for the plotcast CLI.
//
// It maps directly to the YAML configuration file. Use [Load] or [Parse] to
// create one; both apply defaults and validate.
type Config struct {
	// Host is the interface the server binds. Defaults to loopback.
	Host string `yaml:"host"`

	// Port is the TCP port to bind. 0 picks an ephemeral port.
	// Defaults to 7878.
	Port int `yaml:"port"`

	// HistoryLimit is the maximum number of artifacts retained for replay.
	// Defaults to 200.
	HistoryLimit int `yaml:"history_limit"`

	// OpenBrowser controls whether `plotcast serve` opens the viewer UI in
	// the default browser on startup. Defaults to true.
	OpenBrowser bool `yaml:"open_browser"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Host:         DefaultHost,
		Port:         DefaultPort,
		HistoryLimit: DefaultHistoryLimit,
		OpenBrowser:  true,
	}
}

// DefaultPath returns the platform config file location,
// e.g. ~/.config/plotcast/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "plotcast", "config.yaml"), nil
}

// Load reads and parses a YAML configuration file.
//
// A missing file is not an error: defaults are returned. Any other read
// failure, a parse failure, or an invalid value is.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data, applying defaults for absent fields
// and validating the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", c.Port)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	return nil
}

// WriteDefault writes a default config file to path, creating parent
// directories as needed. Existing files are not overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	contents, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	header := "# plotcast configuration\n# All fields are optional; missing fields use defaults.\n\n"
	if err := os.WriteFile(path, append([]byte(header), contents...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
