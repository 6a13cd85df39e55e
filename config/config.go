// Package config loads classkit settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrhapile/classkit/fluid"
	"github.com/mrhapile/classkit/logging"
	"github.com/mrhapile/classkit/testunit"
)

// Config is the full configuration file.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Runner RunnerConfig `yaml:"runner"`
}

// ServerConfig configures cmd/server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig selects the plugin store.
type StoreConfig struct {
	Kind string `yaml:"kind"` // "local" or "fluid"
	Path string `yaml:"path"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level string `yaml:"level"`
}

// RunnerConfig configures `classkit test`.
type RunnerConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Store:  StoreConfig{Kind: fluid.KindLocal, Path: "plugins"},
		Log:    LogConfig{Level: "info"},
		Runner: RunnerConfig{Level: "normal"},
	}
}

// Load reads path on top of the defaults. An empty path returns the
// defaults; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every enumerated field.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Store.Kind != fluid.KindLocal && c.Store.Kind != fluid.KindFluid {
		errs = append(errs, fmt.Errorf("store.kind %q must be %q or %q", c.Store.Kind, fluid.KindLocal, fluid.KindFluid))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := testunit.ParseOutputLevel(c.Runner.Level); err != nil {
		errs = append(errs, fmt.Errorf("runner.level: %w", err))
	}
	return errors.Join(errs...)
}
