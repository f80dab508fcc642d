// Package config loads the statestore CLI configuration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
)

// Config is the root configuration document.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Journal JournalConfig `yaml:"journal"`
	Demo    DemoConfig    `yaml:"demo"`
	Watch   WatchConfig   `yaml:"watch"`
}

// StoreConfig holds store identity settings.
type StoreConfig struct {
	Name string `yaml:"name"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"` // host:port
	Path    string `yaml:"path"`
}

// JournalConfig controls transition journaling.
type JournalConfig struct {
	Enabled bool          `yaml:"enabled"`
	Driver  JournalDriver `yaml:"driver"`
	DSN     string        `yaml:"dsn"` // sqlite file path or ":memory:"
}

// DemoConfig drives the demo command's periodic increments.
type DemoConfig struct {
	Interval time.Duration `yaml:"interval"`
	Step     int           `yaml:"step"`
}

// WatchConfig drives the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// envFiles are loaded in order when present. Existing variables win.
var envFiles = []string{".env", ".env.local"}

// Load reads the configuration at path. An empty path yields the defaults.
// ${VAR} references are expanded after .env files have been loaded.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, ferrors.ConfigError("configuration file not found").
					WithContext("path", path).
					Build()
			}
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").
				WithContext("path", path).
				Build()
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration file").
				WithContext("path", path).
				Build()
		}
	}

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func loadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "load env file").
				WithContext("path", name).
				Build()
		}
	}
	return nil
}
