package config

import (
	"net"
	"strings"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	if cfg.Demo.Interval < 0 {
		return ferrors.ConfigError("demo.interval must be positive").
			WithContext("value", cfg.Demo.Interval.String()).
			Build()
	}
	if cfg.Watch.Debounce < 0 {
		return ferrors.ConfigError("watch.debounce must be positive").
			WithContext("value", cfg.Watch.Debounce.String()).
			Build()
	}
	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Listen); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "metrics.listen must be host:port").
				WithContext("value", cfg.Metrics.Listen).
				Build()
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			return ferrors.ConfigError("metrics.path must start with /").
				WithContext("value", cfg.Metrics.Path).
				Build()
		}
	}
	if cfg.Journal.Enabled && cfg.Journal.Driver == JournalSQLite && cfg.Journal.DSN == "" {
		return ferrors.ConfigError("journal.dsn is required for the sqlite driver").Build()
	}
	return nil
}
