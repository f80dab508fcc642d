package config

import "time"

const (
	DefaultStoreName     = "statestore"
	DefaultMetricsListen = "127.0.0.1:9464"
	DefaultMetricsPath   = "/metrics"
	DefaultJournalDSN    = "statestore-journal.db"
	DefaultDemoInterval  = time.Second
	DefaultDemoStep      = 1
	DefaultWatchDebounce = 250 * time.Millisecond
)

func applyDefaults(cfg *Config) {
	if cfg.Store.Name == "" {
		cfg.Store.Name = DefaultStoreName
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Journal.Driver == "" {
		cfg.Journal.Driver = JournalSQLite
	}
	if cfg.Journal.DSN == "" && cfg.Journal.Driver == JournalSQLite {
		cfg.Journal.DSN = DefaultJournalDSN
	}
	if cfg.Demo.Interval == 0 {
		cfg.Demo.Interval = DefaultDemoInterval
	}
	if cfg.Demo.Step == 0 {
		cfg.Demo.Step = DefaultDemoStep
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
