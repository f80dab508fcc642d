package config

import (
	"log/slog"

	"git.home.luguber.info/inful/statestore/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// JournalDriver enumerates journal backends.
type JournalDriver string

const (
	JournalMemory JournalDriver = "memory"
	JournalSQLite JournalDriver = "sqlite"
)

var journalDriverNormalizer = normalization.NewNormalizer("journal driver", map[string]JournalDriver{
	"memory": JournalMemory,
	"sqlite": JournalSQLite,
}, JournalSQLite)

// normalize case-folds enumerations; unknown values are validation errors.
func normalize(cfg *Config) error {
	level, err := logLevelNormalizer.Parse(string(cfg.Logging.Level))
	if err != nil {
		return err
	}
	format, err := logFormatNormalizer.Parse(string(cfg.Logging.Format))
	if err != nil {
		return err
	}
	driver, err := journalDriverNormalizer.Parse(string(cfg.Journal.Driver))
	if err != nil {
		return err
	}
	cfg.Logging.Level = level
	cfg.Logging.Format = format
	cfg.Journal.Driver = driver
	return nil
}
