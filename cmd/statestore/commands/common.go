// Package commands implements the statestore CLI commands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/statestore/internal/config"
)

// Global carries process-wide dependencies into commands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults apply when empty)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Demo    DemoCmd    `cmd:"" help:"Run a counter store driven by a recurring dispatch"`
	Watch   WatchCmd   `cmd:"" help:"Mirror a YAML file into the store and log every transition"`
	Journal JournalCmd `cmd:"" help:"Print journaled transitions"`
	Show    VersionCmd `cmd:"" name:"version" help:"Print build information"`
}

// AfterApply runs after flag parsing; sets up logging from the flags alone.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, c.Verbose, config.LoggingConfig{
		Level:  config.LogLevelInfo,
		Format: config.LogFormatText,
	}))
	return nil
}

// Setup loads the configuration and replaces the default logger with one
// built from it. --verbose forces debug level.
func (c *CLI) Setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(os.Stderr, c.Verbose, cfg.Logging)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(w io.Writer, verbose bool, cfg config.LoggingConfig) *slog.Logger {
	level := cfg.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}
