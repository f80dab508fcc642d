package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/statestore/internal/config"
	"git.home.luguber.info/inful/statestore/internal/logfields"
	"git.home.luguber.info/inful/statestore/internal/source"
	"git.home.luguber.info/inful/statestore/internal/store"
)

// Document is a YAML file mirrored into the store.
type Document map[string]any

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	File     string        `arg:"" help:"YAML file to mirror" type:"existingfile"`
	Debounce time.Duration `help:"Quiet period before reloading (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, logger, err := root.Setup()
	if err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunWatch(ctx, cfg, w.File, logger)
}

// RunWatch mirrors path into a store until ctx is done.
func RunWatch(ctx context.Context, cfg *config.Config, path string, logger *slog.Logger) error {
	st := store.New(store.WithName(cfg.Store.Name), store.WithLogger(logger))
	defer st.Shutdown()

	src, err := source.NewFileSource[Document](st, path,
		source.WithDebounce(cfg.Watch.Debounce),
		source.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := src.Start(ctx); err != nil {
		return err
	}
	defer src.Stop()

	_, err = store.Subscribe(st, store.ContextOwner(ctx), func(doc Document) {
		logger.Info("Document changed", logfields.Count(len(doc)))
	}, store.WithInitialState())
	if err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("Watch finished",
		slog.Uint64("reloads", src.Reloads()),
		slog.Uint64("rejected", src.Failures()))
	return nil
}
