// Package source keeps store state in sync with external inputs.
package source

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
	"git.home.luguber.info/inful/statestore/internal/logfields"
	"git.home.luguber.info/inful/statestore/internal/store"
)

const defaultDebounce = 250 * time.Millisecond

// Option configures a FileSource.
type Option func(*settings)

type settings struct {
	debounce time.Duration
	logger   *slog.Logger
}

// WithDebounce sets how long the file must be quiet before it is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// FileSource mirrors a YAML document into a store as state of type S.
// Every successful reload is dispatched as a replacement; documents that fail
// to decode are logged and leave the state untouched.
type FileSource[S any] struct {
	path     string
	store    *store.Store
	debounce time.Duration
	logger   *slog.Logger

	watcher  *fsnotify.Watcher
	reloadCh chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	reloads  atomic.Uint64
	failures atomic.Uint64
}

// NewFileSource creates a source for path. Nothing is read until Start.
func NewFileSource[S any](st *store.Store, path string, opts ...Option) (*FileSource[S], error) {
	cfg := settings{debounce: defaultDebounce, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategorySource, "resolve source path").
			WithContext("path", path).
			Build()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategorySource, "create file watcher").Build()
	}

	return &FileSource[S]{
		path:     absPath,
		store:    st,
		debounce: cfg.debounce,
		logger:   cfg.logger.With(logfields.Path(absPath), logfields.StateType(store.KeyOf[S]().String())),
		watcher:  watcher,
		reloadCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start loads the file, puts it into the store and begins watching. A file
// that cannot be read or decoded at start is an error.
// The watcher is closed when Start fails.
func (f *FileSource[S]) Start(ctx context.Context) error {
	value, err := f.load()
	if err != nil {
		f.closeWatcher()
		return err
	}
	if err := store.ProvideOrReplace(f.store, value); err != nil {
		f.closeWatcher()
		return err
	}

	// Watching the directory survives editors that replace the file.
	dir := filepath.Dir(f.path)
	if err := f.watcher.Add(dir); err != nil {
		f.closeWatcher()
		return ferrors.WrapError(err, ferrors.CategorySource, "watch source directory").
			WithContext("dir", dir).
			Build()
	}
	f.logger.Info("Watching state file")

	f.wg.Add(2)
	go f.watchLoop(ctx)
	go f.reloadLoop(ctx)
	return nil
}

// Stop ends watching and waits for in-flight reloads.
func (f *FileSource[S]) Stop() {
	f.stopOnce.Do(func() {
		close(f.stopCh)
		f.closeWatcher()
		f.wg.Wait()
	})
}

func (f *FileSource[S]) closeWatcher() {
	if err := f.watcher.Close(); err != nil {
		f.logger.Warn("Error closing file watcher", logfields.Error(err))
	}
}

// Reloads returns how many reloads were dispatched.
func (f *FileSource[S]) Reloads() uint64 { return f.reloads.Load() }

// Failures returns how many reloads were rejected.
func (f *FileSource[S]) Failures() uint64 { return f.failures.Load() }

func (f *FileSource[S]) load() (S, error) {
	var value S
	data, err := os.ReadFile(f.path)
	if err != nil {
		return value, ferrors.WrapError(err, ferrors.CategorySource, "read state file").
			WithContext("path", f.path).
			Build()
	}
	// Editors truncate before writing; an empty file is never a valid document.
	if len(bytes.TrimSpace(data)) == 0 {
		return value, ferrors.SourceError("state file is empty").
			WithContext("path", f.path).
			Build()
	}
	if err := yaml.Unmarshal(data, &value); err != nil {
		return value, ferrors.WrapError(err, ferrors.CategorySource, "decode state file").
			WithContext("path", f.path).
			Build()
	}
	return value, nil
}

func (f *FileSource[S]) watchLoop(ctx context.Context) {
	defer f.wg.Done()
	name := filepath.Base(f.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.stopCh:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				f.logger.Debug("State file changed", slog.String("op", event.Op.String()))
				f.trigger()
			case event.Has(fsnotify.Remove):
				f.logger.Warn("State file removed; keeping last state")
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (f *FileSource[S]) trigger() {
	select {
	case f.reloadCh <- struct{}{}:
	default:
	}
}

func (f *FileSource[S]) reloadLoop(ctx context.Context) {
	defer f.wg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.stopCh:
			return
		case <-f.reloadCh:
			if timer == nil {
				timer = time.NewTimer(f.debounce)
			} else {
				timer.Reset(f.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			f.reload()
		}
	}
}

func (f *FileSource[S]) reload() {
	value, err := f.load()
	if err != nil {
		f.failures.Add(1)
		f.logger.Warn("State file rejected", logfields.Error(err))
		return
	}
	if err := store.Dispatch[S](f.store, store.Replace(value)); err != nil {
		f.failures.Add(1)
		f.logger.Warn("State file reload not applied", logfields.Error(err))
		return
	}
	f.reloads.Add(1)
	f.logger.Info("State file reloaded")
}
