package store

import (
	"log/slog"

	"git.home.luguber.info/inful/statestore/internal/journal"
	"git.home.luguber.info/inful/statestore/internal/metrics"
)

// Option configures a Store.
type Option func(*Store)

// WithName sets the store name used in logs and queue names.
func WithName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(s *Store) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithJournal records every applied transition to j. Journal failures are
// logged and never returned to the dispatcher.
func WithJournal(j journal.Journal) Option {
	return func(s *Store) {
		s.journal = j
	}
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	initial  bool
	executor Executor
}

// WithInitialState delivers the current value, if any, right after subscribing.
func WithInitialState() SubscribeOption {
	return func(c *subscribeConfig) {
		c.initial = true
	}
}

// OnExecutor runs the handler on exec instead of the store's notify queue.
func OnExecutor(exec Executor) SubscribeOption {
	return func(c *subscribeConfig) {
		if exec != nil {
			c.executor = exec
		}
	}
}
