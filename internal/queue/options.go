package queue

import (
	"log/slog"

	"git.home.luguber.info/inful/statestore/internal/metrics"
)

// PanicHandler is called on the worker goroutine after a task panic has been
// recovered and logged.
type PanicHandler func(queue string, recovered any, stack []byte)

// Option configures a Serial queue.
type Option func(*Serial)

// WithLogger sets the logger used for panic reports and lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Serial) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(s *Serial) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithPanicHandler registers a callback for recovered task panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(s *Serial) {
		s.onPanic = h
	}
}
