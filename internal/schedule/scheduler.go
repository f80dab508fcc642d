// Package schedule dispatches store actions on a recurring interval.
package schedule

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
	"git.home.luguber.info/inful/statestore/internal/logfields"
	"git.home.luguber.info/inful/statestore/internal/store"
)

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	runs      atomic.Uint64
}

// New creates a stopped scheduler.
func New(logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "create gocron scheduler").Build()
	}
	return &Scheduler{scheduler: s, logger: logger}, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler", logfields.Count(len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// Runs returns how many scheduled dispatches have been attempted.
func (s *Scheduler) Runs() uint64 { return s.runs.Load() }

// Every dispatches action to st once per interval and returns the job ID.
// Overlapping runs are skipped, not queued.
func Every[S any](s *Scheduler, st *store.Store, interval time.Duration, name string, action store.Action[S]) (string, error) {
	if interval <= 0 {
		return "", ferrors.ValidationError("schedule interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	if action == nil {
		return "", ferrors.ValidationError("scheduled action cannot be nil").Build()
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run, name, func() error { return store.Dispatch(st, action) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryInternal, "create scheduled dispatch").
			WithContext("job", name).
			Build()
	}

	s.logger.Debug("Scheduled dispatch",
		logfields.Job(name),
		logfields.StateType(store.KeyOf[S]().String()),
		slog.Duration("interval", interval))
	return job.ID().String(), nil
}

func (s *Scheduler) run(name string, dispatch func() error) {
	s.runs.Add(1)
	if err := dispatch(); err != nil {
		s.logger.Warn("Scheduled dispatch failed", logfields.Job(name), logfields.Error(err))
	}
}
