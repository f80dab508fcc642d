package store

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/statestore/internal/journal"
	"git.home.luguber.info/inful/statestore/internal/logfields"
	"git.home.luguber.info/inful/statestore/internal/metrics"
	"git.home.luguber.info/inful/statestore/internal/queue"
)

// Store is a type-indexed state container. The zero value is not usable; call New.
type Store struct {
	id       string
	name     string
	logger   *slog.Logger
	recorder metrics.Recorder
	journal  journal.Journal

	bookkeeping *queue.Serial
	mutation    *queue.Serial
	notify      *queue.Serial

	table *stateTable // mutation queue only
	subs  *registry   // bookkeeping queue only

	nextID atomic.Uint64
	closed atomic.Bool

	states        atomic.Int64
	subscriptions atomic.Int64
	dispatched    atomic.Uint64
	dropped       atomic.Uint64
	failed        atomic.Uint64
	notified      atomic.Uint64
	pruned        atomic.Uint64
}

// Stats is a point-in-time snapshot of store activity.
type Stats struct {
	States        int
	Subscriptions int
	Dispatched    uint64 // applied reductions
	Dropped       uint64 // dispatches against an unprovided type
	Failed        uint64 // reducers that panicked
	Notified      uint64 // handler invocations
	Pruned        uint64 // subscriptions removed for a dead owner
}

// New creates a store and starts its queues.
func New(opts ...Option) *Store {
	s := &Store{
		id:       uuid.NewString(),
		name:     "store",
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		table:    newStateTable(),
		subs:     &registry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logfields.Store(s.name), logfields.StoreID(s.id))

	qopts := []queue.Option{queue.WithLogger(s.logger), queue.WithRecorder(s.recorder)}
	s.bookkeeping = queue.New(s.name+".bookkeeping", qopts...)
	s.mutation = queue.New(s.name+".mutation", qopts...)
	s.notify = queue.New(s.name+".notify", qopts...)
	s.bookkeeping.Start()
	s.mutation.Start()
	s.notify.Start()

	s.logger.Debug("Store started")
	return s
}

// ID returns the unique instance ID.
func (s *Store) ID() string { return s.id }

// Name returns the configured name.
func (s *Store) Name() string { return s.name }

// Shutdown stops all queues. It is irreversible; later calls return
// ErrStoreClosed and pending work is abandoned.
func (s *Store) Shutdown() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.bookkeeping.Stop()
	s.mutation.Stop()
	s.notify.Stop()
	s.logger.Info("Store shut down",
		slog.Uint64("dispatched", s.dispatched.Load()),
		slog.Uint64("notified", s.notified.Load()))
}

// Closed reports whether Shutdown has been called.
func (s *Store) Closed() bool { return s.closed.Load() }

// Stats returns current counters.
func (s *Store) Stats() Stats {
	return Stats{
		States:        int(s.states.Load()),
		Subscriptions: int(s.subscriptions.Load()),
		Dispatched:    s.dispatched.Load(),
		Dropped:       s.dropped.Load(),
		Failed:        s.failed.Load(),
		Notified:      s.notified.Load(),
		Pruned:        s.pruned.Load(),
	}
}

// States returns the provided state types in provide order.
func (s *Store) States() ([]Key, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	keys, err := queue.Call(s.mutation, s.table.keys)
	return keys, queueErr(err)
}

func (s *Store) checkOpen() error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return nil
}
