package queue

import (
	"log/slog"
	"runtime/debug"
	"sync"

	eq "github.com/eapache/queue"

	"git.home.luguber.info/inful/statestore/internal/logfields"
	"git.home.luguber.info/inful/statestore/internal/metrics"
)

// Serial is a single-worker FIFO executor over an unbounded backlog.
type Serial struct {
	name     string
	logger   *slog.Logger
	recorder metrics.Recorder
	onPanic  PanicHandler

	mu      sync.Mutex
	cond    *sync.Cond
	pending *eq.Queue // of *job; guarded by mu
	started bool
	stopped bool
	done    chan struct{}
}

type job struct {
	fn    func()
	reply chan error // nil for Execute
}

func (j *job) finish(err error) {
	if j.reply != nil {
		j.reply <- err
	}
}

// New creates a stopped-until-Start queue. Tasks may be submitted before Start;
// they run once the worker begins.
func New(name string, opts ...Option) *Serial {
	s := &Serial{
		name:     name,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		pending:  eq.New(),
		done:     make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the queue name used in logs and metrics.
func (s *Serial) Name() string { return s.name }

// Start launches the worker goroutine. Calling it again, or after Stop, does nothing.
func (s *Serial) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.run()
}

// Stop disables the queue. Pending tasks are dropped and their blocked
// submitters receive ErrStopped.
func (s *Serial) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	abandoned := make([]*job, 0, s.pending.Length())
	for s.pending.Length() > 0 {
		abandoned = append(abandoned, s.pending.Remove().(*job))
	}
	if !s.started {
		close(s.done)
	}
	s.cond.Broadcast()
	s.mu.Unlock()

	for _, j := range abandoned {
		j.finish(ErrStopped)
	}
	s.recorder.SetQueueDepth(s.name, 0)
	if len(abandoned) > 0 {
		s.logger.Debug("Serial queue stopped with pending tasks",
			logfields.Queue(s.name), logfields.Count(len(abandoned)))
	}
}

// Done is closed once the worker has exited after Stop.
func (s *Serial) Done() <-chan struct{} { return s.done }

// Len returns the number of tasks waiting to run.
func (s *Serial) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Length()
}

// Sync enqueues fn and blocks until the worker has executed it. It returns
// ErrStopped if the task was never run and *PanicError if fn panicked.
func (s *Serial) Sync(fn func()) error {
	j := &job{fn: fn, reply: make(chan error, 1)}
	if err := s.enqueue(j); err != nil {
		return err
	}
	return <-j.reply
}

// Execute enqueues fn without waiting for it.
func (s *Serial) Execute(fn func()) error {
	return s.enqueue(&job{fn: fn})
}

// Call runs fn on q, blocks until it has executed and returns its result.
func Call[T any](q *Serial, fn func() T) (T, error) {
	var out T
	err := q.Sync(func() { out = fn() })
	return out, err
}

func (s *Serial) enqueue(j *job) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	s.pending.Add(j)
	depth := s.pending.Length()
	s.cond.Signal()
	s.mu.Unlock()

	s.recorder.SetQueueDepth(s.name, depth)
	return nil
}

func (s *Serial) run() {
	for {
		s.mu.Lock()
		for s.pending.Length() == 0 && !s.stopped {
			s.cond.Wait()
		}
		if s.stopped {
			s.mu.Unlock()
			close(s.done)
			return
		}
		j := s.pending.Remove().(*job)
		depth := s.pending.Length()
		s.mu.Unlock()

		s.recorder.SetQueueDepth(s.name, depth)
		j.finish(s.execute(j.fn))
	}
}

func (s *Serial) execute(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stack := debug.Stack()
		err = &PanicError{Queue: s.name, Value: r, Stack: stack}

		s.logger.Error("Serial queue task panicked",
			logfields.Queue(s.name),
			logfields.Panic(r),
			slog.String("stack", string(stack)))
		s.recorder.IncTaskPanic(s.name)
		if s.onPanic != nil {
			s.onPanic(s.name, r, stack)
		}
	}()

	fn()
	return nil
}
