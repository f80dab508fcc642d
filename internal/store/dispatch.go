package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"git.home.luguber.info/inful/statestore/internal/foundation"
	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
	"git.home.luguber.info/inful/statestore/internal/journal"
	"git.home.luguber.info/inful/statestore/internal/logfields"
	"git.home.luguber.info/inful/statestore/internal/metrics"
	"git.home.luguber.info/inful/statestore/internal/queue"
)

// Provide registers state as the current value of type S. If S is already
// provided nothing changes. No subscriber is notified.
func Provide[S any](s *Store, state S) error {
	_, err := provide(s, state)
	return err
}

// ProvideOrReplace provides state if S is absent. Otherwise it dispatches a
// replacement, which notifies subscribers like any other dispatch.
func ProvideOrReplace[S any](s *Store, state S) error {
	inserted, err := provide(s, state)
	if err != nil || inserted {
		return err
	}
	return apply(s, Replace(state).Reduce)
}

func provide[S any](s *Store, state S) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	key := KeyOf[S]()

	var inserted bool
	err := s.mutation.Sync(func() {
		inserted = s.table.insert(key, state)
		s.states.Store(int64(s.table.len()))
	})
	if err != nil {
		return false, queueErr(err)
	}
	if inserted {
		s.logger.Debug("State provided", logfields.StateType(key.String()))
	}
	return inserted, nil
}

// CurrentState returns the value of type S, or false if S was never provided
// or the store is shut down.
func CurrentState[S any](s *Store) (S, bool) {
	var (
		out S
		ok  bool
	)
	if s.closed.Load() {
		return out, false
	}
	key := KeyOf[S]()
	err := s.mutation.Sync(func() {
		if e, found := s.table.lookup(key); found {
			out, ok = as[S](e.value), true
		}
	})
	if err != nil {
		var zero S
		return zero, false
	}
	return out, ok
}

// Dispatch applies action to the current value of S and schedules delivery
// of the result to every live subscriber before returning. Dispatching
// against an unprovided type does nothing. A panicking reducer leaves the
// state unchanged and is returned as *queue.PanicError.
func Dispatch[S any](s *Store, action Action[S]) error {
	if action == nil {
		return ferrors.ValidationError("action cannot be nil").Build()
	}
	if err := s.checkOpen(); err != nil {
		return err
	}
	return apply(s, action.Reduce)
}

// DispatchAsync runs action.Operation on the calling goroutine with a
// snapshot of S. When the operation completes, action.Reduce folds the result
// into that same snapshot and the outcome replaces the current value. Concurrent
// async dispatches land in completion order, so the last completion wins.
// Errors after completion are logged. An unprovided type makes the whole call
// a no-op.
func DispatchAsync[S, R any](s *Store, action AsyncAction[S, R]) error {
	if action == nil {
		return ferrors.ValidationError("async action cannot be nil").Build()
	}
	if err := s.checkOpen(); err != nil {
		return err
	}
	key := KeyOf[S]()

	var (
		snapshot S
		found    bool
	)
	err := s.mutation.Sync(func() {
		if e, ok := s.table.lookup(key); ok {
			snapshot, found = as[S](e.value), true
		}
	})
	if err != nil {
		return queueErr(err)
	}
	if !found {
		s.drop(key)
		return nil
	}

	var once sync.Once
	complete := func(result foundation.Option[R]) {
		first := false
		once.Do(func() { first = true })
		if !first {
			s.logger.Warn("Async action completed more than once; ignoring", logfields.StateType(key.String()))
			return
		}
		reduce := func(S) S { return action.Reduce(snapshot, result) }
		if err := apply(s, reduce); err != nil {
			s.logger.Warn("Async reduction not applied",
				logfields.StateType(key.String()),
				logfields.Error(err))
		}
	}

	action.Operation(snapshot, complete)
	return nil
}

// apply runs reduce on the mutation queue, then notifies and cleans up.
func apply[S any](s *Store, reduce func(S) S) error {
	key := KeyOf[S]()

	var (
		next    S
		rev     uint64
		applied bool
		elapsed time.Duration
	)
	err := s.mutation.Sync(func() {
		e, ok := s.table.lookup(key)
		if !ok {
			return
		}
		start := time.Now()
		next = reduce(as[S](e.value))
		elapsed = time.Since(start)
		e.value = next
		e.revision++
		rev = e.revision
		applied = true
	})
	if err != nil {
		if errors.Is(err, queue.ErrTaskPanic) {
			s.failed.Add(1)
			s.recorder.IncDispatch(key.String(), metrics.OutcomeFailed)
		}
		return queueErr(err)
	}
	if !applied {
		s.drop(key)
		return nil
	}

	s.dispatched.Add(1)
	s.recorder.IncDispatch(key.String(), metrics.OutcomeApplied)
	s.recorder.ObserveReduceDuration(key.String(), elapsed)

	if err := s.publish(key, next, rev); err != nil {
		return err
	}
	// Appends run on the dispatching goroutine and may arrive out of revision
	// order; journal queries sort by revision.
	s.record(key, next, rev)
	return nil
}

func (s *Store) drop(key Key) {
	s.dropped.Add(1)
	s.recorder.IncDispatch(key.String(), metrics.OutcomeDropped)
	s.logger.Debug("Dispatch dropped; state not provided", logfields.StateType(key.String()))
}

// publish submits value to the live subscribers of key and prunes dead ones.
func (s *Store) publish(key Key, value any, rev uint64) error {
	targets, err := queue.Call(s.bookkeeping, func() []*subscription {
		return s.subs.matching(key)
	})
	if err != nil {
		return queueErr(err)
	}

	for _, sub := range targets {
		if !sub.live() {
			continue
		}
		s.submit(sub, value, rev, false)
	}

	var pruned, remaining int
	err = s.bookkeeping.Sync(func() {
		pruned = s.subs.prune()
		remaining = s.subs.len()
		s.subscriptions.Store(int64(remaining))
	})
	if err != nil {
		return queueErr(err)
	}
	s.recorder.SetSubscriptions(remaining)
	if pruned > 0 {
		s.pruned.Add(uint64(pruned))
		s.recorder.IncPruned(pruned)
		s.logger.Debug("Pruned subscriptions with dead owners", logfields.Count(pruned))
	}
	return nil
}

// record appends the transition to the journal, if one is configured.
func (s *Store) record(key Key, value any, rev uint64) {
	if s.journal == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Cannot encode state for journal",
			logfields.StateType(key.String()),
			logfields.Error(err))
		return
	}
	t := journal.Transition{
		StoreID:   s.id,
		StateType: key.String(),
		Revision:  rev,
		Payload:   payload,
		AppliedAt: time.Now(),
	}
	if err := s.journal.Append(context.Background(), t); err != nil {
		s.logger.Warn("Journal append failed",
			logfields.StateType(key.String()),
			logfields.Revision(rev),
			logfields.Error(err))
	}
}

// as converts a stored value back to S. A nil interface value yields the zero S.
func as[S any](v any) S {
	out, _ := v.(S)
	return out
}
