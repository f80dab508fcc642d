package store

import (
	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
	"git.home.luguber.info/inful/statestore/internal/logfields"
	"git.home.luguber.info/inful/statestore/internal/queue"
)

// Subscribe registers handler for values of type S and returns the new
// subscription's ID. The handler runs on the store's notify queue unless
// OnExecutor is given. With WithInitialState the current value, if S has been
// provided, is delivered before any later dispatch delivery; a missing state is
// not an error.
func Subscribe[S any](s *Store, owner Owner, handler func(S), opts ...SubscribeOption) (SubscriptionID, error) {
	if owner == nil {
		return 0, ferrors.ValidationError("subscription owner cannot be nil").Build()
	}
	if handler == nil {
		return 0, ferrors.ValidationError("subscription handler cannot be nil").Build()
	}
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	cfg := subscribeConfig{executor: s.notify}
	for _, opt := range opts {
		opt(&cfg)
	}

	key := KeyOf[S]()
	sub := &subscription{
		key:     key,
		owner:   owner,
		exec:    cfg.executor,
		handler: func(v any) { handler(as[S](v)) },
	}

	err := s.bookkeeping.Sync(func() {
		sub.id = SubscriptionID(s.nextID.Add(1))
		s.subs.add(sub)
		s.subscriptions.Store(int64(s.subs.len()))
		s.recorder.SetSubscriptions(s.subs.len())
	})
	if err != nil {
		return 0, queueErr(err)
	}

	s.logger.Debug("Subscribed",
		logfields.StateType(key.String()),
		logfields.SubscriptionID(uint64(sub.id)))

	if cfg.initial {
		if err := s.deliverInitial(sub); err != nil {
			return sub.id, err
		}
	}
	return sub.id, nil
}

// deliverInitial reads the current value after the subscription is registered,
// so a racing dispatch is either seen by the registry snapshot or already
// reflected in the value read here.
func (s *Store) deliverInitial(sub *subscription) error {
	var (
		value any
		rev   uint64
		found bool
	)
	err := s.mutation.Sync(func() {
		if e, ok := s.table.lookup(sub.key); ok {
			value, rev, found = e.value, e.revision, true
		}
	})
	if err != nil {
		return queueErr(err)
	}
	if !found {
		return nil
	}
	s.submit(sub, value, rev, true)
	return nil
}

// Unsubscribe removes the subscription with id. Deliveries already queued for
// it are discarded. Unknown IDs are ignored.
func (s *Store) Unsubscribe(id SubscriptionID) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	var removed bool
	err := s.bookkeeping.Sync(func() {
		removed = s.subs.remove(id)
		s.subscriptions.Store(int64(s.subs.len()))
		s.recorder.SetSubscriptions(s.subs.len())
	})
	if err != nil {
		return queueErr(err)
	}
	if removed {
		s.logger.Debug("Unsubscribed", logfields.SubscriptionID(uint64(id)))
	}
	return nil
}

// Subscribed reports whether id is currently registered.
func (s *Store) Subscribed(id SubscriptionID) bool {
	if s.closed.Load() {
		return false
	}
	ok, err := queue.Call(s.bookkeeping, func() bool { return s.subs.contains(id) })
	return err == nil && ok
}

// submit hands one delivery to the subscription's executor.
func (s *Store) submit(sub *subscription, value any, rev uint64, initial bool) {
	err := sub.exec.Execute(func() {
		if !sub.live() || !sub.claim(rev, initial) {
			return
		}
		s.notified.Add(1)
		s.recorder.IncNotification(sub.key.String())
		sub.handler(value)
	})
	if err != nil {
		s.logger.Debug("Delivery not submitted",
			logfields.SubscriptionID(uint64(sub.id)),
			logfields.Error(err))
	}
}
