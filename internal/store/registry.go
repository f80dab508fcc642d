package store

import (
	"slices"
	"sync/atomic"
)

// SubscriptionID identifies a subscription within one Store. IDs start at 1
// and are never reused.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	key     Key
	owner   Owner
	exec    Executor
	handler func(value any)

	cancelled atomic.Bool
	// seen is the highest revision handed to the handler.
	seen atomic.Uint64
}

func (s *subscription) live() bool {
	return !s.cancelled.Load() && s.owner.Alive()
}

// claim reports whether a value at rev may be delivered. Initial deliveries
// lose to any revision already seen; dispatch deliveries always proceed.
func (s *subscription) claim(rev uint64, initial bool) bool {
	for {
		cur := s.seen.Load()
		if cur >= rev {
			return !initial
		}
		if s.seen.CompareAndSwap(cur, rev) {
			return true
		}
	}
}

// registry is owned by the bookkeeping queue; only its tasks touch it.
type registry struct {
	subs []*subscription
}

func (r *registry) add(s *subscription) {
	r.subs = append(r.subs, s)
}

// remove cancels and drops the subscription with id.
func (r *registry) remove(id SubscriptionID) bool {
	i := slices.IndexFunc(r.subs, func(s *subscription) bool { return s.id == id })
	if i < 0 {
		return false
	}
	r.subs[i].cancelled.Store(true)
	r.subs = slices.Delete(r.subs, i, i+1)
	return true
}

// matching returns the subscriptions for key in registration order.
func (r *registry) matching(key Key) []*subscription {
	var out []*subscription
	for _, s := range r.subs {
		if s.key == key {
			out = append(out, s)
		}
	}
	return out
}

// prune drops every subscription whose owner is gone and returns how many.
func (r *registry) prune() int {
	before := len(r.subs)
	r.subs = slices.DeleteFunc(r.subs, func(s *subscription) bool {
		return !s.owner.Alive()
	})
	return before - len(r.subs)
}

func (r *registry) len() int {
	return len(r.subs)
}

func (r *registry) contains(id SubscriptionID) bool {
	return slices.ContainsFunc(r.subs, func(s *subscription) bool { return s.id == id })
}
