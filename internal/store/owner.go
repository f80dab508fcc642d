package store

import (
	"context"
	"sync/atomic"
	"weak"
)

// Owner reports whether a subscriber still exists. The store asks, it never
// keeps an owner alive.
type Owner interface {
	Alive() bool
}

// OwnerFunc adapts a function to Owner.
type OwnerFunc func() bool

// Alive calls f.
func (f OwnerFunc) Alive() bool { return f() }

// Token is an Owner released explicitly.
type Token struct {
	released atomic.Bool
}

// NewToken returns a live token.
func NewToken() *Token {
	return &Token{}
}

// Release marks the token dead. Subscriptions owned by it stop receiving
// values immediately and are pruned after the next applied dispatch.
func (t *Token) Release() {
	t.released.Store(true)
}

// Alive reports whether Release has not been called.
func (t *Token) Alive() bool {
	return t != nil && !t.released.Load()
}

type weakOwner[T any] struct {
	ptr weak.Pointer[T]
}

// Weak returns an Owner that is alive while *p is reachable. The handler
// passed to Subscribe must not capture p, or p never becomes unreachable.
func Weak[T any](p *T) Owner {
	return weakOwner[T]{ptr: weak.Make(p)}
}

func (w weakOwner[T]) Alive() bool {
	return w.ptr.Value() != nil
}

// ContextOwner returns an Owner that dies when ctx is done.
func ContextOwner(ctx context.Context) Owner {
	return OwnerFunc(func() bool { return ctx.Err() == nil })
}
