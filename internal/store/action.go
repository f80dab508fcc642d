package store

import "git.home.luguber.info/inful/statestore/internal/foundation"

// Action is a pure transition of state type S.
type Action[S any] interface {
	Reduce(state S) S
}

// ActionFunc adapts a function to Action.
type ActionFunc[S any] func(state S) S

// Reduce calls f(state).
func (f ActionFunc[S]) Reduce(state S) S { return f(state) }

// AsyncAction is a two-phase transition. Operation runs on the dispatching
// goroutine with a snapshot of the state and must call complete exactly once,
// synchronously or later from any goroutine. Reduce then folds the result into
// the state current at completion time. foundation.None marks a dropped
// result; Reduce decides what that means.
type AsyncAction[S, R any] interface {
	Operation(state S, complete func(result foundation.Option[R]))
	Reduce(state S, result foundation.Option[R]) S
}

// AsyncFuncs adapts a pair of functions to AsyncAction.
type AsyncFuncs[S, R any] struct {
	Op      func(state S, complete func(result foundation.Option[R]))
	Reducer func(state S, result foundation.Option[R]) S
}

// Operation calls a.Op.
func (a AsyncFuncs[S, R]) Operation(state S, complete func(result foundation.Option[R])) {
	a.Op(state, complete)
}

// Reduce calls a.Reducer.
func (a AsyncFuncs[S, R]) Reduce(state S, result foundation.Option[R]) S {
	return a.Reducer(state, result)
}

// Replace returns an action that swaps the state for next.
func Replace[S any](next S) Action[S] {
	return ActionFunc[S](func(S) S { return next })
}
