package store

// Executor runs subscriber callbacks. Execute must not block on fn.
// *queue.Serial satisfies it.
type Executor interface {
	Execute(fn func()) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func()) error

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) error { return f(fn) }

// Goroutines runs every callback on its own goroutine. Callbacks are
// unordered and a panicking handler is not recovered.
var Goroutines Executor = ExecutorFunc(func(fn func()) error {
	go fn()
	return nil
})
