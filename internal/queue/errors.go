package queue

import (
	"fmt"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
)

var (
	// ErrStopped is returned for submissions to a stopped queue and to blocked
	// submitters whose task was abandoned by Stop.
	ErrStopped = ferrors.QueueError("serial queue stopped").Build()

	// ErrTaskPanic matches every *PanicError via errors.Is.
	ErrTaskPanic = ferrors.InternalError("serial queue task panicked").Build()
)

// PanicError reports a task panic recovered by a queue worker.
type PanicError struct {
	// Queue is the name of the queue whose worker recovered the panic.
	Queue string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("task on queue %q panicked: %v", e.Queue, e.Value)
}

// Unwrap exposes ErrTaskPanic and, when the panic value is an error, that error.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrTaskPanic, err}
	}
	return []error{ErrTaskPanic}
}
