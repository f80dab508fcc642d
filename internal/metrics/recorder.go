package metrics

import "time"

// DispatchOutcome enumerates what happened to a dispatch request.
type DispatchOutcome string

const (
	// OutcomeApplied means a reducer ran and its output was stored.
	OutcomeApplied DispatchOutcome = "applied"
	// OutcomeDropped means no state of the requested type was provided.
	OutcomeDropped DispatchOutcome = "dropped"
	// OutcomeFailed means the reducer panicked and the state was left unchanged.
	OutcomeFailed DispatchOutcome = "failed"
)

// Recorder defines observability hooks for the store and its serial queues.
// Implementations must be safe for concurrent use.
type Recorder interface {
	IncDispatch(stateType string, outcome DispatchOutcome)
	ObserveReduceDuration(stateType string, d time.Duration)
	IncNotification(stateType string)
	IncPruned(n int)
	SetSubscriptions(n int)
	IncTaskPanic(queue string)
	SetQueueDepth(queue string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDispatch(string, DispatchOutcome)          {}
func (NoopRecorder) ObserveReduceDuration(string, time.Duration) {}
func (NoopRecorder) IncNotification(string)                      {}
func (NoopRecorder) IncPruned(int)                               {}
func (NoopRecorder) SetSubscriptions(int)                        {}
func (NoopRecorder) IncTaskPanic(string)                         {}
func (NoopRecorder) SetQueueDepth(string, int)                   {}
