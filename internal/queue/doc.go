// Package queue provides Serial, a single-worker FIFO task executor.
//
// A Serial queue forces a strict total order over tasks submitted concurrently
// from many goroutines. Submitters choose how they observe their task:
//
//   - Sync and Call block until the worker has executed the task.
//   - Execute only enqueues; the task is folded into the same order and its
//     effect is observed indirectly.
//
// # Fault policy
//
// A panicking task is recovered by the worker. The panic is logged with its
// stack, counted through the metrics recorder, handed to the optional
// PanicHandler and returned to a blocked submitter as *PanicError. The worker
// then continues with the next task, so one faulty task never stalls the
// queue for everyone else.
//
// # Stopping
//
// Stop is irreversible. Tasks not yet started are abandoned and their blocked
// submitters are released with ErrStopped; there is no drain. A task that is
// already running finishes normally.
//
// A task must not call Sync or Call on the queue that is executing it: the
// worker would wait on itself.
package queue
