// Package store is an in-process, type-indexed state container.
//
// A Store holds at most one value per Go type. Callers register a value with
// Provide, register interest with Subscribe and change values by dispatching
// actions:
//
//	st := store.New(store.WithName("app"))
//	defer st.Shutdown()
//
//	_ = store.Provide(st, Counter{})
//	owner := store.NewToken()
//	_, _ = store.Subscribe(st, owner, func(c Counter) { fmt.Println(c.N) })
//	_ = store.Dispatch(st, store.ActionFunc[Counter](func(c Counter) Counter {
//		return Counter{N: c.N + 1}
//	}))
//
// # Ordering
//
// Three serial queues give ordering without a global lock. The mutation queue
// runs Provide and every reducer, one at a time, in arrival order. The
// bookkeeping queue owns the subscription registry. The notify queue is the
// default executor for subscriber callbacks; a subscription may supply its own
// Executor instead. There is no ordering across queues.
//
// Synchronous Dispatch returns once the new value is stored and a delivery has
// been submitted to every live subscriber. Asynchronous dispatches reduce in
// completion order: the reducer sees the value current when the completion
// reaches the mutation queue.
//
// Reducers run on the mutation worker and must not call back into the same
// store. Handlers may call any store operation.
//
// # Owners
//
// Subscriptions are tied to an Owner. Once an owner reports that it is no
// longer alive its subscription stops receiving values and is pruned after the
// next applied dispatch. Token is released explicitly; Weak follows the garbage
// collector.
package store
