package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/statestore/internal/foundation"
	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
	"git.home.luguber.info/inful/statestore/internal/journal"
	"git.home.luguber.info/inful/statestore/internal/queue"
)

type Counter struct {
	N int `json:"n"`
}

type Journalled struct {
	Entries []string
}

var increment = ActionFunc[Counter](func(c Counter) Counter { return Counter{N: c.N + 1} })

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := New(append([]Option{WithLogger(logger), WithName(t.Name())}, opts...)...)
	t.Cleanup(st.Shutdown)
	return st
}

// flush waits until every delivery queued on the default notify queue has run.
func flush(t *testing.T, st *Store) {
	t.Helper()
	require.NoError(t, st.notify.Sync(func() {}))
}

type received[S any] struct {
	mu  sync.Mutex
	got []S
}

func (r *received[S]) handle(v S) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, v)
}

func (r *received[S]) values() []S {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]S(nil), r.got...)
}

// manualExecutor buffers deliveries until the test runs them.
type manualExecutor struct {
	mu    sync.Mutex
	tasks []func()
}

func (m *manualExecutor) Execute(fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, fn)
	return nil
}

func (m *manualExecutor) drain() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := m.tasks
	m.tasks = nil
	return tasks
}

func TestProvide_SecondProvideIsIgnored(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, Provide(st, Counter{N: 1}))
	require.NoError(t, Provide(st, Counter{N: 2}))

	got, ok := CurrentState[Counter](st)
	require.True(t, ok)
	require.Equal(t, Counter{N: 1}, got)
	require.Equal(t, 1, st.Stats().States)

	keys, err := st.States()
	require.NoError(t, err)
	require.Equal(t, []Key{KeyOf[Counter]()}, keys)
}

func TestProvideOrReplace(t *testing.T) {
	st := newTestStore(t)

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle)
	require.NoError(t, err)

	require.NoError(t, ProvideOrReplace(st, Counter{N: 1}))
	flush(t, st)
	got, _ := CurrentState[Counter](st)
	require.Equal(t, Counter{N: 1}, got)
	require.Empty(t, r.values())
	require.Zero(t, st.Stats().Dispatched)

	require.NoError(t, ProvideOrReplace(st, Counter{N: 9}))
	flush(t, st)
	got, _ = CurrentState[Counter](st)
	require.Equal(t, Counter{N: 9}, got)
	require.Equal(t, []Counter{{N: 9}}, r.values())
	require.Equal(t, uint64(1), st.Stats().Dispatched)
}

func TestProvide_ConcurrentProvidersKeepOneEntry(t *testing.T) {
	st := newTestStore(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Provide(st, Counter{N: i})
		}()
	}
	wg.Wait()

	require.Equal(t, 1, st.Stats().States)
	_, ok := CurrentState[Counter](st)
	require.True(t, ok)
}

func TestProvide_DoesNotNotify(t *testing.T) {
	st := newTestStore(t)
	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle)
	require.NoError(t, err)

	require.NoError(t, Provide(st, Counter{N: 3}))
	flush(t, st)
	require.Empty(t, r.values())
}

func TestSubscribe_IDsStrictlyIncrease(t *testing.T) {
	st := newTestStore(t)
	owner := NewToken()
	noop := func(Counter) {}

	id1, err := Subscribe(st, owner, noop)
	require.NoError(t, err)
	id2, err := Subscribe(st, owner, noop)
	require.NoError(t, err)
	require.NoError(t, st.Unsubscribe(id2))
	id3, err := Subscribe(st, owner, noop)
	require.NoError(t, err)

	require.Equal(t, SubscriptionID(1), id1)
	require.Equal(t, id1+1, id2)
	require.Equal(t, id2+1, id3, "unsubscribed IDs are never reused")
}

func TestSubscribe_ConcurrentIDsAreUnique(t *testing.T) {
	st := newTestStore(t)
	owner := NewToken()

	var (
		mu  sync.Mutex
		ids = map[SubscriptionID]bool{}
		wg  sync.WaitGroup
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := Subscribe(st, owner, func(Counter) {})
			if err != nil {
				return
			}
			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, ids, 50)
	require.Equal(t, 50, st.Stats().Subscriptions)
}

func TestSubscribe_IndependentStoresHaveIndependentCounters(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)

	_, err := Subscribe(a, NewToken(), func(Counter) {})
	require.NoError(t, err)
	idA, err := Subscribe(a, NewToken(), func(Counter) {})
	require.NoError(t, err)
	idB, err := Subscribe(b, NewToken(), func(Counter) {})
	require.NoError(t, err)

	require.Equal(t, SubscriptionID(2), idA)
	require.Equal(t, SubscriptionID(1), idB)
	require.NotEqual(t, a.ID(), b.ID())
}

func TestSubscribe_Validation(t *testing.T) {
	st := newTestStore(t)

	_, err := Subscribe[Counter](st, nil, func(Counter) {})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = Subscribe[Counter](st, NewToken(), nil)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	require.True(t, ferrors.HasCategory(Dispatch[Counter](st, nil), ferrors.CategoryValidation))
	require.True(t, ferrors.HasCategory(DispatchAsync[Counter, int](st, nil), ferrors.CategoryValidation))
}

func TestUnsubscribe_UnknownIDIsIgnored(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Unsubscribe(42))
}

func TestScenarioA_DispatchNotifiesSubscriber(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{N: 0}))

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle)
	require.NoError(t, err)

	require.NoError(t, Dispatch[Counter](st, increment))

	got, ok := CurrentState[Counter](st)
	require.True(t, ok)
	require.Equal(t, Counter{N: 1}, got)

	flush(t, st)
	require.Equal(t, []Counter{{N: 1}}, r.values())
}

func TestScenarioB_DispatchWithoutProvideIsDropped(t *testing.T) {
	st := newTestStore(t)

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle)
	require.NoError(t, err)

	reduced := false
	require.NoError(t, Dispatch[Counter](st, ActionFunc[Counter](func(c Counter) Counter {
		reduced = true
		return c
	})))

	_, ok := CurrentState[Counter](st)
	require.False(t, ok)
	flush(t, st)
	require.Empty(t, r.values())
	require.False(t, reduced)
	require.Equal(t, uint64(1), st.Stats().Dropped)
	require.Equal(t, 0, st.Stats().States)
}

func TestScenarioC_InitialStateDelivered(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{N: 5}))

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle, WithInitialState())
	require.NoError(t, err)

	flush(t, st)
	require.Equal(t, []Counter{{N: 5}}, r.values())
}

func TestSubscribe_InitialStateWithoutProvideIsSkipped(t *testing.T) {
	st := newTestStore(t)

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle, WithInitialState())
	require.NoError(t, err)

	flush(t, st)
	require.Empty(t, r.values())
}

func TestScenarioD_UnsubscribeStopsOnlyThatHandler(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	var first, second received[Counter]
	n, err := Subscribe(st, NewToken(), first.handle)
	require.NoError(t, err)
	n1, err := Subscribe(st, NewToken(), second.handle)
	require.NoError(t, err)
	require.Equal(t, n+1, n1)

	require.NoError(t, st.Unsubscribe(n))
	require.False(t, st.Subscribed(n))
	require.True(t, st.Subscribed(n1))

	require.NoError(t, Dispatch[Counter](st, increment))
	flush(t, st)

	require.Empty(t, first.values())
	require.Equal(t, []Counter{{N: 1}}, second.values())
}

func TestUnsubscribe_DiscardsQueuedDeliveries(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	exec := &manualExecutor{}
	var r received[Counter]
	id, err := Subscribe(st, NewToken(), r.handle, OnExecutor(exec))
	require.NoError(t, err)

	require.NoError(t, Dispatch[Counter](st, increment))
	require.NoError(t, st.Unsubscribe(id))

	tasks := exec.drain()
	require.Len(t, tasks, 1)
	for _, task := range tasks {
		task()
	}
	require.Empty(t, r.values())
}

func TestSubscribe_InitialNeverArrivesAfterNewerValue(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{N: 1}))

	exec := &manualExecutor{}
	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle, OnExecutor(exec), WithInitialState())
	require.NoError(t, err)
	require.NoError(t, Dispatch[Counter](st, increment))

	tasks := exec.drain()
	require.Len(t, tasks, 2)
	// Run the dispatch delivery before the initial one.
	tasks[1]()
	tasks[0]()

	require.Equal(t, []Counter{{N: 2}}, r.values())
}

func TestDispatch_ConcurrentDispatchesAreSerialized(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				_ = Dispatch[Counter](st, increment)
			}
		}()
	}
	wg.Wait()

	got, _ := CurrentState[Counter](st)
	require.Equal(t, Counter{N: 100}, got)

	flush(t, st)
	values := r.values()
	require.Len(t, values, 100)
	seen := map[int]bool{}
	for _, v := range values {
		seen[v.N] = true
	}
	require.Len(t, seen, 100, "every reduction output is delivered exactly once")
	require.Equal(t, uint64(100), st.Stats().Dispatched)
}

func TestDispatch_ReleasedTokenIsPrunedOnAnyDispatch(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))
	require.NoError(t, Provide(st, Journalled{}))

	owner := NewToken()
	var r received[Counter]
	id, err := Subscribe(st, owner, r.handle)
	require.NoError(t, err)

	owner.Release()
	require.False(t, owner.Alive())
	require.True(t, st.Subscribed(id), "pruning is lazy")

	// A dispatch on an unrelated type still runs the cleanup pass.
	require.NoError(t, Dispatch[Journalled](st, Replace(Journalled{Entries: []string{"x"}})))
	require.False(t, st.Subscribed(id))
	require.Equal(t, uint64(1), st.Stats().Pruned)

	require.NoError(t, Dispatch[Counter](st, increment))
	flush(t, st)
	require.Empty(t, r.values())
}

type weakSubscriber struct {
	name [64]byte
}

func subscribeCollectable(t *testing.T, st *Store, r *received[Counter]) SubscriptionID {
	t.Helper()
	obj := &weakSubscriber{}
	id, err := Subscribe(st, Weak(obj), r.handle)
	require.NoError(t, err)
	runtime.KeepAlive(obj)
	return id
}

func TestDispatch_CollectedOwnerIsPruned(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	var r received[Counter]
	id := subscribeCollectable(t, st, &r)

	require.Eventually(t, func() bool {
		runtime.GC()
		if err := Dispatch[Counter](st, increment); err != nil {
			return false
		}
		return !st.Subscribed(id)
	}, 5*time.Second, 10*time.Millisecond)

	require.GreaterOrEqual(t, st.Stats().Pruned, uint64(1))
}

func TestWeak_AliveWhileReachable(t *testing.T) {
	obj := &weakSubscriber{}
	owner := Weak(obj)
	require.True(t, owner.Alive())
	runtime.KeepAlive(obj)

	require.False(t, Weak[weakSubscriber](nil).Alive())
}

func TestContextOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	owner := ContextOwner(ctx)
	require.True(t, owner.Alive())
	cancel()
	require.False(t, owner.Alive())
}

func TestDispatch_ReducerPanicLeavesStateUnchanged(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{N: 7}))

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle)
	require.NoError(t, err)

	err = Dispatch[Counter](st, ActionFunc[Counter](func(Counter) Counter { panic("bad reducer") }))
	require.ErrorIs(t, err, queue.ErrTaskPanic)

	got, _ := CurrentState[Counter](st)
	require.Equal(t, Counter{N: 7}, got)
	require.Equal(t, uint64(1), st.Stats().Failed)

	// The mutation queue keeps working.
	require.NoError(t, Dispatch[Counter](st, increment))
	flush(t, st)
	require.Equal(t, []Counter{{N: 8}}, r.values())
}

func TestDispatch_HandlerPanicDoesNotStallDelivery(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	_, err := Subscribe(st, NewToken(), func(Counter) { panic("bad handler") })
	require.NoError(t, err)
	var r received[Counter]
	_, err = Subscribe(st, NewToken(), r.handle)
	require.NoError(t, err)

	require.NoError(t, Dispatch[Counter](st, increment))
	require.NoError(t, Dispatch[Counter](st, increment))
	flush(t, st)

	require.Equal(t, []Counter{{N: 1}, {N: 2}}, r.values())
}

func TestSubscribe_OnExecutor(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	custom := queue.New("custom")
	custom.Start()
	t.Cleanup(custom.Stop)

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle, OnExecutor(custom))
	require.NoError(t, err)

	done := make(chan Counter, 1)
	_, err = Subscribe(st, NewToken(), func(c Counter) { done <- c }, OnExecutor(Goroutines))
	require.NoError(t, err)

	require.NoError(t, Dispatch[Counter](st, increment))
	require.NoError(t, custom.Sync(func() {}))
	require.Equal(t, []Counter{{N: 1}}, r.values())

	select {
	case got := <-done:
		require.Equal(t, Counter{N: 1}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("goroutine executor never delivered")
	}
}

func TestSubscribe_HandlerMayCallStore(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))
	require.NoError(t, Provide(st, Journalled{}))

	_, err := Subscribe(st, NewToken(), func(c Counter) {
		_ = Dispatch[Journalled](st, ActionFunc[Journalled](func(j Journalled) Journalled {
			return Journalled{Entries: append(append([]string(nil), j.Entries...), fmt.Sprint(c.N))}
		}))
	})
	require.NoError(t, err)

	require.NoError(t, Dispatch[Counter](st, increment))
	require.Eventually(t, func() bool {
		j, _ := CurrentState[Journalled](st)
		return len(j.Entries) == 1 && j.Entries[0] == "1"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDispatchAsync_SynchronousCompletion(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{N: 1}))

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle)
	require.NoError(t, err)

	action := AsyncFuncs[Counter, int]{
		Op: func(c Counter, complete func(foundation.Option[int])) {
			complete(foundation.Some(c.N * 10))
		},
		Reducer: func(c Counter, result foundation.Option[int]) Counter {
			return Counter{N: c.N + result.UnwrapOr(0)}
		},
	}
	require.NoError(t, DispatchAsync[Counter, int](st, action))

	got, _ := CurrentState[Counter](st)
	require.Equal(t, Counter{N: 11}, got)
	flush(t, st)
	require.Equal(t, []Counter{{N: 11}}, r.values())
}

func TestDispatchAsync_CompletionFromAnotherGoroutine(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	action := AsyncFuncs[Counter, int]{
		Op: func(_ Counter, complete func(foundation.Option[int])) {
			go func() {
				time.Sleep(10 * time.Millisecond)
				complete(foundation.Some(3))
			}()
		},
		Reducer: func(c Counter, result foundation.Option[int]) Counter {
			return Counter{N: c.N + result.UnwrapOr(0)}
		},
	}
	require.NoError(t, DispatchAsync[Counter, int](st, action))

	require.Eventually(t, func() bool {
		got, _ := CurrentState[Counter](st)
		return got.N == 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDispatchAsync_DroppedResultStillNotifies(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{N: 4}))

	var r received[Counter]
	_, err := Subscribe(st, NewToken(), r.handle, WithInitialState())
	require.NoError(t, err)
	flush(t, st)

	action := AsyncFuncs[Counter, int]{
		Op: func(_ Counter, complete func(foundation.Option[int])) {
			complete(foundation.None[int]())
		},
		Reducer: func(c Counter, result foundation.Option[int]) Counter {
			if v, ok := result.Get(); ok {
				return Counter{N: v}
			}
			return c
		},
	}
	require.NoError(t, DispatchAsync[Counter, int](st, action))
	flush(t, st)

	require.Equal(t, []Counter{{N: 4}, {N: 4}}, r.values())
}

func TestDispatchAsync_LastCompletionWins(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Journalled{}))

	completions := make(map[string]func(foundation.Option[string]))
	dispatch := func(label string) {
		require.NoError(t, DispatchAsync[Journalled, string](st, AsyncFuncs[Journalled, string]{
			Op: func(_ Journalled, complete func(foundation.Option[string])) {
				completions[label] = complete
			},
			Reducer: func(j Journalled, result foundation.Option[string]) Journalled {
				return Journalled{Entries: append(append([]string(nil), j.Entries...), result.Unwrap())}
			},
		}))
	}
	dispatch("first")
	dispatch("second")

	completions["second"](foundation.Some("second"))
	completions["first"](foundation.Some("first"))

	got, _ := CurrentState[Journalled](st)
	require.Equal(t, []string{"first"}, got.Entries)
}

func TestDispatchAsync_ReducesAgainstDispatchSnapshot(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	var (
		complete func(foundation.Option[int])
		base     Counter
	)
	require.NoError(t, DispatchAsync[Counter, int](st, AsyncFuncs[Counter, int]{
		Op: func(_ Counter, c func(foundation.Option[int])) {
			complete = c
		},
		Reducer: func(c Counter, result foundation.Option[int]) Counter {
			base = c
			return Counter{N: c.N + result.UnwrapOr(0)}
		},
	}))

	for range 10 {
		require.NoError(t, Dispatch[Counter](st, increment))
	}
	got, _ := CurrentState[Counter](st)
	require.Equal(t, Counter{N: 10}, got)

	complete(foundation.Some(100))

	require.Equal(t, Counter{}, base)
	got, _ = CurrentState[Counter](st)
	require.Equal(t, Counter{N: 100}, got)
}

func TestDispatchAsync_SecondCompletionIgnored(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	require.NoError(t, DispatchAsync[Counter, int](st, AsyncFuncs[Counter, int]{
		Op: func(_ Counter, complete func(foundation.Option[int])) {
			complete(foundation.Some(1))
			complete(foundation.Some(1))
		},
		Reducer: func(c Counter, result foundation.Option[int]) Counter {
			return Counter{N: c.N + result.UnwrapOr(0)}
		},
	}))

	got, _ := CurrentState[Counter](st)
	require.Equal(t, Counter{N: 1}, got)
}

func TestDispatchAsync_UnprovidedSkipsOperation(t *testing.T) {
	st := newTestStore(t)

	called := false
	require.NoError(t, DispatchAsync[Counter, int](st, AsyncFuncs[Counter, int]{
		Op: func(Counter, func(foundation.Option[int])) { called = true },
		Reducer: func(c Counter, _ foundation.Option[int]) Counter {
			return c
		},
	}))
	require.False(t, called)
	require.Equal(t, uint64(1), st.Stats().Dropped)
}

func TestDispatch_JournalsAppliedTransitions(t *testing.T) {
	j := journal.NewMemoryJournal()
	st := newTestStore(t, WithJournal(j))
	require.NoError(t, Provide(st, Counter{}))

	for range 3 {
		require.NoError(t, Dispatch[Counter](st, increment))
	}
	require.NoError(t, Dispatch[Journalled](st, Replace(Journalled{})), "unprovided, dropped")

	got, err := j.ByStateType(t.Context(), st.ID(), KeyOf[Counter]().String())
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, tr := range got {
		require.Equal(t, uint64(i+2), tr.Revision)
		require.JSONEq(t, fmt.Sprintf(`{"n":%d}`, i+1), string(tr.Payload))
	}
	require.Equal(t, 3, j.Len())
}

func TestDispatch_ConcurrentJournalQueriesAreOrdered(t *testing.T) {
	j := journal.NewMemoryJournal()
	st := newTestStore(t, WithJournal(j))
	require.NoError(t, Provide(st, Counter{}))

	const n = 32
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, Dispatch[Counter](st, increment))
		}()
	}
	wg.Wait()

	got, err := j.ByStateType(t.Context(), st.ID(), KeyOf[Counter]().String())
	require.NoError(t, err)
	require.Len(t, got, n)
	for i, tr := range got {
		require.Equal(t, uint64(i+2), tr.Revision)
		require.JSONEq(t, fmt.Sprintf(`{"n":%d}`, i+1), string(tr.Payload))
	}
}

func TestShutdown(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide(st, Counter{}))

	st.Shutdown()
	st.Shutdown()
	require.True(t, st.Closed())

	require.ErrorIs(t, Provide(st, Journalled{}), ErrStoreClosed)
	require.ErrorIs(t, Dispatch[Counter](st, increment), ErrStoreClosed)
	require.ErrorIs(t, st.Unsubscribe(1), ErrStoreClosed)
	_, err := Subscribe(st, NewToken(), func(Counter) {})
	require.ErrorIs(t, err, ErrStoreClosed)
	_, ok := CurrentState[Counter](st)
	require.False(t, ok)
	_, err = st.States()
	require.ErrorIs(t, err, ErrStoreClosed)
}

func TestKeyOf(t *testing.T) {
	require.Equal(t, KeyOf[Counter](), KeyOf[Counter]())
	require.NotEqual(t, KeyOf[Counter](), KeyOf[*Counter]())
	require.NotEqual(t, KeyOf[fmt.Stringer](), KeyOf[Counter]())
	require.Equal(t, "store.Counter", KeyOf[Counter]().String())
	require.Equal(t, "<nil>", Key{}.String())
}

func TestProvide_InterfaceTypedNilState(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, Provide[fmt.Stringer](st, nil))

	got, ok := CurrentState[fmt.Stringer](st)
	require.True(t, ok)
	require.Nil(t, got)
}
