package store

// stateEntry holds the current value of one state type. revision starts at 1
// when provided and grows by one per applied reduction.
type stateEntry struct {
	key      Key
	value    any
	revision uint64
}

// stateTable is owned by the mutation queue; only its tasks touch it.
type stateTable struct {
	entries []*stateEntry
	index   map[Key]*stateEntry
}

func newStateTable() *stateTable {
	return &stateTable{index: make(map[Key]*stateEntry)}
}

func (t *stateTable) lookup(key Key) (*stateEntry, bool) {
	e, ok := t.index[key]
	return e, ok
}

// insert adds value under key unless an entry already exists.
func (t *stateTable) insert(key Key, value any) bool {
	if _, exists := t.index[key]; exists {
		return false
	}
	e := &stateEntry{key: key, value: value, revision: 1}
	t.entries = append(t.entries, e)
	t.index[key] = e
	return true
}

func (t *stateTable) len() int {
	return len(t.entries)
}

// keys returns the state types in provide order.
func (t *stateTable) keys() []Key {
	out := make([]Key, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.key
	}
	return out
}
