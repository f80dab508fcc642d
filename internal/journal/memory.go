package journal

import (
	"context"
	"slices"
	"sync"
)

// MemoryJournal keeps transitions in process memory.
type MemoryJournal struct {
	mu          sync.RWMutex
	transitions []Transition
	closed      bool
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Append adds a transition.
func (m *MemoryJournal) Append(ctx context.Context, t Transition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errClosed
	}
	t.Payload = slices.Clone(t.Payload)
	m.transitions = append(m.transitions, t)
	return nil
}

// ByStateType returns matching transitions ordered by revision.
func (m *MemoryJournal) ByStateType(ctx context.Context, storeID, stateType string) ([]Transition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, errClosed
	}

	var out []Transition
	for _, t := range m.transitions {
		if t.StateType != stateType {
			continue
		}
		if storeID != "" && t.StoreID != storeID {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b Transition) int {
		switch {
		case a.Revision < b.Revision:
			return -1
		case a.Revision > b.Revision:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

// Len returns the number of recorded transitions.
func (m *MemoryJournal) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transitions)
}

// Close drops all transitions. Further calls fail.
func (m *MemoryJournal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.transitions = nil
	return nil
}
