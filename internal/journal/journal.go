// Package journal records applied state transitions for diagnostics.
//
// A journal is append-only and write-mostly: the store appends one Transition
// per applied reduction and never reads it back. Tooling (the journal CLI
// command, tests) queries it afterwards.
package journal

import (
	"context"
	"time"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
)

// Transition is one applied reduction of a state type.
type Transition struct {
	StoreID   string
	StateType string
	Revision  uint64
	Payload   []byte // JSON encoding of the new state value
	AppliedAt time.Time
}

// Journal defines the interface for recording and querying transitions.
type Journal interface {
	// Append records a transition.
	Append(ctx context.Context, t Transition) error

	// ByStateType returns the transitions of stateType ordered by revision.
	// An empty storeID matches every store.
	ByStateType(ctx context.Context, storeID, stateType string) ([]Transition, error)

	// Close releases resources held by the journal.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open creates a journal for the given driver.
func Open(driver, dsn string) (Journal, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryJournal(), nil
	case DriverSQLite:
		return NewSQLiteJournal(dsn)
	default:
		return nil, ferrors.ValidationError("unknown journal driver").
			WithContext("driver", driver).
			Build()
	}
}
