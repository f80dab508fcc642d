package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
)

func openJournals(t *testing.T) map[string]Journal {
	t.Helper()

	sqlite, err := NewSQLiteJournal(":memory:")
	require.NoError(t, err)

	journals := map[string]Journal{
		"memory": NewMemoryJournal(),
		"sqlite": sqlite,
	}
	for _, j := range journals {
		t.Cleanup(func() { _ = j.Close() })
	}
	return journals
}

func TestJournal_AppendAndQuery(t *testing.T) {
	for name, j := range openJournals(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			at := time.Unix(1700000000, 0)

			// Appended out of order; queries return revision order.
			require.NoError(t, j.Append(ctx, Transition{StoreID: "a", StateType: "main.Counter", Revision: 3, Payload: []byte(`{"n":2}`), AppliedAt: at}))
			require.NoError(t, j.Append(ctx, Transition{StoreID: "a", StateType: "main.Counter", Revision: 2, Payload: []byte(`{"n":1}`), AppliedAt: at}))
			require.NoError(t, j.Append(ctx, Transition{StoreID: "b", StateType: "main.Counter", Revision: 2, Payload: []byte(`{"n":9}`), AppliedAt: at}))
			require.NoError(t, j.Append(ctx, Transition{StoreID: "a", StateType: "main.User", Revision: 2, Payload: []byte(`{}`), AppliedAt: at}))

			got, err := j.ByStateType(ctx, "a", "main.Counter")
			require.NoError(t, err)
			require.Len(t, got, 2)
			require.Equal(t, uint64(2), got[0].Revision)
			require.Equal(t, uint64(3), got[1].Revision)
			require.JSONEq(t, `{"n":1}`, string(got[0].Payload))
			require.True(t, got[0].AppliedAt.Equal(at))

			all, err := j.ByStateType(ctx, "", "main.Counter")
			require.NoError(t, err)
			require.Len(t, all, 3)

			none, err := j.ByStateType(ctx, "a", "main.Missing")
			require.NoError(t, err)
			require.Empty(t, none)
		})
	}
}

func TestSQLiteJournal_PersistsAcrossReopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLiteJournal(dsn)
	require.NoError(t, err)
	require.NoError(t, j.Append(t.Context(), Transition{StoreID: "s", StateType: "T", Revision: 2, Payload: []byte(`1`)}))
	require.NoError(t, j.Close())

	reopened, err := NewSQLiteJournal(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.ByStateType(t.Context(), "s", "T")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.False(t, got[0].AppliedAt.IsZero())
}

func TestMemoryJournal_ClosedAndCanceled(t *testing.T) {
	j := NewMemoryJournal()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.ErrorIs(t, j.Append(ctx, Transition{}), context.Canceled)

	require.NoError(t, j.Close())
	err := j.Append(t.Context(), Transition{})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryJournal))
}

func TestOpen(t *testing.T) {
	j, err := Open(DriverMemory, "")
	require.NoError(t, err)
	require.IsType(t, &MemoryJournal{}, j)

	j, err = Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.IsType(t, &SQLiteJournal{}, j)
	require.NoError(t, j.Close())

	_, err = Open("postgres", "")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
