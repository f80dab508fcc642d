package integration

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/statestore/internal/config"
	"git.home.luguber.info/inful/statestore/internal/journal"
)

// journalEntry is a transition with its run-specific fields removed.
type journalEntry struct {
	Revision uint64          `json:"revision"`
	Payload  json.RawMessage `json:"payload"`
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadGoldenConfig loads a testdata configuration with its journal placed in
// a temporary directory.
func loadGoldenConfig(t *testing.T, configPath string) *config.Config {
	t.Helper()
	t.Setenv("STATESTORE_GOLDEN_JOURNAL", filepath.Join(t.TempDir(), "journal.db"))

	cfg, err := config.Load(configPath)
	require.NoError(t, err, "failed to load golden config")
	return cfg
}

// snapshotJournal collects the journal of every listed state type.
func snapshotJournal(t *testing.T, j journal.Journal, storeID string, stateTypes ...string) map[string][]journalEntry {
	t.Helper()

	out := make(map[string][]journalEntry, len(stateTypes))
	for _, stateType := range stateTypes {
		transitions, err := j.ByStateType(t.Context(), storeID, stateType)
		require.NoError(t, err)

		entries := make([]journalEntry, 0, len(transitions))
		for _, tr := range transitions {
			entries = append(entries, journalEntry{Revision: tr.Revision, Payload: tr.Payload})
		}
		out[stateType] = entries
	}
	return out
}

// verifyGoldenJSON compares actual against the golden file, rewriting it
// when updateGolden is set.
func verifyGoldenJSON(t *testing.T, actual any, goldenPath string, updateGolden bool) {
	t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	require.NoError(t, err)

	if updateGolden {
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o750))
		require.NoError(t, os.WriteFile(goldenPath, append(data, '\n'), 0o600))
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file (run with -update-golden to create)")
	require.JSONEq(t, string(expected), string(data))
}
