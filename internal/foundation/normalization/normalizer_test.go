package normalization

import (
	"testing"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

type driver string

const (
	driverMemory driver = "memory"
	driverSQLite driver = "sqlite"
)

func newDriverNormalizer() *Normalizer[driver] {
	return NewNormalizer("journal driver", map[string]driver{
		"memory": driverMemory,
		"SQLite": driverSQLite,
	}, driverMemory)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newDriverNormalizer()

	require.Equal(t, driverSQLite, n.Normalize("sqlite"))
	require.Equal(t, driverSQLite, n.Normalize("  SQLITE "))
	require.Equal(t, driverMemory, n.Normalize("bogus"))
	require.Equal(t, driverMemory, n.Normalize(""))
}

func TestNormalizer_Parse(t *testing.T) {
	n := newDriverNormalizer()

	got, err := n.Parse("Memory")
	require.NoError(t, err)
	require.Equal(t, driverMemory, got)

	got, err = n.Parse("")
	require.NoError(t, err)
	require.Equal(t, driverMemory, got)

	_, err = n.Parse("postgres")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	classified, _ := ferrors.AsClassified(err)
	valid, _ := classified.Context().GetString("valid")
	require.Equal(t, "memory, sqlite", valid)
}

func TestNormalizer_ValidKeysIsACopy(t *testing.T) {
	n := newDriverNormalizer()

	keys := n.ValidKeys()
	require.Equal(t, []string{"memory", "sqlite"}, keys)

	keys[0] = "mutated"
	require.Equal(t, []string{"memory", "sqlite"}, n.ValidKeys())
}
