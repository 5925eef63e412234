package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campwatch/internal/domain/entity"
)

func TestFileLedger_RoundTrip(t *testing.T) {
	ledger := FileLedger{Path: filepath.Join(t.TempDir(), "ledger.json")}

	a := night("f1", "c1", day(2024, 7, 4))
	b := night("f1", "c2", day(2024, 7, 5))
	seen := map[entity.CampsiteIdentity]entity.AvailableCampsite{
		a.Identity(): a,
		b.Identity(): b,
	}
	require.NoError(t, ledger.Save(seen))

	loaded, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, a, loaded[a.Identity()])
	assert.Equal(t, b, loaded[b.Identity()])
}

func TestFileLedger_MissingFileIsEmpty(t *testing.T) {
	ledger := FileLedger{Path: filepath.Join(t.TempDir(), "absent.json")}

	loaded, err := ledger.Load()

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileLedger_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := FileLedger{Path: path}.Load()

	assert.Error(t, err)
}

func TestFileLedger_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.json")

	err := FileLedger{Path: path}.Save(nil)

	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
