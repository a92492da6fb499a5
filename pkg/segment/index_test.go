package segment

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexPath(t *testing.T) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "enqjrnl_ridx_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	return tmpDir
}

func TestRidIndex_PutGetDelete(t *testing.T) {
	idx, err := OpenRidIndex(newTestIndexPath(t))
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Put(42, 1024))

	offset, ok, err := idx.Get(42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1024), offset)

	_, ok, err = idx.Get(43)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, idx.Delete(42))
	_, ok, err = idx.Get(42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRidIndex_DeleteMissingIsNotAnError(t *testing.T) {
	idx, err := OpenRidIndex(newTestIndexPath(t))
	require.NoError(t, err)
	defer idx.Close()

	assert.NoError(t, idx.Delete(999))
}
