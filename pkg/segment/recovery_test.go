package segment

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/enqjrnl/pkg/jrnl"
)

func TestRecover_NoFile(t *testing.T) {
	path := newTestSegmentPath(t)
	result, err := Recover(path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.RecordsValidated)
}

func TestRecover_CleanSegmentValidatesEverything(t *testing.T) {
	path := newTestSegmentPath(t)
	writeRecords(t, path, 5)

	result, err := Recover(path, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 5, result.RecordsValidated)
	assert.EqualValues(t, 0, result.RecordsTruncated)
	assert.Equal(t, result.FileSizeBefore, result.FileSizeAfter)
}

func TestRecover_TruncatesTornTrailingRecord(t *testing.T) {
	path := newTestSegmentPath(t)
	writeRecords(t, path, 3)

	info, err := os.Stat(path)
	require.NoError(t, err)
	validSize := info.Size()

	// Append one more, complete record, then tear it in half to simulate
	// a crash mid-write.
	w, err := NewWriter(WriterConfig{FilePath: path}, nil)
	require.NoError(t, err)
	rec := jrnl.NewEnqRecord()
	rec.Reset(3, 3, []byte("torn payload"), []byte("txn"), false, false)
	_, err = w.Append(rec)
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	fullInfo, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, (validSize+fullInfo.Size())/2))

	result, err := Recover(path, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.RecordsValidated)
	assert.EqualValues(t, 1, result.RecordsTruncated)
	assert.Equal(t, validSize, result.FileSizeAfter)

	// Recovering again should now be a no-op: the file already ends on
	// a clean record boundary.
	result2, err := Recover(path, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result2.RecordsValidated)
	assert.EqualValues(t, 0, result2.RecordsTruncated)
}

func TestRecover_IndexesValidRecords(t *testing.T) {
	path := newTestSegmentPath(t)
	writeRecords(t, path, 3)

	idxPath := newTestSegmentPath(t)
	idx, err := OpenRidIndex(idxPath)
	require.NoError(t, err)
	defer idx.Close()

	_, err = Recover(path, idx, nil)
	require.NoError(t, err)

	for rid := uint64(0); rid < 3; rid++ {
		_, ok, err := idx.Get(rid)
		require.NoError(t, err)
		assert.True(t, ok, "rid %d should be indexed", rid)
	}
}
