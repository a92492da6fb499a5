package segment

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/enqjrnl/pkg/jrnl"
)

func writeRecords(t *testing.T, path string, n int) [][]byte {
	t.Helper()
	w, err := NewWriter(WriterConfig{FilePath: path}, nil)
	require.NoError(t, err)
	defer w.Close()

	var payloads [][]byte
	for i := 0; i < n; i++ {
		data := bytes.Repeat([]byte{byte('a' + i)}, 10+i)
		rec := jrnl.NewEnqRecord()
		rec.Reset(uint64(i), uint64(i), data, []byte("txn"), false, false)
		_, err := w.Append(rec)
		require.NoError(t, err)
		payloads = append(payloads, data)
	}
	require.NoError(t, w.Sync())
	return payloads
}

func TestScanner_ReadsAllRecordsThenEOF(t *testing.T) {
	path := newTestSegmentPath(t)
	payloads := writeRecords(t, path, 3)

	scanner, err := NewScanner(path, 0, nil)
	require.NoError(t, err)
	defer scanner.Close()

	for i, want := range payloads {
		rec, err := scanner.Next()
		require.NoError(t, err, "record %d", i)
		// Decode never materializes the payload: GetData reports the
		// logical length but a nil slice.
		got, dsize := rec.GetData()
		assert.Nil(t, got)
		assert.EqualValues(t, len(want), dsize)
	}

	_, err = scanner.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestScanner_TornWriteIsCleanEOF(t *testing.T) {
	path := newTestSegmentPath(t)
	writeRecords(t, path, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()/2))

	scanner, err := NewScanner(path, 0, nil)
	require.NoError(t, err)
	defer scanner.Close()

	_, err = scanner.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestScanner_CorruptTailIsReported(t *testing.T) {
	path := newTestSegmentPath(t)

	rec := jrnl.NewEnqRecord()
	rec.Reset(1, 1, []byte("payload"), []byte("txn"), false, false)

	w, err := NewWriter(WriterConfig{FilePath: path}, nil)
	require.NoError(t, err)
	_, err = w.Append(rec)
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	// Flip a byte inside the tail itself, not the block padding after it.
	tailOffset := rec.RecSize() - 24
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	require.NoError(t, err)
	b := make([]byte, 1)
	_, err = f.ReadAt(b, int64(tailOffset))
	require.NoError(t, err)
	b[0] ^= 0xff
	_, err = f.WriteAt(b, int64(tailOffset))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	scanner, err := NewScanner(path, 0, nil)
	require.NoError(t, err)
	defer scanner.Close()

	_, err = scanner.Next()
	require.Error(t, err)
	var de *jrnl.DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestScanner_StartOffsetSkipsFirstRecord(t *testing.T) {
	path := newTestSegmentPath(t)
	payloads := writeRecords(t, path, 2)

	scanner, err := NewScanner(path, 0, nil)
	require.NoError(t, err)
	first, err := scanner.Next()
	require.NoError(t, err)
	offsetAfterFirst := scanner.Offset()
	require.NoError(t, scanner.Close())

	got1, dsize1 := first.GetData()
	assert.Nil(t, got1)
	assert.EqualValues(t, len(payloads[0]), dsize1)

	scanner2, err := NewScanner(path, offsetAfterFirst, nil)
	require.NoError(t, err)
	defer scanner2.Close()

	second, err := scanner2.Next()
	require.NoError(t, err)
	got2, dsize2 := second.GetData()
	assert.Nil(t, got2)
	assert.EqualValues(t, len(payloads[1]), dsize2)
}
