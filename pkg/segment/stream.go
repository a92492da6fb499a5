// Package segment drives the jrnl enqueue-record codec over a real
// segment file: it is a thin scanner/writer, not a journal segment
// manager. It does not allocate pages across multiple files, rotate
// segments, or track free space — it only reads and writes one
// already-open file sequentially, giving the codec an end-to-end
// caller.
package segment

import (
	"bufio"
	"io"
	"os"

	"github.com/ashgrove/enqjrnl/pkg/jrnl"
)

// fileStream adapts a buffered file reader to jrnl.Stream, tracking
// eof/fail/bad state the way the source's std::ifstream does.
type fileStream struct {
	r    *bufio.Reader
	eof  bool
	fail bool
	bad  bool
}

var _ jrnl.Stream = (*fileStream)(nil)

func newFileStream(f *os.File) *fileStream {
	return &fileStream{r: bufio.NewReaderSize(f, 64*1024)}
}

func (s *fileStream) Read(p []byte) (int, error) {
	n, err := io.ReadFull(s.r, p)
	s.note(err)
	return n, err
}

func (s *fileStream) Ignore(n int, sink io.Writer) (int, error) {
	written, err := io.CopyN(sink, s.r, int64(n))
	s.note(err)
	return int(written), err
}

func (s *fileStream) note(err error) {
	switch err {
	case nil:
		return
	case io.EOF, io.ErrUnexpectedEOF:
		s.eof = true
		s.fail = true
	default:
		s.bad = true
	}
}

func (s *fileStream) EOF() bool  { return s.eof }
func (s *fileStream) Fail() bool { return s.fail }
func (s *fileStream) Bad() bool  { return s.bad }
func (s *fileStream) ClearFail() { s.fail = false }
