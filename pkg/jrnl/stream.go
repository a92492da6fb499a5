package jrnl

import "io"

// Stream is the collaborator contract the decoder consumes: a
// sequential byte reader that can report how much of a requested read
// or skip it actually satisfied, distinguishing a clean end-of-stream
// from a hard I/O error, with clearable state bits — the same shape as
// the source's std::ifstream usage (read/ignore/gcount/eof/fail/bad).
//
// Unlike a plain io.Reader, Ignore takes a sink: bytes being skipped
// are copied into it rather than silently discarded. The decoder uses
// this to keep the payload checksum invariant (tail checksum covers
// xid and payload) without ever retaining the payload in memory —
// pass io.Discard to get a true skip.
type Stream interface {
	// Read fills p as far as the stream allows, returning the number
	// of bytes actually placed in p. A short read is not itself an
	// error; callers consult EOF/Fail/Bad to interpret it.
	Read(p []byte) (n int, err error)

	// Ignore skips up to n bytes, writing each byte skipped to sink
	// before discarding it, and returns the number actually skipped.
	Ignore(n int, sink io.Writer) (skipped int, err error)

	// EOF reports whether the stream has hit a clean end.
	EOF() bool

	// Fail reports whether the last operation failed to satisfy its
	// full request (set alongside EOF on a short read at end of
	// stream, and independently on a format/conversion error).
	Fail() bool

	// Bad reports whether the stream suffered an unrecoverable I/O
	// error, as distinct from simply running out of bytes.
	Bad() bool

	// ClearFail clears the fail bit. The decoder calls this after a
	// short read it has determined is a clean EOF, matching the
	// source's `ifsp->clear(ifsp->rdstate() & ~failbit)`.
	ClearFail()
}
