// Package jrnl implements the enqueue-record codec for a linear,
// append-only write-ahead journal used by a durable message broker.
//
// Each enqueued message is serialized as a self-describing,
// self-validating record written into fixed-size disk blocks of a
// segment file. The package is responsible for encoding a record into
// a caller-supplied page buffer (splitting the record across page
// boundaries when the remaining space is insufficient) and for
// decoding a record incrementally from a sequential byte stream,
// tolerating reads that end mid-record at end of file.
//
// # Record format
//
// An enqueue record is laid out contiguously on disk as:
//
//	[header][xid][data?][tail]
//
// followed by padding up to the next disk-block boundary. The header
// and tail are fixed-width and packed in little-endian byte order on
// every host; the host's native byte order is not used on big-endian
// machines.
//
// # Ownership
//
// Encoding borrows the xid and payload buffers from the caller for the
// full duration of the encode, including continuations across split
// invocations. Decoding allocates and owns the xid buffer; accessors
// return non-owning views into it.
//
// # Scope
//
// This package has no notion of queues, transactions, segment
// rotation, or free-space management. It does not open files or
// allocate pages; see package segment for a minimal driver that does.
package jrnl
