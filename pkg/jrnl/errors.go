package jrnl

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// BadTailReason identifies which of the four tail-validation checks
// failed.
type BadTailReason int

const (
	// BadMagic means tail.Xmagic != ^header.Magic.
	BadMagic BadTailReason = iota + 1
	// BadSerial means tail.Serial != header.Serial.
	BadSerial
	// BadRecordID means tail.Rid != header.Rid.
	BadRecordID
	// BadChecksum means tail.Checksum != the computed checksum.
	BadChecksum
)

func (r BadTailReason) String() string {
	switch r {
	case BadMagic:
		return "Magic"
	case BadSerial:
		return "Serial"
	case BadRecordID:
		return "Record Id"
	case BadChecksum:
		return "Checksum"
	default:
		return "Unknown"
	}
}

// DecodeError reports a structured journal corruption finding: the
// operation and record class it occurred in, which tail check failed,
// and the expected/actual values rendered in hex — the Go analogue of
// the source's jexception(jerrno::JERR_JREC_BADRECTAIL, ...).
type DecodeError struct {
	Op       string
	Class    string
	Reason   BadTailReason
	Expected uint64
	Actual   uint64
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %s: expected 0x%x; found 0x%x", e.Class, e.Op, e.Reason, e.Expected, e.Actual)
}

func newBadTailError(op string, reason BadTailReason, expected, actual uint64) error {
	return errors.WithStack(&DecodeError{
		Op:       op,
		Class:    "enq_rec",
		Reason:   reason,
		Expected: expected,
		Actual:   actual,
	})
}

// AsDecodeError unwraps err into a *DecodeError if one is present
// anywhere in its chain.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
