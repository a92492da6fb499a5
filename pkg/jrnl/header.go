package jrnl

import (
	"bytes"
	"encoding/binary"
)

// byteOrder is the concrete interpretation of "host-native" used by
// this package. Go's encoding/binary has no implicit native mode, and
// most deployment targets for this codec are little-endian, so the
// format is fixed at little-endian rather than varying by build host.
// Replaying a journal written on a big-endian host is out of scope, as
// in the source this package is modeled on.
var byteOrder = binary.LittleEndian

// RecHdr is the portion of a record header shared by every record
// kind: a magic tag identifying the record kind, a format version, a
// flags bitfield, and the serial/rid pair that the tail mirrors.
type RecHdr struct {
	Magic   uint32
	Version uint8
	Flags   uint16
	Serial  uint64
	Rid     uint64
}

const recHdrSize = 4 + 1 + 2 + 8 + 8 // 23 bytes

// EnqHdr is the fixed-width header written at the start of every
// enqueue record.
type EnqHdr struct {
	RecHdr
	XidSize uint64
	Dsize   uint64
}

const enqHdrSize = recHdrSize + 8 + 8 // 39 bytes

// RecTail is the fixed-width tail written at the end of every record,
// mirroring the header's serial and rid so a scanner can validate
// record boundaries without re-reading the header.
type RecTail struct {
	Xmagic   uint32
	Checksum uint32
	Serial   uint64
	Rid      uint64
}

const recTailSize = 4 + 4 + 8 + 8 // 24 bytes

// NewEnqHdr builds a defaulted enqueue header: correct magic and
// version, zeroed flags, and the given identity/size fields.
func NewEnqHdr(serial, rid, xidsize, dsize uint64) EnqHdr {
	return EnqHdr{
		RecHdr: RecHdr{
			Magic:   EnqMagic,
			Version: JrnlVersion,
			Flags:   0,
			Serial:  serial,
			Rid:     rid,
		},
		XidSize: xidsize,
		Dsize:   dsize,
	}
}

// NewRecTail builds a tail mirroring h's identity fields, with its
// xmagic sentinel set to the bitwise complement of h's magic and a
// zero checksum (filled in by the encoder once the body is known).
func NewRecTail(h *RecHdr) RecTail {
	return RecTail{
		Xmagic:   ^h.Magic,
		Checksum: 0,
		Serial:   h.Serial,
		Rid:      h.Rid,
	}
}

// IsTransient reports whether the record's payload need not survive a
// restart.
func (h *EnqHdr) IsTransient() bool { return h.Flags&flagTransient != 0 }

// IsExternal reports whether the record's payload lives outside the
// journal; only its identifier (via the xid) and length (Dsize) are
// stored here.
func (h *EnqHdr) IsExternal() bool { return h.Flags&flagExternal != 0 }

// SetTransient sets or clears the transient flag bit.
func (h *EnqHdr) SetTransient(v bool) { h.setFlag(flagTransient, v) }

// SetExternal sets or clears the external flag bit.
func (h *EnqHdr) SetExternal(v bool) { h.setFlag(flagExternal, v) }

func (h *EnqHdr) setFlag(bit uint16, v bool) {
	if v {
		h.Flags |= bit
	} else {
		h.Flags &^= bit
	}
}

// marshal writes the header in its fixed 39-byte wire form.
func (h *EnqHdr) marshal() []byte {
	buf := make([]byte, enqHdrSize)
	w := bytes.NewBuffer(buf[:0])
	_ = binary.Write(w, byteOrder, h.Magic)
	_ = binary.Write(w, byteOrder, h.Version)
	_ = binary.Write(w, byteOrder, h.Flags)
	_ = binary.Write(w, byteOrder, h.Serial)
	_ = binary.Write(w, byteOrder, h.Rid)
	_ = binary.Write(w, byteOrder, h.XidSize)
	_ = binary.Write(w, byteOrder, h.Dsize)
	return w.Bytes()
}

// marshal writes just the common RecHdr prefix, used by a
// segment scanner that reads the prefix before dispatching by magic.
func (h *RecHdr) marshal() []byte {
	buf := make([]byte, recHdrSize)
	w := bytes.NewBuffer(buf[:0])
	_ = binary.Write(w, byteOrder, h.Magic)
	_ = binary.Write(w, byteOrder, h.Version)
	_ = binary.Write(w, byteOrder, h.Flags)
	_ = binary.Write(w, byteOrder, h.Serial)
	_ = binary.Write(w, byteOrder, h.Rid)
	return w.Bytes()
}

// unmarshalRecHdr parses the common RecHdr prefix from p, which must
// be at least recHdrSize bytes long.
func unmarshalRecHdr(p []byte) RecHdr {
	r := bytes.NewReader(p)
	var h RecHdr
	_ = binary.Read(r, byteOrder, &h.Magic)
	_ = binary.Read(r, byteOrder, &h.Version)
	_ = binary.Read(r, byteOrder, &h.Flags)
	_ = binary.Read(r, byteOrder, &h.Serial)
	_ = binary.Read(r, byteOrder, &h.Rid)
	return h
}

// marshal writes the tail in its fixed 24-byte wire form.
func (t *RecTail) marshal() []byte {
	buf := make([]byte, recTailSize)
	w := bytes.NewBuffer(buf[:0])
	_ = binary.Write(w, byteOrder, t.Xmagic)
	_ = binary.Write(w, byteOrder, t.Checksum)
	_ = binary.Write(w, byteOrder, t.Serial)
	_ = binary.Write(w, byteOrder, t.Rid)
	return w.Bytes()
}

// unmarshalRecTail parses a tail from p, which must be at least
// recTailSize bytes long.
func unmarshalRecTail(p []byte) RecTail {
	r := bytes.NewReader(p)
	var t RecTail
	_ = binary.Read(r, byteOrder, &t.Xmagic)
	_ = binary.Read(r, byteOrder, &t.Checksum)
	_ = binary.Read(r, byteOrder, &t.Serial)
	_ = binary.Read(r, byteOrder, &t.Rid)
	return t
}
