package jrnl

import (
	"encoding/hex"
	"hash"
	"hash/crc32"
	"io"
	"strconv"
)

// EnqRecord is an enqueue journal record. A single instance is used in
// one of two mutually exclusive modes, matching the borrowed/owned
// split described in the package design notes:
//
//   - Encode mode: Reset binds the record to caller-owned xid/payload
//     buffers, which Encode reads from across however many
//     continuation calls are needed. The record never copies them.
//   - Decode mode: a fresh EnqRecord (from NewEnqRecord) is
//     driven by repeated Decode calls, which allocate and own the xid
//     buffer internally.
//
// An EnqRecord is single-threaded and not reentrant: the caller must
// serialize all Encode/Decode calls for a given instance and must not
// interleave the two modes.
type EnqRecord struct {
	hdr  EnqHdr
	tail RecTail

	xid  []byte
	data []byte

	clean bool

	// decode-only state, persisted across resumed Decode calls.
	bodyHash hash.Hash32
	tailBuf  [recTailSize]byte
}

// NewEnqRecord returns an empty record with a defaulted header
// (correct magic and version, zeroed flags and identity fields),
// ready to be bound with Reset for encoding or driven with Decode for
// recovery.
func NewEnqRecord() *EnqRecord {
	return &EnqRecord{hdr: NewEnqHdr(0, 0, 0, 0)}
}

// SetCleanPadding enables or disables filling unused trailing bytes of
// the last disk block of a record with CleanChar. It never changes the
// number of disk blocks Encode reports as written; it exists purely to
// make corruption visible in a hex dump.
func (r *EnqRecord) SetCleanPadding(v bool) { r.clean = v }

// Reset binds the record to caller-owned data and xid buffers for
// encoding. The caller must keep both buffers alive and unmodified for
// the entire encode, including every continuation call, until Encode
// reports the record complete. Reset may be called again once a prior
// encode has completed, to reuse the instance for another record.
func (r *EnqRecord) Reset(serial, rid uint64, data, xid []byte, transient, external bool) {
	r.hdr = NewEnqHdr(serial, rid, uint64(len(xid)), uint64(len(data)))
	r.hdr.SetTransient(transient)
	r.hdr.SetExternal(external)
	r.xid = xid
	r.data = data
	r.tail = NewRecTail(&r.hdr.RecHdr)
	r.tail.Checksum = checksum(xid, data, external)
}

// bodySegments returns, in on-disk order, the logical segments written
// between the header and the tail: the xid, the payload (omitted when
// external), and the tail itself. xidsize==0 or a nil payload simply
// yields a zero-length segment, which the writer below skips silently.
func (r *EnqRecord) bodySegments() [][]byte {
	segs := [][]byte{r.xid}
	if !r.hdr.IsExternal() {
		segs = append(segs, r.data)
	}
	tb := r.tail.marshal()
	segs = append(segs, tb)
	return segs
}

// writeSegments copies bytes from segs, starting skip bytes into the
// logical concatenation of segs and writing at most rem bytes, into
// buf. It returns the number of bytes written and the budget
// remaining. This replaces the source's repeated "compute wsize,
// write, subtract (segment_len - wsize) from rec_offs" pattern with an
// explicit per-segment remaining-bytes state.
func writeSegments(buf []byte, segs [][]byte, skip, rem uint64) (written, remAfter uint64) {
	for _, s := range segs {
		segLen := uint64(len(s))
		if skip >= segLen {
			skip -= segLen
			continue
		}
		avail := segLen - skip
		n := avail
		if n > rem {
			n = rem
		}
		copy(buf[written:written+n], s[skip:skip+n])
		written += n
		rem -= n
		skip = 0
		if n < avail {
			break
		}
	}
	return written, rem
}

// Encode writes as much of the record as fits in buf, starting at the
// point recOffsDblks disk blocks in (zero on the first call for this
// record), and returns the number of disk blocks actually consumed in
// buf on this invocation. buf must have room for at least
// maxSizeDblks*DblkBytes bytes, and maxSizeDblks must be greater than
// zero; violating either is a programmer error and panics, matching
// the source's assertions. If the full record does not fit in this
// call's budget, the caller must invoke Encode again with
// recOffsDblks advanced by the returned count, supplying the same
// buffers, until the total bytes written equals RecSize().
func (r *EnqRecord) Encode(buf []byte, recOffsDblks, maxSizeDblks uint64) uint64 {
	if buf == nil {
		panic("jrnl: Encode called with nil buffer")
	}
	if maxSizeDblks == 0 {
		panic("jrnl: Encode called with max_size_dblks == 0")
	}
	if r.xid == nil && r.hdr.XidSize != 0 {
		panic("jrnl: xidsize set without a bound xid buffer")
	}

	segs := r.bodySegments()
	var bodyLen uint64
	for _, s := range segs {
		bodyLen += uint64(len(s))
	}

	var written uint64
	var skip uint64
	rem := maxSizeDblks * DblkBytes

	if recOffsDblks == 0 {
		hb := r.hdr.marshal() // guaranteed to fit in the first disk block
		copy(buf, hb)
		written = uint64(len(hb))
		rem -= written
	} else {
		skip = recOffsDblks*DblkBytes - enqHdrSize
	}

	n, remAfter := writeSegments(buf[written:], segs, skip, rem)
	written += n

	complete := skip+n == bodyLen
	if !complete && remAfter != 0 {
		panic("jrnl: Encode invariant violated: invocations must supply strictly increasing, contiguous offsets")
	}

	if complete && r.clean {
		padTo := SizeDblks(written) * DblkBytes
		for i := written; i < padTo && i < uint64(len(buf)); i++ {
			buf[i] = CleanChar
		}
	}

	return SizeDblks(written)
}

// Decode incrementally reads and validates the record whose common
// header prefix h has already been read by the caller (a segment
// scanner reads that fixed prefix from every record to dispatch by
// magic before handing control here). recOffs is the byte-level
// watermark into the logical [header|xid|data?|tail] stream; it must
// be zero on the first call for a given record and is advanced in
// place as bytes are consumed, including on calls that return false;
// a short read of the header's size fields leaves it at zero.
//
// Decode returns (true, nil) once the record is fully read and its
// tail validated. It returns (false, nil) when the stream ends
// cleanly before the record completes — the caller may retry later
// once more bytes are available. Any other error is either a
// *DecodeError reporting a validation failure or a wrapped I/O error
// from the stream.
func (r *EnqRecord) Decode(h RecHdr, s Stream, recOffs *int64) (bool, error) {
	offs := uint64(*recOffs)

	if offs == 0 {
		r.hdr.RecHdr = h
		var szbuf [16]byte
		n, err := s.Read(szbuf[:])
		if n < len(szbuf) {
			// The header is never split (invariant 5): a short read of
			// the size fields is a torn write at the record boundary,
			// so the watermark stays at zero and the caller resumes by
			// re-reading the whole header once more data has arrived.
			return r.shortRead(s, err)
		}
		r.hdr.XidSize = byteOrder.Uint64(szbuf[0:8])
		r.hdr.Dsize = byteOrder.Uint64(szbuf[8:16])
		offs = enqHdrSize
		*recOffs = int64(offs)
		if r.hdr.XidSize > 0 {
			r.xid = make([]byte, r.hdr.XidSize)
		} else {
			r.xid = nil
		}
		r.bodyHash = crc32.New(checksumTable)
	}

	xidEnd := enqHdrSize + r.hdr.XidSize
	if offs < xidEnd {
		o := offs - enqHdrSize
		need := r.hdr.XidSize - o
		n, err := s.Read(r.xid[o : o+need])
		r.bodyHash.Write(r.xid[o : o+uint64(n)])
		offs += uint64(n)
		*recOffs = int64(offs)
		if uint64(n) < need {
			return r.shortRead(s, err)
		}
	}

	bodyEnd := xidEnd
	if !r.hdr.IsExternal() {
		bodyEnd += r.hdr.Dsize
		if offs < bodyEnd {
			o := offs - xidEnd
			need := r.hdr.Dsize - o
			n, err := s.Ignore(int(need), r.bodyHash)
			offs += uint64(n)
			*recOffs = int64(offs)
			if uint64(n) < need {
				return r.shortRead(s, err)
			}
		}
	}

	tailEnd := bodyEnd + recTailSize
	if offs < tailEnd {
		o := offs - bodyEnd
		need := tailEnd - bodyEnd - o
		n, err := s.Read(r.tailBuf[o : o+need])
		offs += uint64(n)
		*recOffs = int64(offs)
		if uint64(n) < need {
			return r.shortRead(s, err)
		}
		r.tail = unmarshalRecTail(r.tailBuf[:])
	}

	padBytes := int(r.RecSizeDblks()*DblkBytes - r.RecSize())
	if padBytes > 0 {
		n, err := s.Ignore(padBytes, io.Discard)
		offs += uint64(n)
		*recOffs = int64(offs)
		if err != nil && s.Bad() {
			return false, err
		}
		s.ClearFail()
	}

	if r.tail.Xmagic != ^r.hdr.Magic {
		return false, newBadTailError("decode", BadMagic, uint64(^r.hdr.Magic), uint64(r.tail.Xmagic))
	}
	if r.tail.Serial != r.hdr.Serial {
		return false, newBadTailError("decode", BadSerial, r.hdr.Serial, r.tail.Serial)
	}
	if r.tail.Rid != r.hdr.Rid {
		return false, newBadTailError("decode", BadRecordID, r.hdr.Rid, r.tail.Rid)
	}
	computed := r.bodyHash.Sum32()
	if r.tail.Checksum != computed {
		return false, newBadTailError("decode", BadChecksum, uint64(computed), uint64(r.tail.Checksum))
	}
	return true, nil
}

// shortRead interprets a Read/Ignore call that returned fewer bytes
// than requested: a clean EOF is not a decode failure, so the fail bit
// is cleared and (false, nil) is returned; anything else is a hard
// stream error.
func (r *EnqRecord) shortRead(s Stream, err error) (bool, error) {
	if s.Bad() {
		return false, err
	}
	if !s.EOF() {
		return false, io.ErrUnexpectedEOF
	}
	s.ClearFail()
	return false, nil
}

// Rid returns the record's journal-assigned record id.
func (r *EnqRecord) Rid() uint64 { return r.hdr.Rid }

// Serial returns the record's journal serial number.
func (r *EnqRecord) Serial() uint64 { return r.hdr.Serial }

// GetXid returns the record's transaction-id bytes. It returns a
// non-owning view into the record's internal buffer (valid until the
// next Reset or Decode call), or nil with length 0 if there is no xid.
func (r *EnqRecord) GetXid() []byte {
	if len(r.xid) == 0 {
		return nil
	}
	return r.xid
}

// GetData returns the logical payload length regardless of mode, and a
// non-owning view into the payload bytes when they are available:
// only in encode mode with an in-memory payload bound and the record
// not external. Decode never materializes the payload, so GetData
// after a successful Decode always returns a nil slice alongside the
// correct Dsize.
func (r *EnqRecord) GetData() (data []byte, dsize uint64) {
	dsize = r.hdr.Dsize
	if r.hdr.IsExternal() {
		return nil, dsize
	}
	return r.data, dsize
}

// String renders a debug line in the source's format. The xid is
// opaque binary data (the spec leaves whether it is textual
// unspecified), so it is rendered as hex rather than as a C string.
func (r *EnqRecord) String() string {
	s := "enq_rec: m=" + strconv.FormatUint(uint64(r.hdr.Magic), 10)
	s += " v=" + strconv.FormatUint(uint64(r.hdr.Version), 10)
	s += " rid=" + strconv.FormatUint(r.hdr.Rid, 10)
	if len(r.xid) > 0 {
		s += ` xid="` + hex.EncodeToString(r.xid) + `"`
	}
	s += " len=" + strconv.FormatUint(r.hdr.Dsize, 10)
	return s
}
