package jrnl

// RecSize returns the total on-disk byte size of an enqueue record
// with the given xid length, payload length, and external flag,
// before block-alignment padding.
func RecSize(xidsize, dsize uint64, external bool) uint64 {
	size := uint64(enqHdrSize) + xidsize + uint64(recTailSize)
	if !external {
		size += dsize
	}
	return size
}

// SizeDblks returns the number of whole disk blocks needed to hold
// nbytes, rounding up. Zero bytes consumes zero blocks.
func SizeDblks(nbytes uint64) uint64 {
	if nbytes == 0 {
		return 0
	}
	return (nbytes + DblkBytes - 1) / DblkBytes
}

// RecSizeDblks returns the number of disk blocks this record occupies
// once the header, xid, optional payload, and tail are laid out and
// padded to a block boundary.
func (r *EnqRecord) RecSizeDblks() uint64 {
	return SizeDblks(r.RecSize())
}

// RecSize returns the total on-disk byte size of r before padding.
func (r *EnqRecord) RecSize() uint64 {
	return RecSize(r.hdr.XidSize, r.hdr.Dsize, r.hdr.IsExternal())
}
