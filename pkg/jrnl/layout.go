package jrnl

// DblkBytes is the size in bytes of one disk block, the alignment unit
// for every record written to a journal segment. All page-offset
// arithmetic in this package is expressed in units of DblkBytes.
const DblkBytes = 128

// EnqMagic tags the header of an enqueue record. It is not a checksum;
// it identifies the record kind so a segment scanner can dispatch on
// it before the rest of the header is known to be valid.
const EnqMagic uint32 = 0x454e5100 // "ENQ\x00"

// JrnlVersion is the current on-disk format version written into every
// header by this package.
const JrnlVersion uint8 = 1

// CleanChar fills the padding between the end of a record and the next
// disk-block boundary when clean-padding mode is enabled. It has no
// effect on dblksWritten; it exists purely to make corruption visible
// in a hex dump of an otherwise dark journal.
const CleanChar byte = 0xa5

// flag bits packed into EnqHdr.Flags.
const (
	flagTransient uint16 = 1 << 0
	flagExternal  uint16 = 1 << 1
)
