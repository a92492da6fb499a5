package jrnl

import "hash/crc32"

// checksumTable is CRC-32C (Castagnoli), chosen over the plain IEEE
// polynomial for its native CPU instruction support on amd64/arm64.
// Encoder and decoder must use this exact table; the format leaves the
// polynomial to the implementer but requires it be applied identically
// on both sides.
var checksumTable = crc32.MakeTable(crc32.Castagnoli)

// checksum computes the CRC-32C of the record body: the xid bytes
// followed by the payload bytes (omitted when external).
func checksum(xid, data []byte, external bool) uint32 {
	h := crc32.New(checksumTable)
	h.Write(xid)
	if !external {
		h.Write(data)
	}
	return h.Sum32()
}
