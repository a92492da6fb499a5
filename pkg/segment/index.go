package segment

import (
	"encoding/binary"

	"github.com/cockroachdb/pebble"
)

// RidIndex maps a record's rid to the byte offset of its segment file
// it starts at, backed by Pebble. It exists so a caller can seek
// straight to a record instead of re-scanning a segment from the
// start.
type RidIndex struct {
	db *pebble.DB
}

// OpenRidIndex opens (creating if needed) a Pebble database at path to
// serve as a rid index.
func OpenRidIndex(path string) (*RidIndex, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &RidIndex{db: db}, nil
}

func ridKey(rid uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], rid)
	return k[:]
}

// Put records that rid starts at offset.
func (x *RidIndex) Put(rid uint64, offset int64) error {
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], uint64(offset))
	return x.db.Set(ridKey(rid), v[:], pebble.NoSync)
}

// Get returns the byte offset rid was recorded at, and whether it was
// found at all.
func (x *RidIndex) Get(rid uint64) (offset int64, ok bool, err error) {
	v, closer, err := x.db.Get(ridKey(rid))
	if err == pebble.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	defer closer.Close()
	return int64(binary.BigEndian.Uint64(v)), true, nil
}

// Delete removes rid from the index. It is not an error to delete a
// rid that was never indexed.
func (x *RidIndex) Delete(rid uint64) error {
	return x.db.Delete(ridKey(rid), pebble.NoSync)
}

// Close closes the underlying Pebble database.
func (x *RidIndex) Close() error {
	return x.db.Close()
}
