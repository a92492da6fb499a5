package jrnl

import "testing"

func TestSizeDblks(t *testing.T) {
	cases := []struct {
		nbytes uint64
		want   uint64
	}{
		{0, 0},
		{1, 1},
		{DblkBytes, 1},
		{DblkBytes + 1, 2},
		{DblkBytes * 3, 3},
		{DblkBytes*3 + 1, 4},
	}

	for _, c := range cases {
		if got := SizeDblks(c.nbytes); got != c.want {
			t.Errorf("SizeDblks(%d) = %d, want %d", c.nbytes, got, c.want)
		}
	}
}

func TestRecSize(t *testing.T) {
	cases := []struct {
		name     string
		xidsize  uint64
		dsize    uint64
		external bool
		want     uint64
	}{
		{"no xid no data", 0, 0, false, enqHdrSize + recTailSize},
		{"xid only", 16, 0, false, enqHdrSize + 16 + recTailSize},
		{"xid and data", 16, 100, false, enqHdrSize + 16 + 100 + recTailSize},
		{"external omits data", 16, 100, true, enqHdrSize + 16 + recTailSize},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RecSize(c.xidsize, c.dsize, c.external); got != c.want {
				t.Errorf("RecSize(%d,%d,%v) = %d, want %d", c.xidsize, c.dsize, c.external, got, c.want)
			}
		})
	}
}

func TestEnqRecord_RecSizeDblks(t *testing.T) {
	r := NewEnqRecord()
	xid := make([]byte, 8)
	data := make([]byte, DblkBytes*2+1) // spills into a third block with the header+xid+tail overhead
	r.Reset(1, 1, data, xid, false, false)

	want := SizeDblks(r.RecSize())
	if got := r.RecSizeDblks(); got != want {
		t.Errorf("RecSizeDblks() = %d, want %d", got, want)
	}
}
