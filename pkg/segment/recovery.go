package segment

import (
	"io"
	"os"
	"time"

	"github.com/ashgrove/enqjrnl/pkg/jrnl"
	"github.com/ashgrove/enqjrnl/pkg/metrics"
)

// RecoveryResult summarizes a Recover pass over a segment file.
type RecoveryResult struct {
	RecordsValidated int64
	RecordsTruncated int64
	FileSizeBefore   int64
	FileSizeAfter    int64
	RecoveryTime     time.Duration
}

// Recover scans path from the beginning, validating every record, and
// truncates the file back to the end of the last valid record as soon
// as it hits one it cannot validate — a torn write or a corrupt tail.
// In practice that bad record is always the last thing in the file (a
// corrupt record anywhere earlier would desynchronize every following
// record's header-prefix read and surface as its own failure first),
// so truncation is always to the last good record boundary.
//
// When idx is non-nil, every validated record's rid is indexed against
// its starting offset as Recover walks the file.
func Recover(path string, idx *RidIndex, m *metrics.Collector) (*RecoveryResult, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RecoveryResult{RecoveryTime: time.Since(start)}, nil
		}
		return nil, err
	}
	sizeBefore := info.Size()

	scanner, err := NewScanner(path, 0, m)
	if err != nil {
		return nil, err
	}
	defer scanner.Close()

	var validated int64
	var lastValidOffset int64

	for {
		offsetBefore := scanner.Offset()
		rec, err := scanner.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			if offsetBefore < sizeBefore {
				if _, isDecodeErr := jrnl.AsDecodeError(err); isDecodeErr {
					break
				}
			}
			return nil, err
		}
		validated++
		lastValidOffset = scanner.Offset()
		if idx != nil {
			if err := idx.Put(rec.Rid(), offsetBefore); err != nil {
				return nil, err
			}
		}
	}

	sizeAfter := sizeBefore
	var truncated int64
	if lastValidOffset < sizeBefore {
		f, err := os.OpenFile(path, os.O_RDWR, 0o600)
		if err != nil {
			return nil, err
		}
		if err := f.Truncate(lastValidOffset); err != nil {
			f.Close()
			return nil, err
		}
		f.Close()
		sizeAfter = lastValidOffset
		truncated = 1
	}

	elapsed := time.Since(start)
	if m != nil {
		m.ObserveScanDuration(elapsed)
	}

	return &RecoveryResult{
		RecordsValidated: validated,
		RecordsTruncated: truncated,
		FileSizeBefore:   sizeBefore,
		FileSizeAfter:    sizeAfter,
		RecoveryTime:     elapsed,
	}, nil
}
