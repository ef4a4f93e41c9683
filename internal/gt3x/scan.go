package gt3x

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// ScanSummary describes the record inventory of a log stream without decoding
// any activity samples.
type ScanSummary struct {
	Records         int
	ByType          map[RecordType]int
	ExpectedSamples int
	Desyncs         int
	StartTime       uint32
	Bytes           int64
}

// ScanFile inventories the records of the log file at path: per-type counts,
// the total sample rows the activity records would produce, and the device
// start time from parameter records. The sample table is never allocated.
func ScanFile(path string) (ScanSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ScanSummary{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return ScanSummary{}, err
	}
	return Scan(f, info.Size())
}

// Scan inventories the records of an already-open log stream.
func Scan(ra io.ReaderAt, size int64) (ScanSummary, error) {
	src := newBlockSource(ra, nil, size, minDataBlockSize)
	defer src.Close()

	summary := ScanSummary{ByType: make(map[RecordType]int), Bytes: size}
	var offset int64
	for {
		view, err := src.Slice(offset, 1)
		if len(view) < 1 {
			if err != nil && !errors.Is(err, io.EOF) {
				return summary, err
			}
			return summary, nil
		}
		sep := view[0]
		offset++
		if sep != recordSeparator {
			summary.Desyncs++
			continue
		}

		hdrView, err := src.Slice(offset, recordHeaderSize)
		if len(hdrView) < recordHeaderSize {
			if err != nil && !errors.Is(err, io.EOF) {
				return summary, err
			}
			return summary, nil
		}
		hdr, err := parseRecordHeader(hdrView)
		if err != nil {
			return summary, err
		}
		offset += recordHeaderSize

		summary.Records++
		summary.ByType[hdr.Type]++
		summary.ExpectedSamples += expectedSamples(hdr.Type, hdr.Size)

		if hdr.Type == RecordTypeParameters {
			payload, err := src.Slice(offset, int(hdr.Size))
			if err != nil && !errors.Is(err, io.EOF) {
				return summary, err
			}
			for i := 0; i+paramEntrySize <= len(payload); i += paramEntrySize {
				address := binary.LittleEndian.Uint16(payload[i : i+2])
				key := binary.LittleEndian.Uint16(payload[i+2 : i+4])
				if address == paramAddressSettings && key == paramKeyStartTime {
					summary.StartTime = binary.LittleEndian.Uint32(payload[i+4 : i+8])
				}
			}
		}

		offset += int64(hdr.Size) + 1
		if offset > size {
			offset = size
		}
	}
}
