package gt3x

import (
	"encoding/binary"
	"fmt"
	"math"
)

// timeUnit is the resolution of reconstructed timestamps: centiseconds.
const timeUnit = 100

// reconstructTimestamp returns the number of centiseconds between the device
// start time and the index-th sample of a record stamped payloadStart. The
// record header carries whole seconds; sub-second offsets come from the
// sample's position within its one-second payload.
func reconstructTimestamp(payloadStart uint32, index, sampleRate int, startTime uint32) int64 {
	elapsed := float64(int64(payloadStart) - int64(startTime))
	return int64(math.Round((elapsed + float64(index)/float64(sampleRate)) * timeUnit))
}

// packedDecoder extracts consecutive 12-bit fields from an activity payload.
// The even/odd nibble phase alternates per field across the whole record, not
// per sample triple, so the low nibble read during an even field carries into
// the next odd field.
type packedDecoder struct {
	odd   bool
	carry byte
}

// next assembles one 12-bit field, sign-extends bit 11, and returns the value
// as a signed 16-bit integer. It reports false once the payload is exhausted
// mid-field.
func (d *packedDecoder) next(payload []byte, pos *int) (int16, bool) {
	var shifter uint16
	if !d.odd {
		if *pos+2 > len(payload) {
			return 0, false
		}
		shifter = uint16(payload[*pos]) << 4
		shifter |= uint16(payload[*pos+1]&0xF0) >> 4
		d.carry = payload[*pos+1] & 0x0F
		*pos += 2
	} else {
		if *pos >= len(payload) {
			return 0, false
		}
		shifter = uint16(d.carry) << 8
		shifter |= uint16(payload[*pos])
		*pos++
	}
	if shifter&0x0800 != 0 {
		shifter |= 0xF000
	}
	d.odd = !d.odd
	return int16(shifter), true
}

// decodeActivity decodes one second of 12-bit packed samples (record type
// 0x00) into the table starting at row start. Timestamps are written for
// every expected row even when the payload is truncated; sample cells beyond
// the truncation point stay zero.
func (r *Reader) decodeActivity(payload []byte, hdr RecordHeader, start, count int) {
	if r.opts.Debug {
		fmt.Fprintf(r.diag, "activity start: %d samples: %d\n", start, count)
	}
	var dec packedDecoder
	pos := 0
	for i := 0; i < count; i++ {
		for j := 0; j < activityAxes; j++ {
			v, ok := dec.next(payload, &pos)
			if !ok {
				break
			}
			r.table.SetSample(start+i, j, v)
		}
		r.table.SetTimestamp(start+i, reconstructTimestamp(hdr.PayloadStart, i, r.opts.SampleRate, r.startTime))
	}
}

// decodeActivity2 decodes one second of little-endian int16 samples (record
// type 0x1A), three per row, with the same truncation behavior as
// decodeActivity.
func (r *Reader) decodeActivity2(payload []byte, hdr RecordHeader, start, count int) {
	if r.opts.Debug {
		fmt.Fprintf(r.diag, "activity2 start: %d samples: %d\n", start, count)
	}
	pos := 0
	for i := 0; i < count; i++ {
		for j := 0; j < activityAxes; j++ {
			if pos+2 > len(payload) {
				break
			}
			r.table.SetSample(start+i, j, int16(binary.LittleEndian.Uint16(payload[pos:pos+2])))
			pos += 2
		}
		r.table.SetTimestamp(start+i, reconstructTimestamp(hdr.PayloadStart, i, r.opts.SampleRate, r.startTime))
	}
}
