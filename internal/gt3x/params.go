package gt3x

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	paramEntrySize = 8

	paramEncodedMaximum  = 0x007FFFFF
	paramEncodedMinimum  = 0x00800000
	paramSignificandMask = 0x00FFFFFF
	paramExponentMask    = 0xFF000000
	paramExponentOffset  = 24
	paramFloatMaximum    = 8388608.0 // 2^23

	paramAddressDevice   = 0
	paramAddressSettings = 1
	paramKeyStartTime    = 12
)

// Device-attribute keys whose values use the encoded float representation.
var floatParamKeys = map[uint16]bool{
	49: true,
	51: true,
	55: true,
	57: true,
	58: true,
}

// DecodeFloatParam decodes the 32-bit encoded floating point representation
// used by parameter records: a signed 8-bit exponent in the top byte and a
// signed 24-bit significand normalized by 2^23 in the low bytes. The two
// reserved encodings map to the extremes of the double range.
func DecodeFloatParam(value uint32) float64 {
	switch value {
	case paramEncodedMaximum:
		return math.MaxFloat64
	case paramEncodedMinimum:
		return -math.MaxFloat64
	}

	exponent := int32((value & paramExponentMask) >> paramExponentOffset)
	if exponent&0x80 != 0 {
		exponent = int32(uint32(exponent) | 0xFFFFFF00)
	}

	significand := int32(value & paramSignificandMask)
	if significand&paramEncodedMinimum != 0 {
		significand = int32(uint32(significand) | 0xFF000000)
	}

	return float64(significand) / paramFloatMaximum * math.Pow(2, float64(exponent))
}

// parseParameters walks the 8-byte address/key/value entries of a parameter
// record payload. The only durable side effect is capturing the device start
// time (address 1, key 12); later occurrences overwrite earlier ones. A
// payload length that is not a multiple of eight leaves the remainder unread.
func (r *Reader) parseParameters(payload []byte) {
	n := len(payload) / paramEntrySize
	if r.opts.Verbose {
		fmt.Fprintln(r.diag, "---GT3X PARAMETERS")
	}
	for i := 0; i < n; i++ {
		entry := payload[i*paramEntrySize : (i+1)*paramEntrySize]
		address := binary.LittleEndian.Uint16(entry[0:2])
		key := binary.LittleEndian.Uint16(entry[2:4])
		value := binary.LittleEndian.Uint32(entry[4:8])

		switch {
		case address == paramAddressDevice && floatParamKeys[key]:
			decoded := DecodeFloatParam(value)
			if r.opts.Verbose {
				fmt.Fprintf(r.diag, "address: %d key: %d value: %g\n", address, key, decoded)
			}
		case address == paramAddressSettings && key == paramKeyStartTime:
			r.startTime = value
			if r.opts.Verbose {
				fmt.Fprintf(r.diag, "address: %d key: %d (start time) value: %d\n", address, key, value)
			}
		default:
			if r.opts.Verbose {
				fmt.Fprintf(r.diag, "address: %d key: %d value: %d\n", address, key, value)
			}
		}
	}
	if r.opts.Verbose {
		fmt.Fprintln(r.diag, "---END PARAMETERS")
	}
}
