package gt3x

import (
	"encoding/binary"
	"fmt"
	"io"
)

// RecordType tags one log record in a GT3X activity stream.
type RecordType uint8

// The complete record type set written by device firmware. Only Parameters
// and the two activity encodings are decoded; every other type is skipped.
const (
	RecordTypeActivity     RecordType = 0x00
	RecordTypeBattery      RecordType = 0x02
	RecordTypeEvent        RecordType = 0x03
	RecordTypeHeartRateBPM RecordType = 0x04
	RecordTypeLux          RecordType = 0x05
	RecordTypeMetadata     RecordType = 0x06
	RecordTypeTag          RecordType = 0x07
	RecordTypeEpoch        RecordType = 0x09
	RecordTypeHeartRateANT RecordType = 0x0B
	RecordTypeEpoch2       RecordType = 0x0C
	RecordTypeCapsense     RecordType = 0x0D
	RecordTypeHeartRateBLE RecordType = 0x0E
	RecordTypeEpoch3       RecordType = 0x0F
	RecordTypeEpoch4       RecordType = 0x10
	RecordTypeParameters   RecordType = 0x15
	RecordTypeSensorSchema RecordType = 0x18
	RecordTypeSensorData   RecordType = 0x19
	RecordTypeActivity2    RecordType = 0x1A
)

var recordTypeNames = map[RecordType]string{
	RecordTypeActivity:     "ACTIVITY",
	RecordTypeBattery:      "BATTERY",
	RecordTypeEvent:        "EVENT",
	RecordTypeHeartRateBPM: "HEART_RATE_BPM",
	RecordTypeLux:          "LUX",
	RecordTypeMetadata:     "METADATA",
	RecordTypeTag:          "TAG",
	RecordTypeEpoch:        "EPOCH",
	RecordTypeHeartRateANT: "HEART_RATE_ANT",
	RecordTypeEpoch2:       "EPOCH2",
	RecordTypeCapsense:     "CAPSENSE",
	RecordTypeHeartRateBLE: "HEART_RATE_BLE",
	RecordTypeEpoch3:       "EPOCH3",
	RecordTypeEpoch4:       "EPOCH4",
	RecordTypeParameters:   "PARAMETERS",
	RecordTypeSensorSchema: "SENSOR_SCHEMA",
	RecordTypeSensorData:   "SENSOR_DATA",
	RecordTypeActivity2:    "ACTIVITY2",
}

func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(t))
}

type payloadKind int

const (
	kindSkip payloadKind = iota
	kindParameters
	kindActivity
	kindActivity2
)

func (t RecordType) kind() payloadKind {
	switch t {
	case RecordTypeParameters:
		return kindParameters
	case RecordTypeActivity:
		return kindActivity
	case RecordTypeActivity2:
		return kindActivity2
	default:
		return kindSkip
	}
}

const (
	recordSeparator  = 0x1E
	recordHeaderSize = 7
	activityAxes     = 3
)

// RecordHeader is the fixed seven-byte header that follows a record
// separator: type tag, whole-second payload timestamp, payload byte length.
type RecordHeader struct {
	Type         RecordType
	PayloadStart uint32
	Size         uint16
}

func parseRecordHeader(buf []byte) (RecordHeader, error) {
	var hdr RecordHeader
	if len(buf) < recordHeaderSize {
		return hdr, io.ErrUnexpectedEOF
	}
	hdr.Type = RecordType(buf[0])
	hdr.PayloadStart = binary.LittleEndian.Uint32(buf[1:5])
	hdr.Size = binary.LittleEndian.Uint16(buf[5:7])
	return hdr, nil
}

// expectedSamples converts a payload byte length into the number of sample
// rows the record carries. Activity packs a 3x12-bit triple into 4.5 bytes;
// Activity2 stores three little-endian int16 values per row.
func expectedSamples(t RecordType, size uint16) int {
	switch t {
	case RecordTypeActivity:
		return int(size) * 2 / 9
	case RecordTypeActivity2:
		return int(size) / 2 / 3
	}
	return 0
}
