package storage

import (
	"encoding/binary"
	"math"
)

// Stored values are a one-byte type tag followed by the payload. The tag lets
// a typed getter tell "missing" apart from "stored as another type" without
// a schema.
const (
	tagString byte = 's'
	tagNumber byte = 'n'
	tagBool   byte = 'b'
)

func encodeString(s string) []byte {
	buf := make([]byte, 1+len(s))
	buf[0] = tagString
	copy(buf[1:], s)
	return buf
}

func encodeNumber(f float64) []byte {
	buf := make([]byte, 9)
	buf[0] = tagNumber
	binary.BigEndian.PutUint64(buf[1:], math.Float64bits(f))
	return buf
}

func encodeBool(b bool) []byte {
	buf := []byte{tagBool, 0}
	if b {
		buf[1] = 1
	}
	return buf
}

func decodeString(raw []byte) (string, bool) {
	if len(raw) == 0 || raw[0] != tagString {
		return "", false
	}
	return string(raw[1:]), true
}

func decodeNumber(raw []byte) (float64, bool) {
	if len(raw) != 9 || raw[0] != tagNumber {
		return 0, false
	}
	return math.Float64frombits(binary.BigEndian.Uint64(raw[1:])), true
}

func decodeBool(raw []byte) (bool, bool) {
	if len(raw) != 2 || raw[0] != tagBool {
		return false, false
	}
	switch raw[1] {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}
