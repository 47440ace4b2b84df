package storage

import (
	"math"
	"testing"
)

func TestCodec_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "dark", "olá, mundo", "{\"a\":1}"} {
		got, ok := decodeString(encodeString(s))
		if !ok || got != s {
			t.Errorf("string %q: got (%q, %v)", s, got, ok)
		}
	}

	for _, f := range []float64{0, -1.5, 42, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(-1)} {
		got, ok := decodeNumber(encodeNumber(f))
		if !ok || got != f {
			t.Errorf("number %v: got (%v, %v)", f, got, ok)
		}
	}

	for _, b := range []bool{true, false} {
		got, ok := decodeBool(encodeBool(b))
		if !ok || got != b {
			t.Errorf("bool %v: got (%v, %v)", b, got, ok)
		}
	}
}

func TestCodec_TypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"string", encodeString("1")},
		{"number", encodeNumber(1)},
		{"bool", encodeBool(true)},
		{"unknown tag", []byte{'x', 1}},
		{"short number", []byte{tagNumber, 1, 2}},
		{"bad bool byte", []byte{tagBool, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sOK := decodeString(tt.raw)
			_, nOK := decodeNumber(tt.raw)
			_, bOK := decodeBool(tt.raw)

			decoded := 0
			for _, ok := range []bool{sOK, nOK, bOK} {
				if ok {
					decoded++
				}
			}
			if decoded > 1 {
				t.Errorf("%v decoded as %d types, want at most 1", tt.raw, decoded)
			}
		})
	}
}
