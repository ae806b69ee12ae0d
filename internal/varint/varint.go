// Package varint implements the zig-zag signed varint used for counts in
// design tables.
//
// The signed value is zig-zag mapped onto a uint8 and then written seven bits
// per byte, least-significant group first, with the high bit of each byte set
// while more groups follow. An 8-bit value never needs more than MaxLen bytes.
package varint

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/meigma/designpatch/internal/designtype"
)

// MaxLen is the maximum encoded length of an 8-bit varint.
const MaxLen = 2

// AppendInt8 appends the varint encoding of v to dst.
func AppendInt8(dst []byte, v int8) []byte {
	u := zigzag(v)
	for u >= 0x80 {
		dst = append(dst, u|0x80)
		u >>= 7
	}
	return append(dst, u)
}

// ReadInt8 decodes one varint from r.
//
// It fails with ErrMalformedVarint when the continuation chain is longer than
// MaxLen, when the value does not fit in 8 bits, or when r is exhausted first.
func ReadInt8(r io.ByteReader) (int8, error) {
	var u uint16
	for i := range MaxLen {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return 0, fmt.Errorf("%w: %w", designtype.ErrMalformedVarint, err)
		}
		u |= uint16(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			if u > math.MaxUint8 {
				return 0, fmt.Errorf("%w: value %d overflows 8 bits", designtype.ErrMalformedVarint, u)
			}
			return unzigzag(uint8(u)), nil
		}
	}
	return 0, fmt.Errorf("%w: more than %d groups", designtype.ErrMalformedVarint, MaxLen)
}

func zigzag(v int8) uint8 {
	return uint8((v << 1) ^ (v >> 7)) //nolint:gosec // zig-zag reinterprets the sign bit
}

func unzigzag(u uint8) int8 {
	return int8(u>>1) ^ -int8(u&1) //nolint:gosec // u>>1 always fits in int8
}
