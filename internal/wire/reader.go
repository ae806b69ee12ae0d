// Package wire provides a bounds-checked cursor over a byte slice whose
// multi-byte reads take an explicit byte order per call.
//
// Design data formats mix little- and big-endian fields inside the same
// structure, so there is deliberately no reader-wide default order.
package wire

import (
	"encoding/binary"
	"io"
)

// Reader reads fixed-width fields from an in-memory buffer.
//
// Short reads return io.ErrUnexpectedEOF and leave the cursor unchanged.
type Reader struct {
	data []byte
	off  int
}

// Interface compliance.
var _ io.ByteReader = (*Reader)(nil)

// NewReader returns a Reader positioned at the start of data.
// The data is retained; callers must not modify it while reading.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.off
}

// ReadByte implements io.ByteReader. It returns io.EOF when no bytes remain.
func (r *Reader) ReadByte() (byte, error) {
	if r.off >= len(r.data) {
		return 0, io.EOF
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	p, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// Uint32 reads a 4-byte unsigned integer in the given order.
func (r *Reader) Uint32(order binary.ByteOrder) (uint32, error) {
	p, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(p), nil
}

// Int32 reads a 4-byte two's complement integer in the given order.
func (r *Reader) Int32(order binary.ByteOrder) (int32, error) {
	v, err := r.Uint32(order)
	return int32(v), err //nolint:gosec // reinterpretation of the raw bits
}

// Uint64 reads an 8-byte unsigned integer in the given order.
func (r *Reader) Uint64(order binary.ByteOrder) (uint64, error) {
	p, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(p), nil
}

// Bytes returns the next n bytes.
//
// The returned slice aliases the reader's buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	return r.next(n)
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	p := r.data[r.off : r.off+n : r.off+n]
	r.off += n
	return p, nil
}
