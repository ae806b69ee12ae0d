package varint

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/designpatch/internal/designtype"
)

func TestAppendInt8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value int8
		want  []byte
	}{
		{name: "zero", value: 0, want: []byte{0x00}},
		{name: "one", value: 1, want: []byte{0x02}},
		{name: "minus one", value: -1, want: []byte{0x01}},
		{name: "largest single byte", value: 63, want: []byte{0x7e}},
		{name: "first two byte value", value: 64, want: []byte{0x80, 0x01}},
		{name: "max", value: math.MaxInt8, want: []byte{0xfe, 0x01}},
		{name: "min", value: math.MinInt8, want: []byte{0xff, 0x01}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := AppendInt8(nil, tc.value)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, len(got), MaxLen)
		})
	}
}

func TestReadInt8RoundTrip(t *testing.T) {
	t.Parallel()

	for v := math.MinInt8; v <= math.MaxInt8; v++ {
		enc := AppendInt8(nil, int8(v))
		r := bytes.NewReader(enc)
		got, err := ReadInt8(r)
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, int8(v), got)
		assert.Zero(t, r.Len(), "value %d left unread bytes", v)
	}
}

func TestReadInt8Boundaries(t *testing.T) {
	t.Parallel()

	for _, v := range []int8{0, 127} {
		got, err := ReadInt8(bytes.NewReader(AppendInt8(nil, v)))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestReadInt8Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "cut after continuation", data: []byte{0x80}},
		{name: "chain longer than width", data: []byte{0x80, 0x80, 0x00}},
		{name: "all continuation bits", data: []byte{0xff, 0xff, 0xff, 0xff, 0xff}},
		{name: "overflows eight bits", data: []byte{0xff, 0x7f}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadInt8(bytes.NewReader(tc.data))
			require.ErrorIs(t, err, designtype.ErrMalformedVarint)
			assert.ErrorIs(t, err, designtype.ErrFormat)
		})
	}
}

func TestReadInt8ShortInputWrapsUnexpectedEOF(t *testing.T) {
	t.Parallel()

	_, err := ReadInt8(bytes.NewReader([]byte{0x81}))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
