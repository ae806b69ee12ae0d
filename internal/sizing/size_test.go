package sizing

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		offset   int64
		size     int64
		fileSize int64
		want     bool
	}{
		{name: "inside", offset: 10, size: 20, fileSize: 100, want: true},
		{name: "exact end", offset: 80, size: 20, fileSize: 100, want: true},
		{name: "empty slot at end", offset: 100, size: 0, fileSize: 100, want: true},
		{name: "past end", offset: 81, size: 20, fileSize: 100, want: false},
		{name: "negative offset", offset: -1, size: 1, fileSize: 100, want: false},
		{name: "negative size", offset: 0, size: -1, fileSize: 100, want: false},
		{name: "negative file size", offset: 0, size: 0, fileSize: -1, want: false},
		{name: "overflow", offset: math.MaxInt64, size: 1, fileSize: math.MaxInt64, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Within(tc.offset, tc.size, tc.fileSize))
		})
	}
}

func TestReadAllWithLimit(t *testing.T) {
	t.Parallel()

	errTooBig := errors.New("too big")

	data, err := ReadAllWithLimit(bytes.NewReader([]byte("abcd")), 4, errTooBig)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), data)

	_, err = ReadAllWithLimit(bytes.NewReader([]byte("abcde")), 4, errTooBig)
	assert.ErrorIs(t, err, errTooBig)
}
