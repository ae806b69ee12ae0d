// Package sizing provides overflow-safe size arithmetic for slot bounds.
package sizing

import (
	"io"
	"math"
)

// AddInt64 adds two non-negative int64 values, returning (result, false) on overflow.
func AddInt64(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// Within reports whether the range [offset, offset+size) lies inside a file
// of fileSize bytes. Negative inputs are never within range.
func Within(offset, size, fileSize int64) bool {
	if fileSize < 0 {
		return false
	}
	end, ok := AddInt64(offset, size)
	return ok && end <= fileSize
}

// ReadAllWithLimit reads up to maxSize bytes from r.
// Returns overflowErr if more than maxSize bytes are available.
func ReadAllWithLimit(r io.Reader, maxSize uint64, overflowErr error) ([]byte, error) {
	if maxSize > uint64(math.MaxInt-1) {
		return nil, overflowErr
	}
	limit := int64(maxSize) + 1 //nolint:gosec // checked above
	lr := &io.LimitedReader{R: r, N: limit}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > maxSize {
		return nil, overflowErr
	}
	return data, nil
}
