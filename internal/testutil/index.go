package testutil

import (
	"encoding/binary"
	"testing"
)

// TestEntry holds data for building a test index entry.
type TestEntry struct {
	NameHash int32
	Size     int32
	Offset   int32
}

// TestFile holds data for building a test index file record.
type TestFile struct {
	NameHash int32
	FileHash [16]byte
	ReadSize uint64
	Unk1     uint8
	Entries  []TestEntry
}

// BuildTestIndex encodes an index buffer from test files, using the same
// per-field byte order as the game's index files.
func BuildTestIndex(tb testing.TB, unk1 uint64, unk2 uint32, files []TestFile) []byte {
	tb.Helper()

	buf := binary.LittleEndian.AppendUint64(nil, unk1)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(files))) //nolint:gosec // test sizes are small
	buf = binary.LittleEndian.AppendUint32(buf, unk2)

	for _, f := range files {
		buf = binary.BigEndian.AppendUint32(buf, uint32(f.NameHash)) //nolint:gosec // raw bits
		buf = append(buf, f.FileHash[:]...)
		buf = binary.BigEndian.AppendUint64(buf, f.ReadSize)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(f.Entries))) //nolint:gosec // test sizes are small
		for _, e := range f.Entries {
			buf = binary.BigEndian.AppendUint32(buf, uint32(e.NameHash)) //nolint:gosec // raw bits
			buf = binary.BigEndian.AppendUint32(buf, uint32(e.Size))     //nolint:gosec // raw bits
			buf = binary.BigEndian.AppendUint32(buf, uint32(e.Offset))   //nolint:gosec // raw bits
		}
		buf = append(buf, f.Unk1)
	}

	return buf
}

// FileHash returns a 16-byte file hash whose bytes count up from seed.
func FileHash(seed byte) [16]byte {
	var h [16]byte
	for i := range h {
		h[i] = seed + byte(i)
	}
	return h
}
