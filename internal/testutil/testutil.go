// Package testutil provides fixtures shared by the design data tests.
package testutil

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// Game layout constants mirrored from internal/gamedir so fixtures do not
// depend on the package under test.
const (
	GameExecutable  = "StarRail.exe"
	DesignDirRel    = "StarRail_Data/StreamingAssets/DesignData/Windows"
	ManifestName    = "M_DesignV.bytes"
	manifestHashOff = 0x1C
)

// MockByteSource implements a simple in-memory byte source for tests.
type MockByteSource struct {
	data []byte
}

// NewMockByteSource returns a byte source backed by the provided data.
func NewMockByteSource(data []byte) *MockByteSource {
	return &MockByteSource{data: data}
}

// ReadAt implements io.ReaderAt semantics over the backing slice.
func (m *MockByteSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if off+int64(n) >= int64(len(m.data)) && n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the total size of the backing data.
func (m *MockByteSource) Size() int64 {
	return int64(len(m.data))
}

// ManifestBytes builds an M_DesignV.bytes buffer that stores indexHash the
// way the game does: four 4-byte chunks, each byte-reversed, at offset 0x1C.
func ManifestBytes(indexHash [16]byte) []byte {
	buf := make([]byte, manifestHashOff+len(indexHash)+4)
	for chunk := range 4 {
		for i := range 4 {
			buf[manifestHashOff+chunk*4+i] = indexHash[chunk*4+3-i]
		}
	}
	return buf
}

// GameDir describes an on-disk game install fixture.
type GameDir struct {
	Root      string
	DesignDir string
	IndexHash string
}

// WriteGameDir lays out a minimal game install under a fresh temp directory:
// the executable marker, the design manifest, the index file and the given
// data files (keyed by hex file hash).
func WriteGameDir(tb testing.TB, indexHash [16]byte, index []byte, dataFiles map[string][]byte) *GameDir {
	tb.Helper()

	root := tb.TempDir()
	designDir := filepath.Join(root, filepath.FromSlash(DesignDirRel))
	if err := os.MkdirAll(designDir, 0o750); err != nil {
		tb.Fatalf("create design dir: %v", err)
	}

	hashHex := hex.EncodeToString(indexHash[:])
	files := make(map[string][]byte, len(dataFiles)+3)
	files[filepath.Join(root, GameExecutable)] = nil
	files[filepath.Join(designDir, ManifestName)] = ManifestBytes(indexHash)
	files[filepath.Join(designDir, "DesignV_"+hashHex+".bytes")] = index
	for fileHash, data := range dataFiles {
		files[filepath.Join(designDir, fileHash+".bytes")] = data
	}
	for path, data := range files {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			tb.Fatalf("write %s: %v", path, err)
		}
	}

	return &GameDir{Root: root, DesignDir: designDir, IndexHash: hashHex}
}

// Pad returns data followed by n zero bytes.
func Pad(data []byte, n int) []byte {
	out := make([]byte, len(data)+n)
	copy(out, data)
	return out
}
