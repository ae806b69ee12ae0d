// Package gamedir locates the design data files inside a game install.
package gamedir

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// Executable marks the root of a game install.
	Executable = "StarRail.exe"

	// DesignDirRel is the design data directory relative to the game root.
	DesignDirRel = "StarRail_Data/StreamingAssets/DesignData/Windows"

	// ManifestName is the file recording the current index hash.
	ManifestName = "M_DesignV.bytes"

	manifestHashOffset = 0x1C
	indexHashSize      = 0x10
	hashChunkSize      = 4
)

// ErrGameNotFound is returned when a directory is not a game root.
var ErrGameNotFound = errors.New("game path not found")

// Resolve returns the game root to operate on. An empty path means the
// working directory. The directory must contain the game executable.
func Resolve(path string) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		path = wd
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve game path: %w", err)
	}

	info, err := os.Stat(filepath.Join(root, Executable))
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s has no %s; run from the game root or pass the game path",
			ErrGameNotFound, root, Executable)
	}
	return root, nil
}

// DesignDir returns the design data directory of the game at root.
func DesignDir(root string) string {
	return filepath.Join(root, filepath.FromSlash(DesignDirRel))
}

// IndexHash reads the hex hash of the current index from the manifest in
// designDir. The hash is stored as four 4-byte chunks, each byte-reversed.
func IndexHash(designDir string) (string, error) {
	f, err := os.Open(filepath.Join(designDir, ManifestName))
	if err != nil {
		return "", fmt.Errorf("open design manifest: %w", err)
	}
	defer f.Close()

	var raw [indexHashSize]byte
	if _, err := f.ReadAt(raw[:], manifestHashOffset); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", fmt.Errorf("read index hash from %s: %w", ManifestName, err)
	}

	var hash [indexHashSize]byte
	for chunk := 0; chunk < indexHashSize; chunk += hashChunkSize {
		for i := range hashChunkSize {
			hash[chunk+i] = raw[chunk+hashChunkSize-1-i]
		}
	}
	return hex.EncodeToString(hash[:]), nil
}

// IndexPath returns the path of the index file with the given hash.
func IndexPath(designDir, indexHash string) string {
	return filepath.Join(designDir, "DesignV_"+indexHash+".bytes")
}

// DataPath returns the path of the data file with the given hash.
func DataPath(designDir, fileHash string) string {
	return filepath.Join(designDir, fileHash+".bytes")
}
