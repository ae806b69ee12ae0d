package slot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/meigma/designpatch/designindex"
	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/internal/sizing"
)

// ByteSource provides random access to a data file.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// fileSource adapts an open file to ByteSource.
type fileSource struct {
	*os.File
	size int64
}

func (s fileSource) Size() int64 { return s.size }

// Validate checks that entry's slot lies inside a file of fileSize bytes.
func Validate(entry designindex.DataEntry, fileSize int64) error {
	if !sizing.Within(int64(entry.Offset), int64(entry.Size), fileSize) {
		return fmt.Errorf("%w: offset %d size %d in file of %d bytes",
			designtype.ErrSlotOutOfRange, entry.Offset, entry.Size, fileSize)
	}
	return nil
}

// Read returns the contents of entry's slot in the data file at path.
func Read(path string, entry designindex.DataEntry) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	data, err := ReadFrom(fileSource{File: f, size: info.Size()}, entry)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ReadFrom returns the contents of entry's slot in src.
func ReadFrom(src ByteSource, entry designindex.DataEntry) ([]byte, error) {
	if err := Validate(entry, src.Size()); err != nil {
		return nil, err
	}

	section := io.NewSectionReader(src, int64(entry.Offset), int64(entry.Size))
	data := make([]byte, entry.Size)
	n, err := io.ReadFull(section, data)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("short read (%d of %d bytes)", n, entry.Size)
		}
		return nil, err
	}
	return data, nil
}
