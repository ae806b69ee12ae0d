package slot

import (
	"fmt"
	"io"
	"os"

	"github.com/meigma/designpatch/designindex"
	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/internal/sizing"
)

// Write replaces the contents of entry's slot in the data file at path.
// See WriteAt.
func Write(path string, entry designindex.DataEntry, payload []byte) error {
	return WriteAt(path, int64(entry.Offset), payload, int64(entry.Size))
}

// WriteAt writes payload at offset in the existing file at path and
// zero-fills the rest of the originalSize-byte slot.
//
// The checks run before any byte is written: a payload longer than the slot
// fails with ErrPayloadTooLarge without opening the file, and a slot that
// does not lie inside the file fails with ErrSlotOutOfRange. The file is never
// created, truncated or extended.
func WriteAt(path string, offset int64, payload []byte, originalSize int64) (err error) {
	if offset < 0 || originalSize < 0 {
		return fmt.Errorf("%w: offset %d size %d", designtype.ErrSlotOutOfRange, offset, originalSize)
	}
	if int64(len(payload)) > originalSize {
		return fmt.Errorf("%w: %d bytes into %d byte slot", designtype.ErrPayloadTooLarge, len(payload), originalSize)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close data file: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat data file: %w", err)
	}
	if !sizing.Within(offset, originalSize, info.Size()) {
		return fmt.Errorf("%w: offset %d size %d in file of %d bytes",
			designtype.ErrSlotOutOfRange, offset, originalSize, info.Size())
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to slot: %w", err)
	}

	buf := make([]byte, originalSize)
	copy(buf, payload)
	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync data file: %w", err)
	}
	return nil
}

// Check reports whether payload fits entry's slot without writing anything.
func Check(entry designindex.DataEntry, payload []byte) error {
	if len(payload) > int(entry.Size) {
		return fmt.Errorf("%w: %d bytes into %d byte slot", designtype.ErrPayloadTooLarge, len(payload), entry.Size)
	}
	return nil
}
