package designindex

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"iter"
	"os"

	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/internal/wire"
)

const (
	// FileHashSize is the size of the raw file hash stored in each file record.
	FileHashSize = 0x10

	// DataFileExt is appended to a file hash to form the data file name.
	DataFileExt = ".bytes"

	// NameHash (4) + FileHash (16) + ReadSize (8) + EntryCount (4) + Unk1 (1)
	fileRecordMinSize = 33

	// NameHash (4) + Size (4) + Offset (4)
	entryRecordSize = 12
)

// Header is the root of a parsed design data index.
type Header struct {
	Unk1      uint64 // opaque, little-endian on disk
	FileCount uint32
	Unk2      uint32 // opaque, little-endian on disk
	Files     []FileEntry
}

// FileEntry describes one physical data file referenced by the index.
type FileEntry struct {
	NameHash   int32
	FileHash   string // lowercase hex of the 16 raw hash bytes
	ReadSize   uint64
	EntryCount uint32
	Entries    []DataEntry
	Unk1       uint8 // trailing byte after the entry table
}

// DataEntry locates one record inside a data file.
type DataEntry struct {
	NameHash int32
	Size     int32
	Offset   int32
}

// DataFileName returns the on-disk name of the data file, "<hash>.bytes".
func (f *FileEntry) DataFileName() string {
	return f.FileHash + DataFileExt
}

// Load reads and parses the index file at path.
func Load(path string) (*Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	h, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}
	return h, nil
}

// Parse decodes an index from data.
//
// Parsing is all-or-nothing: if the buffer ends before any declared field is
// fully read, Parse returns an error wrapping ErrTruncatedInput and no header.
func Parse(data []byte) (*Header, error) {
	r := wire.NewReader(data)
	h := &Header{}
	var err error

	if h.Unk1, err = r.Uint64(binary.LittleEndian); err != nil {
		return nil, truncated(r, "header unk1", err)
	}
	if h.FileCount, err = r.Uint32(binary.BigEndian); err != nil {
		return nil, truncated(r, "header file count", err)
	}
	if h.Unk2, err = r.Uint32(binary.LittleEndian); err != nil {
		return nil, truncated(r, "header unk2", err)
	}
	if uint64(h.FileCount)*fileRecordMinSize > uint64(r.Len()) { //nolint:gosec // Len is non-negative
		return nil, fmt.Errorf("%w: %d file records declared, %d bytes remain",
			designtype.ErrTruncatedInput, h.FileCount, r.Len())
	}

	h.Files = make([]FileEntry, 0, h.FileCount)
	for i := range h.FileCount {
		f, err := parseFile(r, i)
		if err != nil {
			return nil, err
		}
		h.Files = append(h.Files, f)
	}

	return h, nil
}

func parseFile(r *wire.Reader, i uint32) (FileEntry, error) {
	var f FileEntry
	var err error

	if f.NameHash, err = r.Int32(binary.BigEndian); err != nil {
		return f, truncated(r, fmt.Sprintf("file %d name hash", i), err)
	}
	raw, err := r.Bytes(FileHashSize)
	if err != nil {
		return f, truncated(r, fmt.Sprintf("file %d hash", i), err)
	}
	f.FileHash = hex.EncodeToString(raw)
	if f.ReadSize, err = r.Uint64(binary.BigEndian); err != nil {
		return f, truncated(r, fmt.Sprintf("file %d read size", i), err)
	}
	if f.EntryCount, err = r.Uint32(binary.BigEndian); err != nil {
		return f, truncated(r, fmt.Sprintf("file %d entry count", i), err)
	}
	if uint64(f.EntryCount)*entryRecordSize > uint64(r.Len()) { //nolint:gosec // Len is non-negative
		return f, fmt.Errorf("%w: file %d declares %d entries, %d bytes remain",
			designtype.ErrTruncatedInput, i, f.EntryCount, r.Len())
	}

	f.Entries = make([]DataEntry, f.EntryCount)
	for j := range f.Entries {
		e := &f.Entries[j]
		if e.NameHash, err = r.Int32(binary.BigEndian); err != nil {
			return f, truncated(r, fmt.Sprintf("file %d entry %d name hash", i, j), err)
		}
		if e.Size, err = r.Int32(binary.BigEndian); err != nil {
			return f, truncated(r, fmt.Sprintf("file %d entry %d size", i, j), err)
		}
		if e.Offset, err = r.Int32(binary.BigEndian); err != nil {
			return f, truncated(r, fmt.Sprintf("file %d entry %d offset", i, j), err)
		}
	}

	if f.Unk1, err = r.Uint8(); err != nil {
		return f, truncated(r, fmt.Sprintf("file %d trailer", i), err)
	}
	return f, nil
}

func truncated(r *wire.Reader, field string, err error) error {
	return fmt.Errorf("%w: %s at offset %d: %w", designtype.ErrTruncatedInput, field, r.Offset(), err)
}

// FindByHash returns the first entry whose name hash equals hash, along with
// the file that contains it. Files and entries are scanned in parse order.
func (h *Header) FindByHash(hash int32) (DataEntry, FileEntry, bool) {
	for e, f := range h.All() {
		if e.NameHash == hash {
			return e, f, true
		}
	}
	return DataEntry{}, FileEntry{}, false
}

// Len returns the total number of entries across all files.
func (h *Header) Len() int {
	n := 0
	for i := range h.Files {
		n += len(h.Files[i].Entries)
	}
	return n
}

// All returns an iterator over every entry paired with its containing file,
// in parse order.
func (h *Header) All() iter.Seq2[DataEntry, FileEntry] {
	return func(yield func(DataEntry, FileEntry) bool) {
		for _, f := range h.Files {
			for _, e := range f.Entries {
				if !yield(e, f) {
					return
				}
			}
		}
	}
}
