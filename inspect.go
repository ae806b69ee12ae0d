package designpatch

import (
	"context"
	"errors"
	"fmt"

	digest "github.com/opencontainers/go-digest"

	"github.com/meigma/designpatch/backup"
	"github.com/meigma/designpatch/designindex"
	"github.com/meigma/designpatch/excel"
	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/slot"
)

// Inspection describes the table as it currently sits on disk.
type Inspection struct {
	// IndexHash names the index file the table was resolved through.
	IndexHash string `json:"index_hash"`

	// DataPath is the data file holding the table.
	DataPath string `json:"data_path"`

	// File and Entry are the index records locating the table.
	File  designindex.FileEntry `json:"file"`
	Entry designindex.DataEntry `json:"entry"`

	// Rows are the decoded table rows.
	Rows []excel.AllowedLanguageRow `json:"rows"`

	// PayloadSize is the encoded size of Rows.
	PayloadSize int `json:"payload_size"`

	// Digest is the digest of the whole slot.
	Digest digest.Digest `json:"digest"`

	// Backup is the stored backup for the slot, if a backup store is
	// configured and holds one.
	Backup *backup.Record `json:"backup,omitempty"`
}

// Patched reports whether the slot holds what the backed-up patch wrote.
func (i *Inspection) Patched() bool {
	return i.Backup != nil && i.Backup.Patched == i.Digest
}

// Inspect locates and decodes the table without modifying anything.
func (p *Patcher) Inspect(ctx context.Context) (*Inspection, error) {
	t, err := p.locate(ctx)
	if err != nil {
		return nil, err
	}

	data, err := slot.Read(t.dataPath, t.entry)
	if err != nil {
		return nil, err
	}
	rows, err := excel.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode table in %s: %w", t.file.DataFileName(), err)
	}
	payload, err := excel.Encode(rows)
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}

	insp := &Inspection{
		IndexHash:   t.indexHash,
		DataPath:    t.dataPath,
		File:        t.file,
		Entry:       t.entry,
		Rows:        rows,
		PayloadSize: len(payload),
		Digest:      digest.FromBytes(data),
	}

	if p.backup != nil {
		rec, err := p.backup.Lookup(t.file.FileHash, t.entry.Offset)
		switch {
		case err == nil:
			insp.Backup = &rec
		case !errors.Is(err, designtype.ErrBackupNotFound):
			return nil, err
		}
	}
	return insp, nil
}
