package designpatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	digest "github.com/opencontainers/go-digest"

	"github.com/meigma/designpatch/backup"
	"github.com/meigma/designpatch/designindex"
	"github.com/meigma/designpatch/excel"
	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/internal/gamedir"
	"github.com/meigma/designpatch/slot"
)

// AllowedLanguageHash is the index name hash of the AllowedLanguage table.
const AllowedLanguageHash int32 = -515329346

// Patcher edits the AllowedLanguage table of one design data directory.
//
// A Patcher holds no open files; every operation re-reads the index so it
// always acts on the files currently on disk.
type Patcher struct {
	designDir  string
	targetHash int32
	backup     *backup.Store
	logger     *slog.Logger
}

// Open resolves the game root at gamePath (the working directory when empty)
// and returns a Patcher for its design data directory.
func Open(gamePath string, opts ...Option) (*Patcher, error) {
	root, err := gamedir.Resolve(gamePath)
	if err != nil {
		return nil, err
	}
	return New(gamedir.DesignDir(root), opts...)
}

// New returns a Patcher for the design data directory designDir.
func New(designDir string, opts ...Option) (*Patcher, error) {
	info, err := os.Stat(designDir)
	if err != nil {
		return nil, fmt.Errorf("design data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("design data directory %s is not a directory", designDir)
	}

	p := &Patcher{
		designDir:  designDir,
		targetHash: AllowedLanguageHash,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// DesignDir returns the design data directory the patcher operates on.
func (p *Patcher) DesignDir() string {
	return p.designDir
}

// Result describes a completed patch or restore.
type Result struct {
	// DataPath is the data file holding the table.
	DataPath string

	// FileHash names the data file.
	FileHash string

	// Entry is the slot the table occupies.
	Entry designindex.DataEntry

	// PayloadSize is the number of table bytes written; the rest of the slot
	// is zero padding.
	PayloadSize int

	// OriginalDigest and PatchedDigest are the digests of the whole slot
	// before and after the operation.
	OriginalDigest digest.Digest
	PatchedDigest  digest.Digest

	// Changed is false when the slot already held the requested contents and
	// nothing was written.
	Changed bool

	// Backup is the backup record kept for the slot, if any.
	Backup *backup.Record
}

// Padding returns the number of zero bytes following the payload.
func (r *Result) Padding() int {
	return int(r.Entry.Size) - r.PayloadSize
}

// target is the resolved location of the table.
type target struct {
	indexHash string
	dataPath  string
	file      designindex.FileEntry
	entry     designindex.DataEntry
}

func (p *Patcher) locate(ctx context.Context) (*target, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	indexHash, err := gamedir.IndexHash(p.designDir)
	if err != nil {
		return nil, err
	}
	header, err := designindex.Load(gamedir.IndexPath(p.designDir, indexHash))
	if err != nil {
		return nil, err
	}
	entry, file, ok := header.FindByHash(p.targetHash)
	if !ok {
		return nil, fmt.Errorf("%w: %d in index %s", designtype.ErrHashNotFound, p.targetHash, indexHash)
	}

	t := &target{
		indexHash: indexHash,
		dataPath:  gamedir.DataPath(p.designDir, file.FileHash),
		file:      file,
		entry:     entry,
	}
	p.logger.Debug("located table",
		slog.String("index", indexHash),
		slog.String("file", file.FileHash),
		slog.Int("offset", int(entry.Offset)),
		slog.Int("size", int(entry.Size)))
	return t, nil
}

// Patch applies instructions to the table and writes it back in place.
//
// Every instruction must match a row; otherwise nothing is written and the
// error wraps ErrRowNotFound. A re-encoded table larger than its slot fails
// with ErrPayloadTooLarge, also before anything is written. With a backup
// store configured, the original slot is saved before the write.
func (p *Patcher) Patch(ctx context.Context, instructions []Instruction) (*Result, error) {
	if err := validateInstructions(instructions); err != nil {
		return nil, err
	}
	t, err := p.locate(ctx)
	if err != nil {
		return nil, err
	}

	original, err := slot.Read(t.dataPath, t.entry)
	if err != nil {
		return nil, err
	}
	rows, err := excel.Decode(original)
	if err != nil {
		return nil, fmt.Errorf("decode table in %s: %w", t.file.DataFileName(), err)
	}

	for _, in := range instructions {
		row, err := excel.Find(rows, in.Area, in.Kind)
		if err != nil {
			return nil, err
		}
		row.SetLanguage(in.Language)
	}

	payload, err := excel.Encode(rows)
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	if err := slot.Check(t.entry, payload); err != nil {
		return nil, err
	}

	patched := make([]byte, t.entry.Size)
	copy(patched, payload)

	res := &Result{
		DataPath:       t.dataPath,
		FileHash:       t.file.FileHash,
		Entry:          t.entry,
		PayloadSize:    len(payload),
		OriginalDigest: digest.FromBytes(original),
		PatchedDigest:  digest.FromBytes(patched),
	}
	if res.OriginalDigest == res.PatchedDigest {
		p.logger.Info("table already patched", slog.String("file", t.file.FileHash))
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.backup != nil {
		rec, err := p.backup.Save(ctx, backup.Record{
			FileHash: t.file.FileHash,
			Offset:   t.entry.Offset,
			Size:     t.entry.Size,
			Original: res.OriginalDigest,
			Patched:  res.PatchedDigest,
		}, original)
		if err != nil {
			return nil, fmt.Errorf("back up slot: %w", err)
		}
		res.Backup = &rec
	}

	if err := slot.Write(t.dataPath, t.entry, payload); err != nil {
		return nil, err
	}
	res.Changed = true

	p.logger.Info("patched table",
		slog.String("file", t.file.FileHash),
		slog.Int("payload", res.PayloadSize),
		slog.Int("padding", res.Padding()))
	return res, nil
}

// Restore writes the backed-up original contents back into the table's slot
// and removes the backup.
//
// The slot must still hold what the last patch wrote; if something else has
// changed it since, the error wraps ErrDigestMismatch and nothing is written.
// A slot that already holds the original is left alone.
func (p *Patcher) Restore(ctx context.Context) (*Result, error) {
	if p.backup == nil {
		return nil, ErrNoBackupStore
	}
	t, err := p.locate(ctx)
	if err != nil {
		return nil, err
	}

	rec, original, err := p.backup.Load(ctx, t.file.FileHash, t.entry.Offset)
	if err != nil {
		return nil, err
	}
	if rec.Size != t.entry.Size {
		return nil, fmt.Errorf("%w: backup covers %d bytes, slot is %d",
			designtype.ErrDigestMismatch, rec.Size, t.entry.Size)
	}

	current, err := slot.Read(t.dataPath, t.entry)
	if err != nil {
		return nil, err
	}

	res := &Result{
		DataPath:       t.dataPath,
		FileHash:       t.file.FileHash,
		Entry:          t.entry,
		PayloadSize:    len(original),
		OriginalDigest: digest.FromBytes(current),
		PatchedDigest:  rec.Original,
		Backup:         &rec,
	}

	switch {
	case res.OriginalDigest == rec.Original:
		p.logger.Info("slot already holds original contents", slog.String("file", t.file.FileHash))
	case rec.Patched != "" && res.OriginalDigest != rec.Patched:
		return nil, fmt.Errorf("%w: slot is %s, last patch wrote %s",
			designtype.ErrDigestMismatch, res.OriginalDigest, rec.Patched)
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := slot.Write(t.dataPath, t.entry, original); err != nil {
			return nil, err
		}
		res.Changed = true
		p.logger.Info("restored table", slog.String("file", t.file.FileHash))
	}

	if err := p.backup.Remove(t.file.FileHash, t.entry.Offset); err != nil {
		return res, err
	}
	return res, nil
}

// IsNotFound reports whether err is a lookup failure: a missing hash, row or
// backup.
func IsNotFound(err error) bool {
	return errors.Is(err, designtype.ErrLookup)
}
