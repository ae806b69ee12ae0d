package backup

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	digest "github.com/opencontainers/go-digest"

	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/internal/ioutil"
	"github.com/meigma/designpatch/internal/sizing"
)

const (
	slotExt     = ".slot.zst"
	manifestExt = ".json"

	// copyBufferSize matches the chunk size used when streaming slots
	// through the compressor.
	copyBufferSize = 32 * 1024

	// maxManifestSize bounds manifest reads; real manifests are a few hundred bytes.
	maxManifestSize = 64 * 1024
)

// Record describes one backed-up slot.
type Record struct {
	// FileHash is the hex hash naming the data file that holds the slot.
	FileHash string `json:"file_hash"`

	// Offset and Size locate the slot inside the data file.
	Offset int32 `json:"offset"`
	Size   int32 `json:"size"`

	// Original is the digest of the slot contents before patching.
	Original digest.Digest `json:"original"`

	// Patched is the digest of the slot contents written by the most recent patch.
	Patched digest.Digest `json:"patched,omitempty"`

	// CompressedSize is the size of the stored original in bytes.
	CompressedSize uint64 `json:"compressed_size"`

	// Created is when the original was first backed up.
	Created time.Time `json:"created"`

	// Updated is when the patched digest was last recorded.
	Updated time.Time `json:"updated"`
}

// Store keeps slot backups in a directory.
type Store struct {
	dir     string
	dirPerm os.FileMode
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("backup: directory is required")
	}
	s := &Store{
		dir:     dir,
		dirPerm: defaultDirPerm,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Save stores original as the backup for the slot described by rec.
//
// rec must carry FileHash, Offset and Size; len(original) must equal Size.
// When rec.Original is set it must match original. If the slot already has a
// backup, the stored original is kept and only the patched digest is updated.
// The returned record is what the manifest now holds.
func (s *Store) Save(ctx context.Context, rec Record, original []byte) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	name, err := baseName(rec.FileHash, rec.Offset)
	if err != nil {
		return Record{}, err
	}
	if rec.Size < 0 || len(original) != int(rec.Size) {
		return Record{}, fmt.Errorf("backup %s: %d bytes for %d byte slot", name, len(original), rec.Size)
	}
	sum := digest.FromBytes(original)
	if rec.Original != "" && rec.Original != sum {
		return Record{}, fmt.Errorf("%w: backup %s: original is %s, record says %s",
			designtype.ErrDigestMismatch, name, sum, rec.Original)
	}
	rec.Original = sum
	if rec.Patched != "" {
		if err := rec.Patched.Validate(); err != nil {
			return Record{}, fmt.Errorf("backup %s: patched digest: %w", name, err)
		}
	}

	if err := os.MkdirAll(s.dir, s.dirPerm); err != nil {
		return Record{}, fmt.Errorf("create backup dir: %w", err)
	}

	existing, err := s.Lookup(rec.FileHash, rec.Offset)
	switch {
	case err == nil:
		existing.Patched = rec.Patched
		existing.Updated = s.now().UTC()
		if err := s.writeManifest(name, existing); err != nil {
			return Record{}, err
		}
		s.logger.Debug("backup exists, keeping stored original",
			slog.String("slot", name),
			slog.String("original", existing.Original.String()))
		return existing, nil
	case !errors.Is(err, designtype.ErrBackupNotFound):
		return Record{}, err
	}

	compressed, n, err := compress(ctx, original)
	if err != nil {
		return Record{}, fmt.Errorf("compress backup %s: %w", name, err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, name+slotExt), compressed); err != nil {
		return Record{}, fmt.Errorf("write backup %s: %w", name, err)
	}

	now := s.now().UTC()
	rec.CompressedSize = n
	rec.Created = now
	rec.Updated = now
	if err := s.writeManifest(name, rec); err != nil {
		return Record{}, err
	}

	s.logger.Info("backed up slot",
		slog.String("slot", name),
		slog.Int("size", int(rec.Size)),
		slog.Uint64("compressed", n))
	return rec, nil
}

// Lookup returns the manifest for a slot without reading its contents.
func (s *Store) Lookup(fileHash string, offset int32) (Record, error) {
	name, err := baseName(fileHash, offset)
	if err != nil {
		return Record{}, err
	}
	path := filepath.Join(s.dir, name+manifestExt)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, fmt.Errorf("%w: %s", designtype.ErrBackupNotFound, name)
		}
		return Record{}, fmt.Errorf("open backup manifest: %w", err)
	}
	defer f.Close()

	data, err := sizing.ReadAllWithLimit(f, maxManifestSize, fmt.Errorf("backup manifest %s too large", name))
	if err != nil {
		return Record{}, fmt.Errorf("read backup manifest: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode backup manifest %s: %w", name, err)
	}
	if rec.FileHash != fileHash || rec.Offset != offset {
		return Record{}, fmt.Errorf("backup manifest %s describes %s at %d", name, rec.FileHash, rec.Offset)
	}
	return rec, nil
}

// Load returns the manifest and original contents of a slot backup. The
// contents are verified against the recorded original digest.
func (s *Store) Load(ctx context.Context, fileHash string, offset int32) (Record, []byte, error) {
	rec, err := s.Lookup(fileHash, offset)
	if err != nil {
		return Record{}, nil, err
	}
	if err := rec.Original.Validate(); err != nil {
		return Record{}, nil, fmt.Errorf("backup manifest: original digest: %w", err)
	}
	if rec.Size < 0 {
		return Record{}, nil, fmt.Errorf("backup manifest: negative slot size %d", rec.Size)
	}

	name, _ := baseName(fileHash, offset)
	f, err := os.Open(filepath.Join(s.dir, name+slotExt))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, nil, fmt.Errorf("%w: %s contents", designtype.ErrBackupNotFound, name)
		}
		return Record{}, nil, fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return Record{}, nil, fmt.Errorf("open backup decoder: %w", err)
	}
	defer dec.Close()

	var buf bytes.Buffer
	buf.Grow(int(rec.Size))
	limited := &limitWriter{w: &buf, n: int64(rec.Size)}
	if _, err := ioutil.CopyWithContext(ctx, limited, dec, make([]byte, copyBufferSize)); err != nil {
		if errors.Is(err, errLimit) {
			return Record{}, nil, fmt.Errorf("%w: backup %s larger than %d byte slot",
				designtype.ErrDigestMismatch, name, rec.Size)
		}
		return Record{}, nil, fmt.Errorf("decompress backup %s: %w", name, err)
	}

	data := buf.Bytes()
	verifier := rec.Original.Verifier()
	verifier.Write(data)
	if len(data) != int(rec.Size) || !verifier.Verified() {
		return Record{}, nil, fmt.Errorf("%w: backup %s does not match %s",
			designtype.ErrDigestMismatch, name, rec.Original)
	}
	return rec, data, nil
}

// Remove deletes a slot backup. Removing a missing backup is not an error.
func (s *Store) Remove(fileHash string, offset int32) error {
	name, err := baseName(fileHash, offset)
	if err != nil {
		return err
	}
	for _, ext := range []string{manifestExt, slotExt} {
		if err := os.Remove(filepath.Join(s.dir, name+ext)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove backup: %w", err)
		}
	}
	s.logger.Debug("removed backup", slog.String("slot", name))
	return nil
}

// List returns every backup manifest in the store ordered by file hash and
// offset. A missing directory yields an empty list.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list backups: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		fileHash, offset, ok := parseManifestName(entry.Name())
		if !ok || entry.IsDir() {
			continue
		}
		rec, err := s.Lookup(fileHash, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b Record) int {
		if c := strings.Compare(a.FileHash, b.FileHash); c != 0 {
			return c
		}
		return int(a.Offset) - int(b.Offset)
	})
	return records, nil
}

func (s *Store) writeManifest(name string, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup manifest %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(filepath.Join(s.dir, name+manifestExt), data); err != nil {
		return fmt.Errorf("write backup manifest %s: %w", name, err)
	}
	return nil
}

// baseName returns the file name stem for a slot. fileHash must be a
// lowercase hex string so the name cannot escape the store directory.
func baseName(fileHash string, offset int32) (string, error) {
	if fileHash == "" || strings.ToLower(fileHash) != fileHash {
		return "", fmt.Errorf("backup: invalid file hash %q", fileHash)
	}
	if _, err := hex.DecodeString(fileHash); err != nil {
		return "", fmt.Errorf("backup: invalid file hash %q: %w", fileHash, err)
	}
	if offset < 0 {
		return "", fmt.Errorf("backup: negative offset %d", offset)
	}
	return fileHash + "-" + strconv.FormatInt(int64(offset), 10), nil
}

func parseManifestName(name string) (string, int32, bool) {
	stem, ok := strings.CutSuffix(name, manifestExt)
	if !ok {
		return "", 0, false
	}
	fileHash, off, ok := strings.Cut(stem, "-")
	if !ok {
		return "", 0, false
	}
	offset, err := strconv.ParseInt(off, 10, 32)
	if err != nil {
		return "", 0, false
	}
	if _, err := baseName(fileHash, int32(offset)); err != nil {
		return "", 0, false
	}
	return fileHash, int32(offset), true
}

// compress returns the zstd encoding of data and its length.
func compress(ctx context.Context, data []byte) ([]byte, uint64, error) {
	var buf bytes.Buffer
	cw := &ioutil.CountingWriter{W: &buf}
	enc, err := zstd.NewWriter(cw, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	if err != nil {
		return nil, 0, fmt.Errorf("create zstd encoder: %w", err)
	}
	if _, err := ioutil.CopyWithContext(ctx, enc, bytes.NewReader(data), make([]byte, copyBufferSize)); err != nil {
		enc.Close()
		return nil, 0, err
	}
	if err := enc.Close(); err != nil {
		return nil, 0, fmt.Errorf("close zstd encoder: %w", err)
	}
	return buf.Bytes(), cw.N, nil
}

var errLimit = errors.New("write limit exceeded")

// limitWriter fails once more than n bytes have been written.
type limitWriter struct {
	w *bytes.Buffer
	n int64
}

func (l *limitWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > l.n {
		return 0, errLimit
	}
	l.n -= int64(len(p))
	return l.w.Write(p)
}
