package backup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	digest "github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/designpatch/internal/designtype"
)

const testFileHash = "00112233445566778899aabbccddeeff"

var fixedTime = time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "backups"), WithClock(func() time.Time { return fixedTime }))
	require.NoError(t, err)
	return s
}

func testRecord(size int) Record {
	return Record{FileHash: testFileHash, Offset: 128, Size: int32(size)}
}

func TestNewStoreRequiresDir(t *testing.T) {
	t.Parallel()

	_, err := NewStore("")
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	original := bytes.Repeat([]byte("allowed-language "), 20)
	patched := digest.FromString("patched")

	rec := testRecord(len(original))
	rec.Patched = patched
	saved, err := s.Save(context.Background(), rec, original)
	require.NoError(t, err)

	assert.Equal(t, digest.FromBytes(original), saved.Original)
	assert.Equal(t, patched, saved.Patched)
	assert.Equal(t, fixedTime, saved.Created)
	assert.NotZero(t, saved.CompressedSize)
	assert.Less(t, saved.CompressedSize, uint64(len(original)))

	loaded, data, err := s.Load(context.Background(), testFileHash, 128)
	require.NoError(t, err)
	assert.Equal(t, original, data)
	assert.Equal(t, saved.Original, loaded.Original)
	assert.Equal(t, saved.Patched, loaded.Patched)
	assert.True(t, saved.Created.Equal(loaded.Created))

	assert.FileExists(t, filepath.Join(s.Dir(), testFileHash+"-128.slot.zst"))
	assert.FileExists(t, filepath.Join(s.Dir(), testFileHash+"-128.json"))
}

func TestSaveKeepsFirstOriginal(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	first := []byte("original")
	second := []byte("patched1")

	rec := testRecord(len(first))
	rec.Patched = digest.FromBytes(second)
	_, err := s.Save(context.Background(), rec, first)
	require.NoError(t, err)

	rec = testRecord(len(second))
	rec.Patched = digest.FromString("patched2")
	saved, err := s.Save(context.Background(), rec, second)
	require.NoError(t, err)
	assert.Equal(t, digest.FromBytes(first), saved.Original)
	assert.Equal(t, digest.FromString("patched2"), saved.Patched)

	_, data, err := s.Load(context.Background(), testFileHash, 128)
	require.NoError(t, err)
	assert.Equal(t, first, data)
}

func TestSaveRejectsMismatchedInput(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.Save(context.Background(), testRecord(3), []byte("four"))
	require.Error(t, err)

	rec := testRecord(4)
	rec.Original = digest.FromString("something else")
	_, err = s.Save(context.Background(), rec, []byte("four"))
	require.ErrorIs(t, err, designtype.ErrDigestMismatch)
	assert.ErrorIs(t, err, designtype.ErrIntegrity)

	rec = testRecord(4)
	rec.Patched = "sha256:short"
	_, err = s.Save(context.Background(), rec, []byte("four"))
	require.Error(t, err)

	_, err = os.Stat(s.Dir())
	assert.ErrorIs(t, err, os.ErrNotExist, "nothing is written for rejected input")
}

func TestSaveCanceled(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, testRecord(4), []byte("four"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvalidFileHash(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, hash := range []string{"", "../etc", "ABCDEF", "xyz", "abc/def"} {
		_, err := s.Save(context.Background(), Record{FileHash: hash, Size: 1}, []byte{1})
		assert.Error(t, err, hash)
		_, err = s.Lookup(hash, 0)
		assert.Error(t, err, hash)
	}
	_, err := s.Lookup(testFileHash, -1)
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, _, err := s.Load(context.Background(), testFileHash, 0)
	require.ErrorIs(t, err, designtype.ErrBackupNotFound)
	assert.ErrorIs(t, err, designtype.ErrLookup)
}

func TestLoadMissingContents(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Save(context.Background(), testRecord(4), []byte("four"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(s.Dir(), testFileHash+"-128.slot.zst")))

	_, _, err = s.Load(context.Background(), testFileHash, 128)
	assert.ErrorIs(t, err, designtype.ErrBackupNotFound)
}

func TestLoadDetectsTampering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contents []byte
	}{
		{name: "same size, different bytes", contents: []byte("FOUR")},
		{name: "shorter", contents: []byte("fou")},
		{name: "longer", contents: []byte("four and more")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newTestStore(t)
			_, err := s.Save(context.Background(), testRecord(4), []byte("four"))
			require.NoError(t, err)

			enc, err := zstd.NewWriter(nil)
			require.NoError(t, err)
			tampered := enc.EncodeAll(tc.contents, nil)
			enc.Close()
			require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), testFileHash+"-128.slot.zst"), tampered, 0o600))

			_, _, err = s.Load(context.Background(), testFileHash, 128)
			assert.ErrorIs(t, err, designtype.ErrDigestMismatch)
		})
	}
}

func TestLookupRejectsForeignManifest(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Save(context.Background(), testRecord(4), []byte("four"))
	require.NoError(t, err)

	src := filepath.Join(s.Dir(), testFileHash+"-128.json")
	dst := filepath.Join(s.Dir(), testFileHash+"-256.json")
	require.NoError(t, os.Rename(src, dst))

	_, err = s.Lookup(testFileHash, 256)
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Save(context.Background(), testRecord(4), []byte("four"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(testFileHash, 128))
	_, err = s.Lookup(testFileHash, 128)
	assert.ErrorIs(t, err, designtype.ErrBackupNotFound)
	assert.NoFileExists(t, filepath.Join(s.Dir(), testFileHash+"-128.slot.zst"))

	assert.NoError(t, s.Remove(testFileHash, 128), "removing twice is fine")
}

func TestList(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	records, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, records, "missing directory lists nothing")

	other := "ffeeddccbbaa99887766554433221100"
	for _, rec := range []Record{
		{FileHash: other, Offset: 4, Size: 2},
		{FileHash: testFileHash, Offset: 300, Size: 2},
		{FileHash: testFileHash, Offset: 20, Size: 2},
	} {
		_, err := s.Save(context.Background(), rec, []byte("ab"))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o600))

	records, err = s.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, testFileHash, records[0].FileHash)
	assert.Equal(t, int32(20), records[0].Offset)
	assert.Equal(t, int32(300), records[1].Offset)
	assert.Equal(t, other, records[2].FileHash)
}
