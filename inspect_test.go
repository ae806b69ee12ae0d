package designpatch

import (
	"context"
	"testing"

	digest "github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/designpatch/excel"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	g := newGame(t, shippedRows(), 6)
	before := g.dataFile(t)

	insp, err := newPatcher(t, g).Inspect(context.Background())
	require.NoError(t, err)

	table, err := excel.Encode(shippedRows())
	require.NoError(t, err)

	assert.Equal(t, g.IndexHash, insp.IndexHash)
	assert.Equal(t, g.dataPath, insp.DataPath)
	assert.Equal(t, g.fileHash, insp.File.FileHash)
	assert.Equal(t, AllowedLanguageHash, insp.Entry.NameHash)
	assert.Equal(t, int32(g.slotOff), insp.Entry.Offset)
	assert.Equal(t, int32(g.slotSize), insp.Entry.Size)
	assert.Equal(t, shippedRows(), insp.Rows)
	assert.Equal(t, len(table), insp.PayloadSize)
	assert.Equal(t, digest.FromBytes(g.slotBytes(t)), insp.Digest)
	assert.Nil(t, insp.Backup)
	assert.False(t, insp.Patched())

	assert.Equal(t, before, g.dataFile(t), "inspect never writes")
}

func TestInspectReportsBackup(t *testing.T) {
	t.Parallel()

	g := newGame(t, shippedRows(), 0)
	p := newPatcher(t, g, WithBackup(newBackupStore(t)))

	insp, err := p.Inspect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, insp.Backup, "no backup before the first patch")

	res, err := p.Patch(context.Background(), DefaultInstructions("en", "jp"))
	require.NoError(t, err)

	insp, err = p.Inspect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, insp.Backup)
	assert.Equal(t, res.OriginalDigest, insp.Backup.Original)
	assert.True(t, insp.Patched())

	row, err := excel.Find(insp.Rows, AreaOverseas, excel.KindVoice)
	require.NoError(t, err)
	assert.Equal(t, []string{"jp"}, row.LanguageList)
}

func TestInspectHashNotFound(t *testing.T) {
	t.Parallel()

	g := newGame(t, shippedRows(), 0)
	_, err := newPatcher(t, g, WithTargetHash(1)).Inspect(context.Background())
	assert.ErrorIs(t, err, ErrHashNotFound)
}
