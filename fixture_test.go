package designpatch

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/designpatch/excel"
	"github.com/meigma/designpatch/internal/testutil"
)

const (
	tablePrefixLen = 64
	tableSuffixLen = 32
)

func ptr[T any](v T) *T {
	return &v
}

// row builds a table row; voice rows carry VoiceRowType.
func row(area string, kind excel.Kind, def string, list ...string) excel.AllowedLanguageRow {
	r := excel.AllowedLanguageRow{
		Area:            ptr(area),
		DefaultLanguage: ptr(def),
		LanguageList:    list,
	}
	if kind == excel.KindVoice {
		r.RowType = ptr[uint8](excel.VoiceRowType)
	}
	return r
}

// shippedRows resembles the table the client ships with: every area allows
// all languages and defaults to cn.
func shippedRows() []excel.AllowedLanguageRow {
	all := []string{"cn", "en", "kr", "jp"}
	return []excel.AllowedLanguageRow{
		row("os", excel.KindText, "en", all...),
		row("os", excel.KindVoice, "en", all...),
		row("cn", excel.KindText, "cn", all...),
		row("cn", excel.KindVoice, "cn", all...),
		row("tw", excel.KindText, "cn", "cn"),
	}
}

// gameFixture is a game install whose index points at a single table slot.
type gameFixture struct {
	*testutil.GameDir
	dataPath string
	fileHash string
	slotOff  int
	slotSize int
}

// slotBytes returns the current contents of the table slot.
func (g *gameFixture) slotBytes(tb testing.TB) []byte {
	tb.Helper()
	data := g.dataFile(tb)
	return data[g.slotOff : g.slotOff+g.slotSize]
}

func (g *gameFixture) dataFile(tb testing.TB) []byte {
	tb.Helper()
	data, err := os.ReadFile(g.dataPath)
	require.NoError(tb, err)
	return data
}

func (g *gameFixture) rows(tb testing.TB) []excel.AllowedLanguageRow {
	tb.Helper()
	rows, err := excel.Decode(g.slotBytes(tb))
	require.NoError(tb, err)
	return rows
}

// newGame writes a game install holding rows in a slot with slack spare bytes.
// The slot sits between recognizable filler so stray writes are visible.
func newGame(tb testing.TB, rows []excel.AllowedLanguageRow, slack int) *gameFixture {
	tb.Helper()

	table, err := excel.Encode(rows)
	require.NoError(tb, err)

	slotSize := len(table) + slack
	var data []byte
	data = append(data, bytes.Repeat([]byte{0xaa}, tablePrefixLen)...)
	data = append(data, testutil.Pad(table, slack)...)
	data = append(data, bytes.Repeat([]byte{0xbb}, tableSuffixLen)...)

	decoy := testutil.FileHash(0x40)
	fileHash := testutil.FileHash(0x10)
	index := testutil.BuildTestIndex(tb, 0x0102030405060708, 7, []testutil.TestFile{
		{
			NameHash: 11,
			FileHash: decoy,
			ReadSize: 16,
			Entries:  []testutil.TestEntry{{NameHash: 101, Size: 16, Offset: 0}},
		},
		{
			NameHash: 12,
			FileHash: fileHash,
			ReadSize: uint64(len(data)),
			Entries: []testutil.TestEntry{
				{NameHash: 102, Size: tablePrefixLen, Offset: 0},
				{NameHash: AllowedLanguageHash, Size: int32(slotSize), Offset: tablePrefixLen},
			},
		},
	})

	hexHash := hex.EncodeToString(fileHash[:])
	game := testutil.WriteGameDir(tb, testutil.FileHash(0x80), index, map[string][]byte{
		hex.EncodeToString(decoy[:]): make([]byte, 16),
		hexHash:                      data,
	})

	return &gameFixture{
		GameDir:  game,
		dataPath: filepath.Join(game.DesignDir, hexHash+".bytes"),
		fileHash: hexHash,
		slotOff:  tablePrefixLen,
		slotSize: slotSize,
	}
}
