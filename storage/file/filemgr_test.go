package file_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/simpledb-go/storage/file"
)

func TestMgr_AppendAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	fm, err := file.NewMgr(dir, 400)
	require.NoError(t, err)
	require.True(t, fm.IsNew())

	block, err := fm.Append("testfile")
	require.NoError(t, err)
	require.Equal(t, 0, block.Number)

	p := file.NewPage(400)
	require.NoError(t, p.SetInt(80, 1))
	require.NoError(t, p.SetString(40, "one"))
	require.NoError(t, fm.Write(block, p))

	p2 := file.NewPage(400)
	require.NoError(t, fm.Read(block, p2))
	got, err := p2.GetInt(80)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
	str, err := p2.GetString(40)
	require.NoError(t, err)
	require.Equal(t, "one", str)
}

func TestMgr_LengthGrowsWithAppend(t *testing.T) {
	fm, err := file.NewMgr(t.TempDir(), 400)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := fm.Append("growing")
		require.NoError(t, err)
	}
	n, err := fm.Length("growing")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestMgr_ReadShortFileIsZeroFilled(t *testing.T) {
	fm, err := file.NewMgr(t.TempDir(), 400)
	require.NoError(t, err)

	p := file.NewPage(400)
	require.NoError(t, fm.Read(file.NewBlockID("nonexistent", 0), p))
	for _, b := range p.Contents() {
		require.EqualValues(t, 0, b)
	}
}

func TestMgr_RemovesScratchFilesOnStartup(t *testing.T) {
	dir := t.TempDir()
	fm, err := file.NewMgr(dir, 400)
	require.NoError(t, err)
	_, err = fm.Append("tempfoo")
	require.NoError(t, err)

	fm2, err := file.NewMgr(dir, 400)
	require.NoError(t, err)
	n, err := fm2.Length("tempfoo")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
