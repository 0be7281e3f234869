package conf_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/simpledb-go/conf"
)

func TestNewCfg_Defaults(t *testing.T) {
	c := conf.NewCfg()
	require.Equal(t, "simpledb", c.DirName)
	require.Equal(t, 400, c.BlockSize)
	require.Equal(t, 8, c.NumBuffers)
	require.Equal(t, 10*time.Second, c.WaitTimeoutDuration)
}

func TestLoad_OverridesDefaultsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simpledb.ini")
	contents := "dir_name = mydb\nblock_size = 512\nnum_buffers = 4\nwait_timeout = 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	c, err := conf.Load(path)
	require.NoError(t, err)
	require.Equal(t, "mydb", c.DirName)
	require.Equal(t, 512, c.BlockSize)
	require.Equal(t, 4, c.NumBuffers)
	require.Equal(t, 2*time.Second, c.WaitTimeoutDuration)
}

func TestLoad_FallsBackToDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simpledb.ini")
	require.NoError(t, os.WriteFile(path, []byte("dir_name = onlythis\n"), 0644))

	c, err := conf.Load(path)
	require.NoError(t, err)
	require.Equal(t, "onlythis", c.DirName)
	require.Equal(t, "simpledb.log", c.LogFile)
	require.Equal(t, 400, c.BlockSize)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := conf.Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.Error(t, err)
}
