package logarchive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/simpledb-go/storage/logarchive"
)

func TestArchiveRestoreLogFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "simpledb.log")
	original := make([]byte, 4000)
	for i := range original {
		original[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(logPath, original, 0644))

	archiveDir := filepath.Join(dir, "archive")
	archivePath, err := logarchive.ArchiveLogFile(logPath, archiveDir)
	require.NoError(t, err)
	require.FileExists(t, archivePath)

	restoredPath := filepath.Join(dir, "restored.log")
	require.NoError(t, logarchive.RestoreLogFile(archivePath, restoredPath))

	restored, err := os.ReadFile(restoredPath)
	require.NoError(t, err)
	require.Equal(t, original, restored)
}
