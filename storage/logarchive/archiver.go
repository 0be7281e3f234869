// Package logarchive compresses rotated log files for cold storage
// after a checkpoint, using lz4 — a teacher go.mod dependency
// (github.com/pierrec/lz4/v4) that the teacher repo itself never
// imports; this gives it a concrete home (SPEC_FULL.md DOMAIN STACK).
// It operates on a copy of the log file's bytes and never touches the
// live log the core appends to.
package logarchive

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"

	"github.com/zhukovaskychina/simpledb-go/logger"
)

// ArchiveLogFile compresses the bytes of logPath into archiveDir as
// "<basename>.lz4" and returns the archive's path. It does not remove
// or modify logPath.
func ArchiveLogFile(logPath, archiveDir string) (string, error) {
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", err
	}

	in, err := os.Open(logPath)
	if err != nil {
		return "", err
	}
	defer in.Close()

	archivePath := filepath.Join(archiveDir, filepath.Base(logPath)+".lz4")
	out, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	zw := lz4.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	logger.Infof("logarchive: archived %s to %s", logPath, archivePath)
	return archivePath, nil
}

// RestoreLogFile decompresses an lz4 archive written by
// ArchiveLogFile back to destPath.
func RestoreLogFile(archivePath, destPath string) error {
	in, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zr := lz4.NewReader(in)
	_, err = io.Copy(out, zr)
	return err
}
