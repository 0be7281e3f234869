package log_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/log"
)

func newTestMgr(t *testing.T) (*file.Mgr, *log.Mgr) {
	t.Helper()
	fm, err := file.NewMgr(t.TempDir(), 400)
	require.NoError(t, err)
	lm, err := log.NewMgr(fm, "simpledb.log")
	require.NoError(t, err)
	return fm, lm
}

func TestLogMgr_AppendAssignsIncreasingLSNs(t *testing.T) {
	_, lm := newTestMgr(t)

	lsn1, err := lm.Append([]byte("rec-one"))
	require.NoError(t, err)
	lsn2, err := lm.Append([]byte("rec-two"))
	require.NoError(t, err)

	require.Equal(t, lsn1+1, lsn2)
	require.Equal(t, lsn2, lm.LatestLSN())
}

func TestLogMgr_IteratorReturnsNewestFirst(t *testing.T) {
	_, lm := newTestMgr(t)

	records := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}
	for _, r := range records {
		_, err := lm.Append(r)
		require.NoError(t, err)
	}

	it, err := lm.Iterator()
	require.NoError(t, err)

	var got [][]byte
	for it.HasNext() {
		rec, err := it.Next()
		require.NoError(t, err)
		got = append(got, rec)
	}

	require.Equal(t, []byte("ccc"), got[0])
	require.Equal(t, []byte("bb"), got[1])
	require.Equal(t, []byte("a"), got[2])
}

func TestLogMgr_RecordTooLargeIsRejected(t *testing.T) {
	_, lm := newTestMgr(t)
	_, err := lm.Append(make([]byte, 1000))
	require.ErrorIs(t, err, log.ErrRecordTooLarge)
}

func TestLogMgr_RollsOverToNewBlockWhenFull(t *testing.T) {
	fm, lm := newTestMgr(t)

	// Fill past one block's capacity; block size is 400 bytes.
	rec := make([]byte, 50)
	for i := range rec {
		rec[i] = byte(i)
	}
	for i := 0; i < 10; i++ {
		_, err := lm.Append(rec)
		require.NoError(t, err)
	}

	n, err := fm.Length("simpledb.log")
	require.NoError(t, err)
	require.Greater(t, n, 1)

	it, err := lm.Iterator()
	require.NoError(t, err)
	count := 0
	for it.HasNext() {
		_, err := it.Next()
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 10, count)
}

func TestLogMgr_ReopensExistingLogFile(t *testing.T) {
	fm, err := file.NewMgr(t.TempDir(), 400)
	require.NoError(t, err)
	lm, err := log.NewMgr(fm, "simpledb.log")
	require.NoError(t, err)
	_, err = lm.Append([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, lm.Flush(lm.LatestLSN()))

	lm2, err := log.NewMgr(fm, "simpledb.log")
	require.NoError(t, err)
	it, err := lm2.Iterator()
	require.NoError(t, err)
	require.True(t, it.HasNext())
	rec, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("persisted"), rec)
}
