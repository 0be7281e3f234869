package engine_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/simpledb-go/conf"
	"github.com/zhukovaskychina/simpledb-go/engine"
)

func testCfg(dir string) *conf.Cfg {
	c := conf.NewCfg()
	c.DirName = dir
	c.BlockSize = 400
	c.NumBuffers = 8
	c.WaitTimeoutDuration = 2 * time.Second
	return c
}

func TestSimpleDB_NewCreatesFreshDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	db, err := engine.New(testCfg(dir))
	require.NoError(t, err)
	require.NotNil(t, db.FileMgr())
	require.NotNil(t, db.LogMgr())
	require.NotNil(t, db.BufferMgr())
}

func TestSimpleDB_TransactionsPersistAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	cfg := testCfg(dir)

	db, err := engine.New(cfg)
	require.NoError(t, err)

	txn, err := db.NewTx()
	require.NoError(t, err)
	block, err := txn.Append("accounts")
	require.NoError(t, err)
	require.NoError(t, txn.Pin(block))
	require.NoError(t, txn.SetInt(block, 0, 42, true))
	require.NoError(t, txn.Commit())

	// Reopen against the same directory, as if the process restarted.
	db2, err := engine.New(cfg)
	require.NoError(t, err)
	require.False(t, db2.FileMgr().IsNew())

	txn2, err := db2.NewTx()
	require.NoError(t, err)
	require.NoError(t, txn2.Pin(block))
	got, err := txn2.GetInt(block, 0)
	require.NoError(t, err)
	require.EqualValues(t, 42, got)
	require.NoError(t, txn2.Commit())
}

func TestSimpleDB_RecoverRestoresUncommittedWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	cfg := testCfg(dir)

	db, err := engine.New(cfg)
	require.NoError(t, err)

	txn, err := db.NewTx()
	require.NoError(t, err)
	block, err := txn.Append("accounts")
	require.NoError(t, err)
	require.NoError(t, txn.Pin(block))
	require.NoError(t, txn.SetInt(block, 0, 1, true))
	require.NoError(t, txn.Commit())

	crashed, err := db.NewTx()
	require.NoError(t, err)
	require.NoError(t, crashed.Pin(block))
	require.NoError(t, crashed.SetInt(block, 0, 9999, true))
	// Simulated crash: no commit/rollback call. The dirty page (and the
	// log up to its LSN) reaches disk, then the process restarts with a
	// fresh lock table and buffer pool.
	require.NoError(t, db.BufferMgr().FlushAll(crashed.TxNum()))

	db2, err := engine.New(cfg)
	require.NoError(t, err)

	recoveryTx, err := db2.NewTx()
	require.NoError(t, err)
	require.NoError(t, recoveryTx.Pin(block))
	require.NoError(t, recoveryTx.Recover())

	// Recover releases the recovering transaction's pins, so read back
	// through a new one.
	readTx, err := db2.NewTx()
	require.NoError(t, err)
	require.NoError(t, readTx.Pin(block))
	got, err := readTx.GetInt(block, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
}
