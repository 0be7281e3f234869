package tx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/simpledb-go/storage/buffer"
	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/lock"
	"github.com/zhukovaskychina/simpledb-go/storage/log"
	"github.com/zhukovaskychina/simpledb-go/storage/tx"
)

type harness struct {
	fm *file.Mgr
	lm *log.Mgr
	bm *buffer.Mgr
	lt *lock.Table
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fm, err := file.NewMgr(t.TempDir(), 400)
	require.NoError(t, err)
	lm, err := log.NewMgr(fm, "simpledb.log")
	require.NoError(t, err)
	bm := buffer.NewMgr(fm, lm, 8, time.Second)
	lt := lock.NewTable(time.Second)
	return &harness{fm: fm, lm: lm, bm: bm, lt: lt}
}

func (h *harness) newTx(t *testing.T) *tx.Transaction {
	t.Helper()
	txn, err := tx.NewTransaction(h.fm, h.lm, h.bm, h.lt)
	require.NoError(t, err)
	return txn
}

// TestTransaction_RoundTripAcrossFiveTransactions mirrors the canonical
// walkthrough: write then commit, read back, overwrite then commit,
// write then roll back, and confirm the rolled-back value never stuck.
func TestTransaction_RoundTripAcrossFiveTransactions(t *testing.T) {
	h := newHarness(t)

	tx1 := h.newTx(t)
	block, err := tx1.Append("testfile")
	require.NoError(t, err)
	require.NoError(t, tx1.Pin(block))
	require.NoError(t, tx1.SetInt(block, 80, 1, false))
	require.NoError(t, tx1.SetString(block, 40, "one", false))
	require.NoError(t, tx1.Commit())

	tx2 := h.newTx(t)
	require.NoError(t, tx2.Pin(block))
	got, err := tx2.GetInt(block, 80)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
	str, err := tx2.GetString(block, 40)
	require.NoError(t, err)
	require.Equal(t, "one", str)
	require.NoError(t, tx2.Commit())

	tx3 := h.newTx(t)
	require.NoError(t, tx3.Pin(block))
	require.NoError(t, tx3.SetInt(block, 80, 2, true))
	require.NoError(t, tx3.SetString(block, 40, "one!", true))
	require.NoError(t, tx3.Commit())

	tx4 := h.newTx(t)
	require.NoError(t, tx4.Pin(block))
	require.NoError(t, tx4.SetInt(block, 80, 9999, true))
	require.NoError(t, tx4.Rollback())

	tx5 := h.newTx(t)
	require.NoError(t, tx5.Pin(block))
	got, err = tx5.GetInt(block, 80)
	require.NoError(t, err)
	require.EqualValues(t, 2, got)
	require.NoError(t, tx5.Commit())
}

func TestTransaction_RecoverAfterSimulatedCrash(t *testing.T) {
	h := newHarness(t)

	tx1 := h.newTx(t)
	block, err := tx1.Append("testfile")
	require.NoError(t, err)
	require.NoError(t, tx1.Pin(block))
	require.NoError(t, tx1.SetInt(block, 80, 1, true))
	require.NoError(t, tx1.Commit())

	tx2 := h.newTx(t)
	require.NoError(t, tx2.Pin(block))
	require.NoError(t, tx2.SetInt(block, 80, 9999, true))
	// tx2 never commits or rolls back — simulates a crash mid-transaction.
	// A crash loses the in-memory lock table, so recovery runs against a
	// fresh one (tx2's exclusive lock would otherwise block the undo).
	h.lt = lock.NewTable(time.Second)

	tx3 := h.newTx(t)
	require.NoError(t, tx3.Pin(block))
	require.NoError(t, tx3.Recover())

	// Recover releases tx3's pins, so read back through a new transaction.
	tx4 := h.newTx(t)
	require.NoError(t, tx4.Pin(block))
	got, err := tx4.GetInt(block, 80)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
}

func TestTransaction_SizeAndAppendGrowFile(t *testing.T) {
	h := newHarness(t)
	txn := h.newTx(t)

	size, err := txn.Size("growfile")
	require.NoError(t, err)
	require.Equal(t, 0, size)

	_, err = txn.Append("growfile")
	require.NoError(t, err)
	_, err = txn.Append("growfile")
	require.NoError(t, err)

	size, err = txn.Size("growfile")
	require.NoError(t, err)
	require.Equal(t, 2, size)
	require.NoError(t, txn.Commit())
}

func TestTransaction_ConcurrentWritersConflictOnXLock(t *testing.T) {
	h := newHarness(t)
	h.lt = lock.NewTable(50 * time.Millisecond)

	setupTx := h.newTx(t)
	block, err := setupTx.Append("testfile")
	require.NoError(t, err)
	require.NoError(t, setupTx.Commit())

	tx1 := h.newTx(t)
	require.NoError(t, tx1.Pin(block))
	require.NoError(t, tx1.SetInt(block, 0, 1, true))

	tx2 := h.newTx(t)
	require.NoError(t, tx2.Pin(block))
	err = tx2.SetInt(block, 0, 2, true)
	require.ErrorIs(t, err, lock.ErrLockAbort)

	require.NoError(t, tx1.Commit())
}

func TestTransaction_PinSameBlockTwiceRequiresTwoUnpins(t *testing.T) {
	h := newHarness(t)
	txn := h.newTx(t)
	block, err := txn.Append("testfile")
	require.NoError(t, err)

	require.NoError(t, txn.Pin(block))
	require.NoError(t, txn.Pin(block))

	before := txn.AvailableBuffers()
	txn.Unpin(block)
	require.Equal(t, before, txn.AvailableBuffers())
	txn.Unpin(block)
	require.Equal(t, before+1, txn.AvailableBuffers())
}
