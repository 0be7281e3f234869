package tx

import (
	"sync/atomic"

	"github.com/zhukovaskychina/simpledb-go/storage/buffer"
	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/lock"
	"github.com/zhukovaskychina/simpledb-go/storage/log"
	"github.com/zhukovaskychina/simpledb-go/storage/recovery"
)

// endOfFileBlock is the block number -1 that identifies a file's
// sentinel block, locked to serialize size()/append() races on that
// file (spec.md §4.7).
const endOfFileBlock = -1

var nextTxNum int64

func nextTxNumber() int {
	return int(atomic.AddInt64(&nextTxNum, 1))
}

// Transaction is the unit of work over the storage core: it composes
// the buffer pool, the lock table (via a per-transaction
// ConcurrencyMgr), and the recovery manager, and exposes
// read/write/append/size over BlockIDs with locking, logging, and
// pinning (spec.md §4.7, §6).
type Transaction struct {
	txnum int

	fm *file.Mgr
	lm *log.Mgr
	bm *buffer.Mgr

	cm  *lock.ConcurrencyMgr
	rm  *recovery.Mgr
	pins *bufferList
}

// NewTransaction creates a transaction with a fresh, unique txnum,
// bound to the shared file/log/buffer managers and lock table.
func NewTransaction(fm *file.Mgr, lm *log.Mgr, bm *buffer.Mgr, lockTable *lock.Table) (*Transaction, error) {
	tx := &Transaction{
		txnum: nextTxNumber(),
		fm:    fm,
		lm:    lm,
		bm:    bm,
		cm:    lock.NewConcurrencyMgr(lockTable),
		pins:  newBufferList(bm),
	}
	rm, err := recovery.NewMgr(tx, tx.txnum, lm, bm)
	if err != nil {
		return nil, err
	}
	tx.rm = rm
	return tx, nil
}

// TxNum returns the transaction's unique number.
func (t *Transaction) TxNum() int {
	return t.txnum
}

// BlockSize returns the fixed block size in bytes.
func (t *Transaction) BlockSize() int {
	return t.fm.BlockSize()
}

// AvailableBuffers returns the pool's current unpinned-frame count.
func (t *Transaction) AvailableBuffers() int {
	return t.bm.Available()
}

// Pin pins block for the duration of this transaction (or increments
// its local pin count if already pinned).
func (t *Transaction) Pin(block file.BlockID) error {
	return t.pins.pin(block)
}

// Unpin removes one local pin on block, unpinning from the pool on
// the last occurrence.
func (t *Transaction) Unpin(block file.BlockID) {
	t.pins.unpin(block)
}

// GetInt takes a shared lock on block (held to commit) and returns the
// int at offset from its pinned buffer's page.
func (t *Transaction) GetInt(block file.BlockID, offset int) (int32, error) {
	if err := t.cm.SLock(block); err != nil {
		return 0, err
	}
	buf := t.pins.getBuffer(block)
	return buf.Contents().GetInt(offset)
}

// GetString is GetInt's string counterpart.
func (t *Transaction) GetString(block file.BlockID, offset int) (string, error) {
	if err := t.cm.SLock(block); err != nil {
		return "", err
	}
	buf := t.pins.getBuffer(block)
	return buf.Contents().GetString(offset)
}

// SetInt takes an exclusive lock on block, optionally logs the old
// value, writes val, and stamps the buffer as modified by this
// transaction (spec.md §4.7).
func (t *Transaction) SetInt(block file.BlockID, offset int, val int32, okToLog bool) error {
	if err := t.cm.XLock(block); err != nil {
		return err
	}
	buf := t.pins.getBuffer(block)
	lsn := -1
	if okToLog {
		l, err := t.rm.SetInt(buf, offset, val)
		if err != nil {
			return err
		}
		lsn = l
	}
	if err := buf.Contents().SetInt(offset, val); err != nil {
		return err
	}
	buf.SetModified(t.txnum, lsn)
	return nil
}

// SetString is SetInt's string counterpart.
func (t *Transaction) SetString(block file.BlockID, offset int, val string, okToLog bool) error {
	if err := t.cm.XLock(block); err != nil {
		return err
	}
	buf := t.pins.getBuffer(block)
	lsn := -1
	if okToLog {
		l, err := t.rm.SetString(buf, offset, val)
		if err != nil {
			return err
		}
		lsn = l
	}
	if err := buf.Contents().SetString(offset, val); err != nil {
		return err
	}
	buf.SetModified(t.txnum, lsn)
	return nil
}

// Size takes a shared lock on filename's end-of-file sentinel block,
// then returns its length in blocks. The sentinel lock prevents a
// phantom-block race against a concurrent Append (spec.md §4.7).
func (t *Transaction) Size(filename string) (int, error) {
	sentinel := file.NewBlockID(filename, endOfFileBlock)
	if err := t.cm.SLock(sentinel); err != nil {
		return 0, err
	}
	return t.fm.Length(filename)
}

// Append takes an exclusive lock on filename's end-of-file sentinel
// block, then appends a new block at the file layer.
func (t *Transaction) Append(filename string) (file.BlockID, error) {
	sentinel := file.NewBlockID(filename, endOfFileBlock)
	if err := t.cm.XLock(sentinel); err != nil {
		return file.BlockID{}, err
	}
	return t.fm.Append(filename)
}

// Commit delegates to the recovery manager, then releases every lock
// and unpins every frame this transaction holds.
func (t *Transaction) Commit() error {
	if err := t.rm.Commit(); err != nil {
		return err
	}
	t.cm.Release()
	t.pins.unpinAll()
	return nil
}

// Rollback delegates to the recovery manager, then releases every
// lock and unpins every frame this transaction holds.
func (t *Transaction) Rollback() error {
	if err := t.rm.Rollback(); err != nil {
		return err
	}
	t.cm.Release()
	t.pins.unpinAll()
	return nil
}

// Recover delegates to the recovery manager's startup recovery, then
// releases every lock and unpins every frame this transaction holds.
func (t *Transaction) Recover() error {
	if err := t.rm.Recover(); err != nil {
		return err
	}
	t.cm.Release()
	t.pins.unpinAll()
	return nil
}
