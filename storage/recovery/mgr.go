package recovery

import (
	"github.com/zhukovaskychina/simpledb-go/logger"
	"github.com/zhukovaskychina/simpledb-go/storage/buffer"
	"github.com/zhukovaskychina/simpledb-go/storage/log"
)

// Mgr is the per-transaction recovery manager. It writes a START
// record on construction, and undo-only log records as the owning
// transaction mutates buffers (spec.md §4.6).
type Mgr struct {
	lm    *log.Mgr
	bm    *buffer.Mgr
	tx    Transaction
	txnum int
}

// NewMgr creates a recovery manager for txnum and immediately writes
// its START record.
func NewMgr(tx Transaction, txnum int, lm *log.Mgr, bm *buffer.Mgr) (*Mgr, error) {
	m := &Mgr{lm: lm, bm: bm, tx: tx, txnum: txnum}
	if _, err := writeStartRecord(lm, txnum); err != nil {
		return nil, err
	}
	return m, nil
}

// SetInt reads buf's current (old) value at offset, appends a SETINT
// record recording it, and returns the LSN. The caller then writes
// newVal into the page and stamps buf via SetModified — Go mirrors
// the "return the LSN, caller applies the mutation" split from
// spec.md §4.6 exactly.
func (m *Mgr) SetInt(buf *buffer.Buffer, offset int, newVal int32) (int, error) {
	old, err := buf.Contents().GetInt(offset)
	if err != nil {
		return 0, err
	}
	return writeSetIntRecord(m.lm, m.txnum, buf.Block(), offset, old)
}

// SetString is SetInt's string counterpart.
func (m *Mgr) SetString(buf *buffer.Buffer, offset int, newVal string) (int, error) {
	old, err := buf.Contents().GetString(offset)
	if err != nil {
		return 0, err
	}
	return writeSetStringRecord(m.lm, m.txnum, buf.Block(), offset, old)
}

// Commit flushes every buffer this transaction dirtied, appends
// COMMIT, and forces the log to that LSN — the flush-before-commit
// step that makes undo-only recovery correct (spec.md §4.6, §5).
func (m *Mgr) Commit() error {
	if err := m.bm.FlushAll(m.txnum); err != nil {
		return err
	}
	lsn, err := writeCommitRecord(m.lm, m.txnum)
	if err != nil {
		return err
	}
	return m.lm.Flush(lsn)
}

// Rollback undoes every SETINT/SETSTRING this transaction wrote,
// newest first, stopping at its START record, then flushes, appends
// ROLLBACK, and forces the log.
func (m *Mgr) Rollback() error {
	if err := m.doRollback(); err != nil {
		return err
	}
	if err := m.bm.FlushAll(m.txnum); err != nil {
		return err
	}
	lsn, err := writeRollbackRecord(m.lm, m.txnum)
	if err != nil {
		return err
	}
	return m.lm.Flush(lsn)
}

func (m *Mgr) doRollback() error {
	it, err := m.lm.Iterator()
	if err != nil {
		return err
	}
	for it.HasNext() {
		raw, err := it.Next()
		if err != nil {
			return err
		}
		rec, err := parseRecord(raw)
		if err != nil {
			return err
		}
		if rec.TxNumber() != m.txnum {
			continue
		}
		if rec.Op() == OpStart {
			return nil
		}
		if err := rec.Undo(m.tx); err != nil {
			return err
		}
	}
	return nil
}

// Recover replays the log newest-first, undoing every record whose
// transaction had not finished (committed or rolled back), stopping
// at a CHECKPOINT or the start of the log. Then it flushes, appends a
// fresh CHECKPOINT, and forces the log — applied to a log already
// ending in a CHECKPOINT this is idempotent (spec.md §4.6, §8).
func (m *Mgr) Recover() error {
	finished := make(map[int]bool)

	it, err := m.lm.Iterator()
	if err != nil {
		return err
	}
	for it.HasNext() {
		raw, err := it.Next()
		if err != nil {
			return err
		}
		rec, err := parseRecord(raw)
		if err != nil {
			return err
		}

		switch rec.Op() {
		case OpCheckpoint:
			return m.finishRecover()
		case OpCommit, OpRollback:
			finished[rec.TxNumber()] = true
		default:
			if !finished[rec.TxNumber()] {
				if err := rec.Undo(m.tx); err != nil {
					return err
				}
			}
		}
	}
	return m.finishRecover()
}

func (m *Mgr) finishRecover() error {
	if err := m.bm.FlushAll(m.txnum); err != nil {
		return err
	}
	lsn, err := writeCheckpointRecord(m.lm)
	if err != nil {
		return err
	}
	logger.Debugf("recovery: checkpoint written at lsn=%d", lsn)
	return m.lm.Flush(lsn)
}
