package lock

import "github.com/zhukovaskychina/simpledb-go/storage/file"

// lockType is the per-transaction record of which lock a transaction
// holds on a block.
type lockType int

const (
	sLock lockType = iota
	xLock
)

// ConcurrencyMgr is the per-transaction concurrency manager: it
// tracks which locks this transaction already holds and only calls
// through to the shared Table when it doesn't already hold a
// sufficient lock (spec.md §4.4). Not shared across threads (spec.md
// §5).
type ConcurrencyMgr struct {
	table *Table
	locks map[file.BlockID]lockType
}

// NewConcurrencyMgr binds a per-transaction concurrency manager to the
// shared lock table.
func NewConcurrencyMgr(table *Table) *ConcurrencyMgr {
	return &ConcurrencyMgr{table: table, locks: make(map[file.BlockID]lockType)}
}

// SLock takes a shared lock on block, a no-op if this transaction
// already holds S or X on it.
func (c *ConcurrencyMgr) SLock(block file.BlockID) error {
	if _, ok := c.locks[block]; ok {
		return nil
	}
	if err := c.table.SLock(block); err != nil {
		return err
	}
	c.locks[block] = sLock
	return nil
}

// XLock takes an exclusive lock on block, a no-op if this transaction
// already holds X. Ensures S is held first (table.XLock's precondition)
// before upgrading.
func (c *ConcurrencyMgr) XLock(block file.BlockID) error {
	if t, ok := c.locks[block]; ok && t == xLock {
		return nil
	}
	if err := c.SLock(block); err != nil {
		return err
	}
	if err := c.table.XLock(block); err != nil {
		return err
	}
	c.locks[block] = xLock
	return nil
}

// Release returns every lock this transaction holds back to the
// shared table. Called only from commit/rollback/recover (spec.md §5
// two-phase locking).
func (c *ConcurrencyMgr) Release() {
	for block := range c.locks {
		c.table.Unlock(block)
	}
	c.locks = make(map[file.BlockID]lockType)
}
