// Package lock implements the process-wide lock table and the
// per-transaction concurrency manager layered on it: shared/exclusive
// locks keyed by block identifier, with a fixed wait timeout standing
// in for deadlock detection (spec.md §4.4).
package lock

import (
	"sync"
	"time"

	"github.com/zhukovaskychina/simpledb-go/logger"
	"github.com/zhukovaskychina/simpledb-go/storage/file"
)

// Table is the process-wide lock table: BlockID -> int, where 0/absent
// means unlocked, a positive count means that many shared holders, and
// -1 means a single exclusive holder (spec.md §3 "Lock state").
//
// Per spec.md §9's design note, this is passed into each Transaction
// as a shared handle rather than held as a package-level singleton.
type Table struct {
	mu      sync.Mutex
	cond    *sync.Cond
	locks   map[file.BlockID]int
	timeout time.Duration
}

// NewTable creates an empty lock table with the given wait timeout.
func NewTable(timeout time.Duration) *Table {
	t := &Table{locks: make(map[file.BlockID]int), timeout: timeout}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// SLock grants a shared lock on block, waiting while an exclusive
// lock is held, up to the configured timeout.
func (t *Table) SLock(block file.BlockID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline := time.Now().Add(t.timeout)
	for t.hasXLock(block) {
		if !t.waitUntil(deadline) {
			logger.Warnf("lock: slock timed out on block %s", block)
			return ErrLockAbort
		}
	}
	t.locks[block] = t.locks[block] + 1
	return nil
}

// XLock grants an exclusive lock on block. The caller must already
// hold S on block (the concurrency manager arranges this); XLock waits
// while any *other* shared holder remains, up to the configured
// timeout.
func (t *Table) XLock(block file.BlockID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline := time.Now().Add(t.timeout)
	for t.hasOtherSLocks(block) {
		if !t.waitUntil(deadline) {
			logger.Warnf("lock: xlock timed out on block %s", block)
			return ErrLockAbort
		}
	}
	t.locks[block] = -1
	return nil
}

// Unlock releases one lock on block: decrements a shared count above
// one, or removes the entry entirely (whether shared-at-one or
// exclusive), waking every waiter.
func (t *Table) Unlock(block file.BlockID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	val := t.locks[block]
	if val > 1 {
		t.locks[block] = val - 1
	} else {
		delete(t.locks, block)
		t.cond.Broadcast()
	}
}

func (t *Table) hasXLock(block file.BlockID) bool {
	return t.locks[block] < 0
}

func (t *Table) hasOtherSLocks(block file.BlockID) bool {
	return t.locks[block] > 1
}

func (t *Table) waitUntil(deadline time.Time) bool {
	if !time.Now().Before(deadline) {
		return false
	}
	stop := make(chan struct{})
	go func() {
		select {
		case <-time.After(time.Until(deadline)):
			t.mu.Lock()
			t.cond.Broadcast()
			t.mu.Unlock()
		case <-stop:
		}
	}()
	t.cond.Wait()
	close(stop)
	return time.Now().Before(deadline)
}
