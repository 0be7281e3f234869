// Package buffer implements the fixed-size buffer pool: frames binding
// blocks to pages, pin counts, dirty tracking, and wait-on-availability
// (spec.md §4.3).
package buffer

import (
	"sync"
	"time"

	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/log"

	"github.com/zhukovaskychina/simpledb-go/logger"
)

// Mgr is the buffer pool: a fixed-size array of frames guarded by one
// condition variable (spec.md §5).
type Mgr struct {
	mu        sync.Mutex
	cond      *sync.Cond
	frames    []*Buffer
	available int
	timeout   time.Duration
}

// NewMgr allocates numBuffs empty, unpinned frames.
func NewMgr(fm *file.Mgr, lm *log.Mgr, numBuffs int, timeout time.Duration) *Mgr {
	m := &Mgr{
		frames:    make([]*Buffer, numBuffs),
		available: numBuffs,
		timeout:   timeout,
	}
	m.cond = sync.NewCond(&m.mu)
	for i := range m.frames {
		m.frames[i] = newBuffer(fm, lm)
	}
	return m
}

// Available returns the current count of unpinned frames (spec.md §6,
// restored per SPEC_FULL.md supplemented feature 1).
func (m *Mgr) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// FlushAll flushes every frame dirtied by txnum.
func (m *Mgr) FlushAll(txnum int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.frames {
		if b.ModifyingTxn() == txnum {
			if err := b.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pin binds block to a frame, waiting on the pool's condition
// variable up to the configured timeout if no frame is available
// (spec.md §4.3; §9 open question 1 — this is the "retry until
// timeout, then abort" fix, not the literal buggy guard).
func (m *Mgr) Pin(block file.BlockID) (*Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deadline := time.Now().Add(m.timeout)

	buf, err := m.tryToPin(block)
	if err != nil {
		return nil, err
	}
	for buf == nil {
		if !m.waitUntil(deadline) {
			logger.Warnf("buffer: pin timed out waiting for block %s", block)
			return nil, ErrBufferAbort
		}
		buf, err = m.tryToPin(block)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// Unpin decrements the frame's pin count; at zero it becomes
// available and every waiter is woken to re-check.
func (m *Mgr) Unpin(buf *Buffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf.unpin()
	if !buf.isPinned() {
		m.available++
		m.cond.Broadcast()
	}
}

func (m *Mgr) tryToPin(block file.BlockID) (*Buffer, error) {
	buf := m.findExistingBuffer(block)
	if buf == nil {
		buf = m.chooseUnpinnedBuffer()
		if buf == nil {
			return nil, nil
		}
		if err := buf.assignToBlock(block); err != nil {
			return nil, err
		}
	}
	if !buf.isPinned() {
		m.available--
	}
	buf.pin()
	return buf, nil
}

func (m *Mgr) findExistingBuffer(block file.BlockID) *Buffer {
	for _, b := range m.frames {
		if b.hasBlock && b.Block() == block {
			return b
		}
	}
	return nil
}

func (m *Mgr) chooseUnpinnedBuffer() *Buffer {
	for _, b := range m.frames {
		if !b.isPinned() {
			return b
		}
	}
	return nil
}

// waitUntil blocks on the condition variable until woken or deadline
// passes, returning false once the deadline has been reached. A
// watchdog goroutine guarantees the wait wakes at the deadline even
// absent an Unpin (sync.Cond has no native timed wait).
func (m *Mgr) waitUntil(deadline time.Time) bool {
	if !time.Now().Before(deadline) {
		return false
	}
	stop := make(chan struct{})
	go func() {
		select {
		case <-time.After(time.Until(deadline)):
			m.mu.Lock()
			m.cond.Broadcast()
			m.mu.Unlock()
		case <-stop:
		}
	}()
	m.cond.Wait()
	close(stop)
	return time.Now().Before(deadline)
}
