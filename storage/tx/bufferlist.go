// Package tx implements Transaction (spec.md §4.7): the sole
// consumer-facing type, composing the buffer pool, lock table, and
// recovery manager behind pin/unpin/get/set/size/append and
// commit/rollback/recover.
package tx

import (
	"github.com/zhukovaskychina/simpledb-go/storage/buffer"
	"github.com/zhukovaskychina/simpledb-go/storage/file"
)

// bufferList is a transaction's private pin multiset: it tracks, for
// each pinned block, the frame holding it and how many times this
// transaction has pinned it (spec.md §3 "Transaction"). Not shared
// across threads (spec.md §5).
type bufferList struct {
	bm      *buffer.Mgr
	buffers map[file.BlockID]*buffer.Buffer
	pins    map[file.BlockID]int
}

func newBufferList(bm *buffer.Mgr) *bufferList {
	return &bufferList{
		bm:      bm,
		buffers: make(map[file.BlockID]*buffer.Buffer),
		pins:    make(map[file.BlockID]int),
	}
}

func (l *bufferList) getBuffer(block file.BlockID) *buffer.Buffer {
	return l.buffers[block]
}

func (l *bufferList) pin(block file.BlockID) error {
	buf, err := l.bm.Pin(block)
	if err != nil {
		return err
	}
	l.buffers[block] = buf
	l.pins[block]++
	return nil
}

func (l *bufferList) unpin(block file.BlockID) {
	buf, ok := l.buffers[block]
	if !ok {
		return
	}
	l.bm.Unpin(buf)
	l.pins[block]--
	if l.pins[block] <= 0 {
		delete(l.buffers, block)
		delete(l.pins, block)
	}
}

// unpinAll releases every pin this transaction holds, regardless of
// count — called at commit/rollback/recover.
func (l *bufferList) unpinAll() {
	for block, buf := range l.buffers {
		for n := l.pins[block]; n > 0; n-- {
			l.bm.Unpin(buf)
		}
		delete(l.buffers, block)
	}
	l.pins = make(map[file.BlockID]int)
}
