package buffer

import (
	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/log"
)

// Buffer is one frame of the buffer pool: it owns a Page and tracks
// which block it currently holds, how many pins it has, which
// transaction last modified it, and the LSN of the log record that
// justifies its dirty state (spec.md §3 "Buffer frame").
type Buffer struct {
	fm *file.Mgr
	lm *log.Mgr

	contents *file.Page
	blockID  file.BlockID
	hasBlock bool

	pins int
	// txnum is the modifying transaction number, -1 when clean.
	txnum int
	// lsn is the LSN of the last logged mutation, -1 when none.
	lsn int
}

func newBuffer(fm *file.Mgr, lm *log.Mgr) *Buffer {
	return &Buffer{
		fm:       fm,
		lm:       lm,
		contents: file.NewPage(fm.BlockSize()),
		txnum:    -1,
		lsn:      -1,
	}
}

// Contents returns the frame's page.
func (b *Buffer) Contents() *file.Page {
	return b.contents
}

// Block returns the block currently bound to this frame. Only valid
// once the frame has been assigned at least once.
func (b *Buffer) Block() file.BlockID {
	return b.blockID
}

// ModifyingTxn returns the transaction number that last dirtied this
// frame, or -1 if clean.
func (b *Buffer) ModifyingTxn() int {
	return b.txnum
}

// SetModified records that txnum dirtied this frame via the log
// record with the given lsn. lsn < 0 means the mutation was not
// logged (used at format time) and must not overwrite a previously
// recorded LSN (spec.md §4.3).
func (b *Buffer) SetModified(txnum, lsn int) {
	b.txnum = txnum
	if lsn >= 0 {
		b.lsn = lsn
	}
}

func (b *Buffer) isPinned() bool {
	return b.pins > 0
}

func (b *Buffer) pin() {
	b.pins++
}

func (b *Buffer) unpin() {
	b.pins--
}

// flush forces the log up to this frame's LSN, then writes the
// frame's page to its current block — the WAL invariant (spec.md
// §4.3, §5).
func (b *Buffer) flush() error {
	if b.txnum < 0 {
		return nil
	}
	if err := b.lm.Flush(b.lsn); err != nil {
		return err
	}
	if err := b.fm.Write(b.blockID, b.contents); err != nil {
		return err
	}
	b.txnum = -1
	return nil
}

// assignToBlock flushes the frame if dirty, then binds it to block
// and loads block's bytes from disk.
func (b *Buffer) assignToBlock(block file.BlockID) error {
	if err := b.flush(); err != nil {
		return err
	}
	b.blockID = block
	b.hasBlock = true
	return b.fm.Read(block, b.contents)
}
