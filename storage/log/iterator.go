package log

import (
	"github.com/zhukovaskychina/simpledb-go/storage/file"
)

// Iterator yields log records from newest to oldest: backward within
// a block following the boundary, then stepping to the previous block
// once a block is exhausted. This is the Go analogue of simpledbpy's
// standalone LogIterator class (SPEC_FULL.md, supplemented feature 2).
type Iterator struct {
	fm          *file.Mgr
	blockID     file.BlockID
	page        *file.Page
	currentPos  int
	boundary    int
}

func newIterator(fm *file.Mgr, block file.BlockID) (*Iterator, error) {
	it := &Iterator{fm: fm, blockID: block, page: file.NewPage(fm.BlockSize())}
	if err := it.moveToBlock(block); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *Iterator) moveToBlock(block file.BlockID) error {
	if err := it.fm.Read(block, it.page); err != nil {
		return err
	}
	boundary, err := it.page.GetInt(0)
	if err != nil {
		return err
	}
	it.boundary = int(boundary)
	it.currentPos = it.boundary
	it.blockID = block
	return nil
}

// HasNext reports whether there is another record to read.
func (it *Iterator) HasNext() bool {
	return it.currentPos < it.fm.BlockSize() || it.blockID.Number > 0
}

// Next returns the next record, newest-first. Callers must check
// HasNext first.
func (it *Iterator) Next() ([]byte, error) {
	if it.currentPos == it.fm.BlockSize() {
		block := file.NewBlockID(it.blockID.Filename, it.blockID.Number-1)
		if err := it.moveToBlock(block); err != nil {
			return nil, err
		}
	}
	rec, err := it.page.GetBytes(it.currentPos)
	if err != nil {
		return nil, err
	}
	it.currentPos += 4 + len(rec)
	return rec, nil
}
