package table

import (
	jujuerrors "github.com/juju/errors"

	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/recordpage"
)

// Scan is a cursor over the heap file "<table>.tbl": a sequence of
// record pages visited in increasing block order, with slots visited
// in increasing index within a block (spec.md §3, §4.9).
type Scan struct {
	tx       Transaction
	filename string
	layout   *recordpage.Layout

	rp   *recordpage.Page
	slot int
}

// NewScan opens a scan over table. If the heap file is empty it
// appends and formats a fresh block; otherwise it positions at block
// 0.
func NewScan(tx Transaction, table string, layout *recordpage.Layout) (*Scan, error) {
	s := &Scan{tx: tx, filename: table + ".tbl", layout: layout}

	size, err := tx.Size(s.filename)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		if err := s.moveToNewBlock(); err != nil {
			return nil, err
		}
	} else {
		if err := s.moveToBlock(0); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close releases the current block's pin.
func (s *Scan) Close() {
	if s.rp != nil {
		s.rp.Close()
	}
}

// BeforeFirst repositions the cursor at block 0, before its first
// slot.
func (s *Scan) BeforeFirst() error {
	return s.moveToBlock(0)
}

func (s *Scan) moveToBlock(blockNum int) error {
	s.Close()
	block := file.NewBlockID(s.filename, blockNum)
	rp, err := recordpage.NewPage(s.tx, block, s.layout)
	if err != nil {
		return err
	}
	s.rp = rp
	s.slot = -1
	return nil
}

func (s *Scan) moveToNewBlock() error {
	s.Close()
	block, err := s.tx.Append(s.filename)
	if err != nil {
		return err
	}
	rp, err := recordpage.NewPage(s.tx, block, s.layout)
	if err != nil {
		return err
	}
	s.rp = rp
	if err := s.rp.Format(); err != nil {
		return err
	}
	s.slot = -1
	return nil
}

func (s *Scan) atLastBlock() (bool, error) {
	size, err := s.tx.Size(s.filename)
	if err != nil {
		return false, err
	}
	return s.rp.Block().Number == size-1, nil
}

// Next advances to the next used slot, rolling over blocks as needed,
// and reports whether a valid slot was found.
func (s *Scan) Next() (bool, error) {
	for {
		next, err := s.rp.NextAfter(s.slot)
		if err != nil {
			return false, err
		}
		if next >= 0 {
			s.slot = next
			return true, nil
		}
		last, err := s.atLastBlock()
		if err != nil {
			return false, err
		}
		if last {
			return false, nil
		}
		if err := s.moveToBlock(s.rp.Block().Number + 1); err != nil {
			return false, err
		}
	}
}

// Insert advances to an empty slot, appending a fresh block if the
// heap file is exhausted, and always succeeds.
func (s *Scan) Insert() error {
	for {
		next, err := s.rp.InsertAfter(s.slot)
		if err != nil {
			return err
		}
		if next >= 0 {
			s.slot = next
			return nil
		}
		last, err := s.atLastBlock()
		if err != nil {
			return err
		}
		if last {
			if err := s.moveToNewBlock(); err != nil {
				return err
			}
		} else {
			if err := s.moveToBlock(s.rp.Block().Number + 1); err != nil {
				return err
			}
		}
	}
}

// GetInt returns field f of the current record.
func (s *Scan) GetInt(f string) (int32, error) {
	return s.rp.GetInt(s.slot, f)
}

// GetString returns field f of the current record.
func (s *Scan) GetString(f string) (string, error) {
	return s.rp.GetString(s.slot, f)
}

// GetVal dispatches on the schema's declared type for f.
func (s *Scan) GetVal(f string) (interface{}, error) {
	switch s.layout.Schema().Type(f) {
	case recordpage.Integer:
		return s.GetInt(f)
	case recordpage.Varchar:
		return s.GetString(f)
	default:
		return nil, jujuerrors.Annotatef(ErrUnsupportedFieldType, "field %s", f)
	}
}

// SetInt writes field f of the current record.
func (s *Scan) SetInt(f string, val int32) error {
	return s.rp.SetInt(s.slot, f, val)
}

// SetString writes field f of the current record.
func (s *Scan) SetString(f string, val string) error {
	return s.rp.SetString(s.slot, f, val)
}

// SetVal dispatches on the schema's declared type for f; val must be
// an int32 or string matching it.
func (s *Scan) SetVal(f string, val interface{}) error {
	switch s.layout.Schema().Type(f) {
	case recordpage.Integer:
		v, ok := val.(int32)
		if !ok {
			return jujuerrors.Annotatef(ErrUnsupportedFieldType, "field %s expects int32", f)
		}
		return s.SetInt(f, v)
	case recordpage.Varchar:
		v, ok := val.(string)
		if !ok {
			return jujuerrors.Annotatef(ErrUnsupportedFieldType, "field %s expects string", f)
		}
		return s.SetString(f, v)
	default:
		return jujuerrors.Annotatef(ErrUnsupportedFieldType, "field %s", f)
	}
}

// Delete marks the current slot empty.
func (s *Scan) Delete() error {
	return s.rp.Delete(s.slot)
}

// MoveToRID repositions the cursor at an explicit record identifier.
func (s *Scan) MoveToRID(rid RID) error {
	s.Close()
	block := file.NewBlockID(s.filename, rid.BlockNum)
	rp, err := recordpage.NewPage(s.tx, block, s.layout)
	if err != nil {
		return err
	}
	s.rp = rp
	s.slot = rid.Slot
	return nil
}

// GetRID returns the current record's identifier.
func (s *Scan) GetRID() RID {
	return RID{BlockNum: s.rp.Block().Number, Slot: s.slot}
}
