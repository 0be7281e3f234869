package recordpage

import (
	jujuerrors "github.com/juju/errors"

	"github.com/zhukovaskychina/simpledb-go/storage/file"
)

const (
	emptyFlag = int32(0)
	usedFlag  = int32(1)
)

// Page wraps a pinned BlockID within a Transaction, formatted as a
// sequence of fixed-size, flag-prefixed slots (spec.md §3, §4.8).
type Page struct {
	tx     Transaction
	block  file.BlockID
	layout *Layout
}

// NewPage borrows a pin on block from tx for the Page's lifetime.
func NewPage(tx Transaction, block file.BlockID, layout *Layout) (*Page, error) {
	if err := tx.Pin(block); err != nil {
		return nil, err
	}
	return &Page{tx: tx, block: block, layout: layout}, nil
}

// Close releases the pin NewPage took.
func (p *Page) Close() {
	p.tx.Unpin(p.block)
}

// Block returns the underlying block identifier.
func (p *Page) Block() file.BlockID {
	return p.block
}

func (p *Page) offset(slot int, field string) int {
	return slot*p.layout.SlotSize() + p.layout.Offset(field)
}

func (p *Page) flagOffset(slot int) int {
	return slot * p.layout.SlotSize()
}

// GetInt reads field f of slot as an INTEGER.
func (p *Page) GetInt(slot int, f string) (int32, error) {
	if p.layout.Schema().Type(f) != Integer {
		return 0, jujuerrors.Annotatef(ErrFieldType, "field %s is not INTEGER", f)
	}
	return p.tx.GetInt(p.block, p.offset(slot, f))
}

// GetString reads field f of slot as a VARCHAR.
func (p *Page) GetString(slot int, f string) (string, error) {
	if p.layout.Schema().Type(f) != Varchar {
		return "", jujuerrors.Annotatef(ErrFieldType, "field %s is not VARCHAR", f)
	}
	return p.tx.GetString(p.block, p.offset(slot, f))
}

// SetInt writes field f of slot, generating an undo log record.
func (p *Page) SetInt(slot int, f string, val int32) error {
	if p.layout.Schema().Type(f) != Integer {
		return jujuerrors.Annotatef(ErrFieldType, "field %s is not INTEGER", f)
	}
	return p.tx.SetInt(p.block, p.offset(slot, f), val, true)
}

// SetString writes field f of slot, generating an undo log record.
func (p *Page) SetString(slot int, f string, val string) error {
	if p.layout.Schema().Type(f) != Varchar {
		return jujuerrors.Annotatef(ErrFieldType, "field %s is not VARCHAR", f)
	}
	return p.tx.SetString(p.block, p.offset(slot, f), val, true)
}

// Delete marks slot empty.
func (p *Page) Delete(slot int) error {
	return p.setFlag(slot, emptyFlag)
}

func (p *Page) setFlag(slot int, flag int32) error {
	return p.tx.SetInt(p.block, p.flagOffset(slot), flag, true)
}

// Format writes the empty flag and type-defaulted zero values into
// every slot that fits the block, all unlogged since the prior
// contents are meaningless (spec.md §4.8).
func (p *Page) Format() error {
	slot := 0
	for p.isValidSlot(slot) {
		if err := p.tx.SetInt(p.block, p.flagOffset(slot), emptyFlag, false); err != nil {
			return err
		}
		schema := p.layout.Schema()
		for _, f := range schema.Fields() {
			off := p.offset(slot, f)
			var err error
			if schema.Type(f) == Integer {
				err = p.tx.SetInt(p.block, off, 0, false)
			} else {
				err = p.tx.SetString(p.block, off, "", false)
			}
			if err != nil {
				return err
			}
		}
		slot++
	}
	return nil
}

// InsertAfter scans forward from slot+1 and flips the first empty
// slot it finds to used, returning its index, or -1 if the page is
// full.
func (p *Page) InsertAfter(slot int) (int, error) {
	next, err := p.searchAfter(slot, emptyFlag)
	if err != nil {
		return -1, err
	}
	if next >= 0 {
		if err := p.setFlag(next, usedFlag); err != nil {
			return -1, err
		}
	}
	return next, nil
}

// NextAfter scans forward from slot+1 and returns the first used
// slot's index, or -1 if none remain.
func (p *Page) NextAfter(slot int) (int, error) {
	return p.searchAfter(slot, usedFlag)
}

func (p *Page) searchAfter(slot int, flag int32) (int, error) {
	slot++
	for p.isValidSlot(slot) {
		val, err := p.tx.GetInt(p.block, p.flagOffset(slot))
		if err != nil {
			return -1, err
		}
		if val == flag {
			return slot, nil
		}
		slot++
	}
	return -1, nil
}

func (p *Page) isValidSlot(slot int) bool {
	return p.flagOffset(slot+1) <= p.tx.BlockSize()
}
