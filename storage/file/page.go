package file

import (
	"encoding/binary"

	jujuerrors "github.com/juju/errors"
)

// MaxLength returns the number of bytes a VARCHAR(n) slot reserves:
// a 4-byte length prefix followed by n bytes, regardless of the
// actual stored string's length (spec.md §3).
func MaxLength(strLen int) int {
	return 4 + strLen
}

// Page is a mutable, fixed-size byte buffer: the in-memory image of
// exactly one block. It encodes big-endian 32-bit signed integers at
// any offset and length-prefixed ASCII byte strings (spec.md §3).
type Page struct {
	buf []byte
}

// NewPage allocates a zero-filled page of blockSize bytes.
func NewPage(blockSize int) *Page {
	return &Page{buf: make([]byte, blockSize)}
}

// NewPageFromBytes wraps an existing byte slice as a page without
// copying — used by the log manager, which hands a page its own
// block-sized buffer directly.
func NewPageFromBytes(b []byte) *Page {
	return &Page{buf: b}
}

// Contents returns the page's underlying byte buffer. Callers that
// mutate it bypass the codec's bounds checks; only the file manager
// does this, to read/write a whole block at once.
func (p *Page) Contents() []byte {
	return p.buf
}

// Len returns the page's fixed size in bytes.
func (p *Page) Len() int {
	return len(p.buf)
}

func (p *Page) checkBounds(offset, width int) error {
	if offset < 0 || width < 0 || offset+width > len(p.buf) {
		return jujuerrors.Annotatef(ErrOutOfBounds, "offset=%d width=%d blockSize=%d", offset, width, len(p.buf))
	}
	return nil
}

// GetInt reads a big-endian signed 32-bit integer at offset.
func (p *Page) GetInt(offset int) (int32, error) {
	if err := p.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p.buf[offset : offset+4])), nil
}

// SetInt writes a big-endian signed 32-bit integer at offset.
func (p *Page) SetInt(offset int, val int32) error {
	if err := p.checkBounds(offset, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(p.buf[offset:offset+4], uint32(val))
	return nil
}

// GetBytes reads a length-prefixed byte string at offset: a 4-byte
// big-endian length N followed by N bytes.
func (p *Page) GetBytes(offset int) ([]byte, error) {
	if err := p.checkBounds(offset, 4); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint32(p.buf[offset : offset+4]))
	if err := p.checkBounds(offset+4, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p.buf[offset+4:offset+4+n])
	return out, nil
}

// SetBytes writes a length-prefixed byte string at offset.
func (p *Page) SetBytes(offset int, val []byte) error {
	if err := p.checkBounds(offset, MaxLength(len(val))); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(p.buf[offset:offset+4], uint32(len(val)))
	copy(p.buf[offset+4:offset+4+len(val)], val)
	return nil
}

// GetString reads an ASCII string stored as a length-prefixed byte
// string at offset.
func (p *Page) GetString(offset int) (string, error) {
	b, err := p.GetBytes(offset)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SetString writes an ASCII string as a length-prefixed byte string
// at offset.
func (p *Page) SetString(offset int, val string) error {
	return p.SetBytes(offset, []byte(val))
}
