package recordpage

import "github.com/zhukovaskychina/simpledb-go/storage/file"

// Layout precomputes, from a Schema, the byte offset of every field
// within a slot and the total slot size: a leading 4-byte used/empty
// flag, then each field in declaration order — INTEGER is 4 bytes,
// VARCHAR(n) is file.MaxLength(n) bytes (spec.md §3, §4.8).
type Layout struct {
	schema   *Schema
	offsets  map[string]int
	slotSize int
}

// NewLayout computes a layout from scratch: slot size = 4 (flag) plus
// the sum of each field's size.
func NewLayout(schema *Schema) *Layout {
	offsets := make(map[string]int)
	pos := 4 // leading used/empty flag
	for _, name := range schema.Fields() {
		offsets[name] = pos
		pos += fieldSize(schema, name)
	}
	return &Layout{schema: schema, offsets: offsets, slotSize: pos}
}

// NewLayoutFrom builds a layout from externally supplied offsets and
// slot size — used when a layout is read back from catalog metadata
// rather than computed fresh (spec.md §4.8).
func NewLayoutFrom(schema *Schema, offsets map[string]int, slotSize int) *Layout {
	return &Layout{schema: schema, offsets: offsets, slotSize: slotSize}
}

func fieldSize(schema *Schema, name string) int {
	if schema.Type(name) == Integer {
		return 4
	}
	return file.MaxLength(schema.Length(name))
}

// Schema returns the underlying schema.
func (l *Layout) Schema() *Schema {
	return l.schema
}

// Offset returns name's byte offset within a slot.
func (l *Layout) Offset(name string) int {
	return l.offsets[name]
}

// SlotSize returns the total size in bytes of one slot, including its
// leading flag.
func (l *Layout) SlotSize() int {
	return l.slotSize
}
