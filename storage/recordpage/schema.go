// Package recordpage implements the fixed-slot record format inside a
// block, the schema/layout that precomputes field offsets, and the
// slotted scan/insert/delete operations over one pinned block
// (spec.md §3, §4.8).
package recordpage

// FieldType is a column's storage type. Only INTEGER and VARCHAR(n)
// are supported (spec.md §3 "Schema"); no variable-length layout
// beyond a fixed max string length (spec.md §1 Non-goals).
type FieldType int

const (
	Integer FieldType = iota
	Varchar
)

type fieldInfo struct {
	typ    FieldType
	length int // declared VARCHAR max length; unused for Integer
}

// Schema is the ordered, name-unique list of fields that determines a
// record's layout. Field order is significant (spec.md §3).
type Schema struct {
	fields []string
	info   map[string]fieldInfo
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{info: make(map[string]fieldInfo)}
}

// AddField appends a field of an explicit type/length. Most callers
// use AddIntField/AddStringField instead.
func (s *Schema) AddField(name string, typ FieldType, length int) {
	s.fields = append(s.fields, name)
	s.info[name] = fieldInfo{typ: typ, length: length}
}

// AddIntField appends an INTEGER field.
func (s *Schema) AddIntField(name string) {
	s.AddField(name, Integer, 0)
}

// AddStringField appends a VARCHAR(length) field.
func (s *Schema) AddStringField(name string, length int) {
	s.AddField(name, Varchar, length)
}

// Add copies another schema's field (used when composing schemas for
// derived scans — out of core scope here, kept for parity with the
// textbook API).
func (s *Schema) Add(name string, other *Schema) {
	s.AddField(name, other.Type(name), other.Length(name))
}

// AddAll copies every field from another schema.
func (s *Schema) AddAll(other *Schema) {
	for _, f := range other.Fields() {
		s.Add(f, other)
	}
}

// Fields returns the field names in declared order.
func (s *Schema) Fields() []string {
	return s.fields
}

// HasField reports whether name is a field of this schema.
func (s *Schema) HasField(name string) bool {
	_, ok := s.info[name]
	return ok
}

// Type returns name's field type.
func (s *Schema) Type(name string) FieldType {
	return s.info[name].typ
}

// Length returns name's declared VARCHAR max length (meaningless for
// INTEGER fields).
func (s *Schema) Length(name string) int {
	return s.info[name].length
}
