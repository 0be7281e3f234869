package recordpage

import "errors"

// Schema errors: unknown field name or type mismatch at slot access —
// a programmer error (spec.md §7 item 5).
var (
	ErrUnknownField = errors.New("recordpage: unknown field")
	ErrFieldType    = errors.New("recordpage: field type mismatch")
)
