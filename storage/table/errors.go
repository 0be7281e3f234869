package table

import "errors"

// ErrUnsupportedFieldType is a schema error: GetVal/SetVal was asked
// to dispatch on a field whose type isn't INTEGER or VARCHAR, or
// SetVal was given a value that is not the int32 or string the
// field's type calls for.
var ErrUnsupportedFieldType = errors.New("table: unsupported field type")
