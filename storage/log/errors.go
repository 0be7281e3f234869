package log

import "errors"

var (
	// ErrRecordTooLarge is returned when a single record cannot fit in
	// an empty block (spec.md §8 boundary behaviors).
	ErrRecordTooLarge = errors.New("log: record too large for one block")
)
