package file

import "errors"

// I/O errors surfaced by the file manager. Per spec.md §7 these are
// fatal: the transaction that triggered them cannot continue.
var (
	ErrShortWrite = errors.New("file: short write")
)

// Decoding errors surfaced by the page codec — a programmer or
// corruption error, fatal per spec.md §7 item 4.
var (
	ErrOutOfBounds = errors.New("file: page offset out of bounds")
)
