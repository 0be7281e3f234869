package backup

import "errors"

// ErrChecksumMismatch means a restored entry's bytes don't match the
// xxhash64 checksum stamped into the archive.
var ErrChecksumMismatch = errors.New("backup: checksum mismatch on restore")
