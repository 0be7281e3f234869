package recovery

import "errors"

// ErrUnknownRecordType is a decoding error: a log record was read with
// a tag outside 0..5 during recovery. Programmer/corruption error,
// fatal per spec.md §7 item 4.
var ErrUnknownRecordType = errors.New("recovery: unknown log record type")
