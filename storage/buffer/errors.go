package buffer

import "errors"

// ErrBufferAbort is raised when Pin times out waiting for a frame to
// become available (spec.md §7 item 2). Callers must treat this as
// "abort the owning transaction".
var ErrBufferAbort = errors.New("buffer: timed out waiting for an available frame")
