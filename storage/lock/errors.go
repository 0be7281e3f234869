package lock

import "errors"

// ErrLockAbort is raised when slock/xlock times out waiting for a
// conflicting lock to clear (spec.md §7 item 3). Callers must treat
// this as "abort the owning transaction".
var ErrLockAbort = errors.New("lock: timed out waiting for a conflicting lock")
