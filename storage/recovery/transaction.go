package recovery

import "github.com/zhukovaskychina/simpledb-go/storage/file"

// Transaction is the subset of Transaction (spec.md §4.7) that a log
// record's undo needs: pin the affected block, write the old value
// back unlogged, and unpin. Defining it here instead of importing the
// tx package breaks what would otherwise be a Mgr <-> Transaction
// import cycle — tx.Transaction composes recovery.Mgr, and
// recovery.Mgr's log records call back into the owning transaction.
type Transaction interface {
	Pin(block file.BlockID) error
	Unpin(block file.BlockID)
	SetInt(block file.BlockID, offset int, val int32, okToLog bool) error
	SetString(block file.BlockID, offset int, val string, okToLog bool) error
}
