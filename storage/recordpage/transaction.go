package recordpage

import "github.com/zhukovaskychina/simpledb-go/storage/file"

// Transaction is the subset of tx.Transaction a RecordPage needs.
// Defined locally (rather than imported) so recordpage stays a leaf
// package the tx package never has to know about.
type Transaction interface {
	Pin(block file.BlockID) error
	Unpin(block file.BlockID)
	GetInt(block file.BlockID, offset int) (int32, error)
	GetString(block file.BlockID, offset int) (string, error)
	SetInt(block file.BlockID, offset int, val int32, okToLog bool) error
	SetString(block file.BlockID, offset int, val string, okToLog bool) error
	BlockSize() int
}
