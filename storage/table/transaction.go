package table

import (
	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/recordpage"
)

// Transaction is the subset of tx.Transaction a TableScan needs: the
// recordpage.Transaction operations plus file-level size/append.
type Transaction interface {
	recordpage.Transaction
	Size(filename string) (int, error)
	Append(filename string) (file.BlockID, error)
}
