// Package recovery implements the typed log record codec and the
// undo-only recovery manager (spec.md §4.5, §4.6).
package recovery

import "github.com/zhukovaskychina/simpledb-go/storage/file"

// Op tags a log record's type. The on-disk values 0..5 are fixed by
// spec.md §4.5; any other tag read at recovery is corruption.
type Op int32

const (
	OpCheckpoint Op = iota
	OpStart
	OpCommit
	OpRollback
	OpSetInt
	OpSetString
)

// Record is a typed, decoded log record. Only SETINT/SETSTRING carry
// an Undo that does anything; the rest are markers consumed by
// Rollback/Recover.
type Record interface {
	Op() Op
	TxNumber() int
	Undo(tx Transaction) error
}

type checkpointRecord struct{}

func (checkpointRecord) Op() Op                 { return OpCheckpoint }
func (checkpointRecord) TxNumber() int          { return -1 }
func (checkpointRecord) Undo(Transaction) error { return nil }

type startRecord struct{ txnum int }

func (r startRecord) Op() Op                 { return OpStart }
func (r startRecord) TxNumber() int          { return r.txnum }
func (r startRecord) Undo(Transaction) error { return nil }

type commitRecord struct{ txnum int }

func (r commitRecord) Op() Op                 { return OpCommit }
func (r commitRecord) TxNumber() int          { return r.txnum }
func (r commitRecord) Undo(Transaction) error { return nil }

type rollbackRecord struct{ txnum int }

func (r rollbackRecord) Op() Op                 { return OpRollback }
func (r rollbackRecord) TxNumber() int          { return r.txnum }
func (r rollbackRecord) Undo(Transaction) error { return nil }

type setIntRecord struct {
	txnum    int
	block    file.BlockID
	offset   int
	oldValue int32
}

func (r setIntRecord) Op() Op        { return OpSetInt }
func (r setIntRecord) TxNumber() int { return r.txnum }

// Undo writes the old value back at the record's offset without
// generating a new log record, per spec.md §4.5.
func (r setIntRecord) Undo(tx Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetInt(r.block, r.offset, r.oldValue, false)
}

type setStringRecord struct {
	txnum    int
	block    file.BlockID
	offset   int
	oldValue string
}

func (r setStringRecord) Op() Op        { return OpSetString }
func (r setStringRecord) TxNumber() int { return r.txnum }

func (r setStringRecord) Undo(tx Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetString(r.block, r.offset, r.oldValue, false)
}
