// Package table implements the table scan: a cursor over a heap file
// of record pages exposing scan/update semantics (spec.md §3, §4.9).
package table

// RID is a record identifier: (block number, slot).
type RID struct {
	BlockNum int
	Slot     int
}
