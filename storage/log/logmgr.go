// Package log implements the append-only write-ahead log: records
// packed right-to-left within fixed-size blocks, LSN assignment, and
// flush-to-LSN durability (spec.md §3, §4.2).
package log

import (
	"sync"

	"github.com/zhukovaskychina/simpledb-go/storage/file"
)

// Mgr is the append-only log manager. All appends and flushes are
// serialized under one mutex (spec.md §5).
type Mgr struct {
	mu sync.Mutex

	fm      *file.Mgr
	logFile string

	currentPage  *file.Page
	currentBlock file.BlockID

	latestLSN    int
	lastSavedLSN int
}

// NewMgr bootstraps the log manager: if logFile is empty, it appends a
// fresh block with boundary set to the block size; otherwise it loads
// the highest-numbered existing block as the current tail.
func NewMgr(fm *file.Mgr, logFile string) (*Mgr, error) {
	m := &Mgr{fm: fm, logFile: logFile}

	size, err := fm.Length(logFile)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		block, err := m.appendNewBlock()
		if err != nil {
			return nil, err
		}
		m.currentBlock = block
		return m, nil
	}

	block := file.NewBlockID(logFile, size-1)
	page := file.NewPage(fm.BlockSize())
	if err := fm.Read(block, page); err != nil {
		return nil, err
	}
	m.currentPage = page
	m.currentBlock = block
	return m, nil
}

// appendNewBlock appends a fresh log block to disk, initializes its
// boundary to the block size, and makes it current in memory.
func (m *Mgr) appendNewBlock() (file.BlockID, error) {
	block, err := m.fm.Append(m.logFile)
	if err != nil {
		return file.BlockID{}, err
	}
	page := file.NewPage(m.fm.BlockSize())
	if err := page.SetInt(0, int32(m.fm.BlockSize())); err != nil {
		return file.BlockID{}, err
	}
	if err := m.fm.Write(block, page); err != nil {
		return file.BlockID{}, err
	}
	m.currentPage = page
	return block, nil
}

// Append writes record to the log's tail block, rolling over to a
// fresh block first if it doesn't fit, and returns the LSN assigned to
// it (spec.md §4.2).
func (m *Mgr) Append(record []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boundary, err := m.currentPage.GetInt(0)
	if err != nil {
		return 0, err
	}

	required := len(record) + 4
	if required+4 > m.fm.BlockSize() {
		return 0, ErrRecordTooLarge
	}

	if int(boundary)-required < 4 {
		if err := m.flushCurrentPage(); err != nil {
			return 0, err
		}
		block, err := m.appendNewBlock()
		if err != nil {
			return 0, err
		}
		m.currentBlock = block
		boundary, err = m.currentPage.GetInt(0)
		if err != nil {
			return 0, err
		}
	}

	pos := int(boundary) - required
	if err := m.currentPage.SetBytes(pos, record); err != nil {
		return 0, err
	}
	if err := m.currentPage.SetInt(0, int32(pos)); err != nil {
		return 0, err
	}

	m.latestLSN++
	return m.latestLSN, nil
}

// Flush forces the log to disk at least through lsn: all records with
// LSN ≤ lsn become durable.
func (m *Mgr) Flush(lsn int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushTo(lsn)
}

func (m *Mgr) flushTo(lsn int) error {
	if lsn < m.lastSavedLSN {
		return nil
	}
	if err := m.flushCurrentPage(); err != nil {
		return err
	}
	m.lastSavedLSN = m.latestLSN
	return nil
}

func (m *Mgr) flushCurrentPage() error {
	return m.fm.Write(m.currentBlock, m.currentPage)
}

// Iterator returns a reverse iterator over every record in the log,
// newest first, forcing the in-memory tail to disk before it starts
// (spec.md §4.2). Safe only when no append interleaves with iteration
// — callers (rollback, recover) hold the transaction scope that
// guarantees this.
func (m *Mgr) Iterator() (*Iterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.flushCurrentPage(); err != nil {
		return nil, err
	}
	return newIterator(m.fm, m.currentBlock)
}

// LatestLSN returns the most recently assigned LSN.
func (m *Mgr) LatestLSN() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latestLSN
}
