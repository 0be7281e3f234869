// Package engine composes the storage core's subsystems — file,
// log, buffer, and lock managers — into a single handle that hands
// out Transactions; startup recovery is run through one of those
// Transactions (see New). This is the facade
// higher layers (catalog, planner, CLI — all out of scope here per
// spec.md §1) build on, grounded on the teacher's
// server/innodb/manager.StorageManager composition style.
package engine

import (
	"path/filepath"

	"github.com/zhukovaskychina/simpledb-go/conf"
	"github.com/zhukovaskychina/simpledb-go/logger"
	"github.com/zhukovaskychina/simpledb-go/storage/buffer"
	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/lock"
	"github.com/zhukovaskychina/simpledb-go/storage/log"
	"github.com/zhukovaskychina/simpledb-go/storage/tx"
)

// SimpleDB is the top-level handle to one database directory. It owns
// the shared file/log/buffer managers and the process-wide lock
// table (spec.md §9 design note: passed by shared handle, not a true
// global singleton).
type SimpleDB struct {
	cfg *conf.Cfg

	fm *file.Mgr
	lm *log.Mgr
	bm *buffer.Mgr
	lt *lock.Table
}

// New opens (or creates) the database directory named by cfg and
// bootstraps its file, log, and buffer managers and lock table. It
// does not run recovery — call NewTx().Recover() for that, exactly as
// spec.md §4.6/§4.7 describe recovery as a transaction operation.
func New(cfg *conf.Cfg) (*SimpleDB, error) {
	fm, err := file.NewMgr(cfg.DirName, cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	lm, err := log.NewMgr(fm, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	bm := buffer.NewMgr(fm, lm, cfg.NumBuffers, cfg.WaitTimeoutDuration)
	lt := lock.NewTable(cfg.WaitTimeoutDuration)

	if fm.IsNew() {
		logger.Infof("engine: created new database at %s", cfg.DirName)
	} else {
		logger.Infof("engine: opened existing database at %s", cfg.DirName)
	}

	return &SimpleDB{cfg: cfg, fm: fm, lm: lm, bm: bm, lt: lt}, nil
}

// NewTx starts a new transaction bound to this database's shared
// managers.
func (db *SimpleDB) NewTx() (*tx.Transaction, error) {
	return tx.NewTransaction(db.fm, db.lm, db.bm, db.lt)
}

// FileMgr returns the shared file manager (consumer API, spec.md §6).
func (db *SimpleDB) FileMgr() *file.Mgr { return db.fm }

// LogMgr returns the shared log manager.
func (db *SimpleDB) LogMgr() *log.Mgr { return db.lm }

// BufferMgr returns the shared buffer pool.
func (db *SimpleDB) BufferMgr() *buffer.Mgr { return db.bm }

// LogPath returns the path to the log file: the configured directory
// joined with the log file name (relative if the directory is). It is
// the path to hand to logarchive.ArchiveLogFile.
func (db *SimpleDB) LogPath() string {
	return filepath.Join(db.cfg.DirName, db.cfg.LogFile)
}

// DirName returns the database directory, the path to hand to
// backup.Snapshot.
func (db *SimpleDB) DirName() string {
	return db.cfg.DirName
}
