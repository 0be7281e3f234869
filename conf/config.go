// Package conf loads the fixed startup parameters of a database: block
// size, buffer pool size, the data directory, and wait timeouts. These
// are chosen once at startup and held fixed for the process lifetime
// (spec.md §6).
package conf

import (
	"time"

	"gopkg.in/ini.v1"
)

// Cfg holds the engine's startup configuration.
type Cfg struct {
	Raw *ini.File

	// DirName is the database directory (created if absent).
	DirName string `default:"simpledb" ini:"dir_name"`
	// LogFile is the name of the write-ahead log file within DirName.
	LogFile string `default:"simpledb.log" ini:"log_file"`
	// BlockSize is the fixed size, in bytes, of every block/page.
	BlockSize int `default:"400" ini:"block_size"`
	// NumBuffers is the fixed number of frames in the buffer pool.
	NumBuffers int `default:"8" ini:"num_buffers"`

	// WaitTimeout bounds how long a thread waits on the buffer-pool or
	// lock-table condition variable before aborting (spec.md §4.4).
	WaitTimeout         string `default:"10s" ini:"wait_timeout"`
	WaitTimeoutDuration time.Duration
}

// NewCfg returns the engine's default configuration.
func NewCfg() *Cfg {
	c := &Cfg{
		Raw:                 ini.Empty(),
		DirName:             "simpledb",
		LogFile:             "simpledb.log",
		BlockSize:           400,
		NumBuffers:          8,
		WaitTimeout:         "10s",
		WaitTimeoutDuration: 10 * time.Second,
	}
	return c
}

// Load reads configuration from an ini file at path, falling back to
// defaults for any key it doesn't set.
func Load(path string) (*Cfg, error) {
	c := NewCfg()

	raw, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	c.Raw = raw

	sec := raw.Section("")
	if k, err := sec.GetKey("dir_name"); err == nil {
		c.DirName = k.String()
	}
	if k, err := sec.GetKey("log_file"); err == nil {
		c.LogFile = k.String()
	}
	if k, err := sec.GetKey("block_size"); err == nil {
		if v, err := k.Int(); err == nil {
			c.BlockSize = v
		}
	}
	if k, err := sec.GetKey("num_buffers"); err == nil {
		if v, err := k.Int(); err == nil {
			c.NumBuffers = v
		}
	}
	if k, err := sec.GetKey("wait_timeout"); err == nil {
		c.WaitTimeout = k.String()
	}

	d, err := time.ParseDuration(c.WaitTimeout)
	if err != nil {
		return nil, err
	}
	c.WaitTimeoutDuration = d

	return c, nil
}
