package storage

import (
	"context"
	"io"
	"time"
)

// KVEngine is the embedded key-value engine behind a Handle.
//
// Implementations must be safe for concurrent use and durable: a successful
// Set or Delete survives a process restart.
type KVEngine interface {
	// Get returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	Set(ctx context.Context, key, value []byte) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key []byte) error

	Has(ctx context.Context, key []byte) (bool, error)

	// Keys returns every key starting with prefix. A nil prefix matches all.
	Keys(ctx context.Context, prefix []byte) ([]string, error)

	// DropAll removes every key.
	DropAll(ctx context.Context) error

	// Backup writes a full dump of the engine to w.
	Backup(ctx context.Context, w io.Writer) error

	// Restore replaces the engine contents with a dump produced by Backup.
	Restore(ctx context.Context, r io.Reader) error

	// GC reclaims space from stale values. Returns the number of value log
	// rewrites performed.
	GC(ctx context.Context) (int, error)

	Stats(ctx context.Context) (*KVStats, error)

	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	TotalKeys    uint64
	TotalSize    uint64
	LSMSize      uint64
	ValueLogSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64

	GCRewrites uint64
}

// KVConfig configures the engine opened by a Handle.
type KVConfig struct {
	// Dir is the data root. The engine lives in Dir/Namespace.
	Dir string

	// Namespace identifies the engine's directory. Default: DefaultNamespace.
	Namespace string

	// InMemory keeps everything in memory; Dir is ignored.
	InMemory bool

	Badger BadgerConfig
}

// BadgerConfig contains Badger tuning parameters.
type BadgerConfig struct {
	// GCInterval between automatic value log GC runs. Zero disables the loop.
	GCInterval time.Duration

	// GCThreshold is the discard ratio passed to RunValueLogGC (0.0-1.0).
	GCThreshold float64

	ValueLogFileSize int64
	NumMemtables     int

	// SyncWrites fsyncs after every write. On by default: callers treat a
	// returned Set as persisted.
	SyncWrites bool
}

// DefaultKVConfig returns the default configuration rooted at dir.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:       dir,
		Namespace: DefaultNamespace,
		Badger:    DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns Badger settings sized for a small local store.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       10 * time.Minute,
		GCThreshold:      0.5,
		ValueLogFileSize: 64 << 20, // 64MB
		NumMemtables:     2,
		SyncWrites:       true,
	}
}
