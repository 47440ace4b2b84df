package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// BadgerEngine implements KVEngine using Badger v3.
type BadgerEngine struct {
	db     *badger.DB
	cfg    BadgerConfig
	dir    string
	logger *slog.Logger

	closed     atomic.Bool
	lastGCTime atomic.Int64
	gcRewrites atomic.Uint64

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// NewBadgerEngine opens a Badger database for cfg.
func NewBadgerEngine(cfg KVConfig, logger *slog.Logger) (*BadgerEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}

	var opts badger.Options
	dir := ""
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, fmt.Errorf("badger: dir is required")
		}
		dir = filepath.Join(cfg.Dir, cfg.Namespace)
		opts = badger.DefaultOptions(dir)
	}

	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = cfg.Badger.SyncWrites
	if cfg.Badger.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.Badger.ValueLogFileSize
	}
	if cfg.Badger.NumMemtables > 0 {
		opts.NumMemtables = cfg.Badger.NumMemtables
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	e := &BadgerEngine{
		db:     db,
		cfg:    cfg.Badger,
		dir:    dir,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if cfg.Badger.GCInterval > 0 && !cfg.InMemory {
		go e.gcLoop(cfg.Badger.GCInterval)
	} else {
		close(e.doneCh)
	}

	logger.Info("badger engine started",
		"namespace", cfg.Namespace,
		"dir", dir,
		"in_memory", cfg.InMemory,
		"sync_writes", cfg.Badger.SyncWrites)

	return e, nil
}

// Get retrieves a value by key.
func (e *BadgerEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a key-value pair.
func (e *BadgerEngine) Set(ctx context.Context, key, value []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key.
func (e *BadgerEngine) Delete(ctx context.Context, key []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if len(key) == 0 {
		return nil
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Has reports whether key exists without reading its value.
func (e *BadgerEngine) Has(ctx context.Context, key []byte) (bool, error) {
	if e.closed.Load() {
		return false, ErrClosed
	}

	found := false
	err := e.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// Keys iterates keys only; values are not fetched.
func (e *BadgerEngine) Keys(ctx context.Context, prefix []byte) ([]string, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	var keys []string
	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// DropAll removes every key.
func (e *BadgerEngine) DropAll(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := e.db.DropAll(); err != nil {
		return fmt.Errorf("badger: drop all: %w", err)
	}
	e.logger.Info("badger engine cleared")
	return nil
}

// Backup writes a full Badger backup stream to w.
func (e *BadgerEngine) Backup(ctx context.Context, w io.Writer) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if _, err := e.db.Backup(w, 0); err != nil {
		return fmt.Errorf("badger: backup: %w", err)
	}
	return nil
}

// Restore drops the current contents and loads a backup stream.
func (e *BadgerEngine) Restore(ctx context.Context, r io.Reader) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := e.db.DropAll(); err != nil {
		return fmt.Errorf("badger: drop before restore: %w", err)
	}
	if err := e.db.Load(r, 256); err != nil {
		return fmt.Errorf("badger: load backup: %w", err)
	}
	e.logger.Info("badger backup restored")
	return nil
}

// GC runs value log GC until Badger reports nothing left to rewrite.
func (e *BadgerEngine) GC(ctx context.Context) (int, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}

	start := time.Now()
	rewrites := 0
	for {
		if err := ctx.Err(); err != nil {
			return rewrites, err
		}
		err := e.db.RunValueLogGC(e.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
				break
			}
			return rewrites, fmt.Errorf("badger: gc: %w", err)
		}
		rewrites++
	}

	e.lastGCTime.Store(time.Now().UnixMilli())
	e.gcRewrites.Add(uint64(rewrites))

	e.logger.Debug("gc completed",
		"rewrites", rewrites,
		"elapsed", time.Since(start))

	return rewrites, nil
}

// Stats returns storage statistics.
func (e *BadgerEngine) Stats(ctx context.Context) (*KVStats, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	keys, err := e.Keys(ctx, nil)
	if err != nil {
		return nil, err
	}
	lsm, vlog := e.db.Size()

	return &KVStats{
		TotalKeys:    uint64(len(keys)),
		TotalSize:    uint64(lsm + vlog),
		LSMSize:      uint64(lsm),
		ValueLogSize: uint64(vlog),
		LastGCTime:   e.lastGCTime.Load(),
		GCRewrites:   e.gcRewrites.Load(),
	}, nil
}

// Dir returns the on-disk directory, empty for in-memory engines.
func (e *BadgerEngine) Dir() string {
	return e.dir
}

// Close stops the GC loop and closes the database. Safe to call twice.
func (e *BadgerEngine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.logger.Info("shutting down badger engine")
		e.closed.Store(true)

		close(e.stopCh)
		<-e.doneCh

		if cerr := e.db.Close(); cerr != nil {
			err = fmt.Errorf("close db: %w", cerr)
		}
	})
	return err
}

func (e *BadgerEngine) gcLoop(interval time.Duration) {
	defer close(e.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := e.GC(ctx); err != nil {
				e.logger.Error("auto gc failed", "error", err)
			}
			cancel()
		case <-e.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface. Badger's
// info output is chatty, so it is demoted to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
