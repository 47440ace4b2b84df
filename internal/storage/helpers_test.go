package storage

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newMemHandle returns a handle over an in-memory Badger engine.
func newMemHandle(t *testing.T, opts ...HandleOption) *Handle {
	t.Helper()

	cfg := DefaultKVConfig("")
	cfg.InMemory = true
	opts = append([]HandleOption{WithHandleLogger(discardLogger())}, opts...)

	h := NewHandle(cfg, opts...)
	t.Cleanup(func() { h.Close() })
	return h
}

// newDiskConfig returns a config rooted at a fresh temp dir with GC disabled.
func newDiskConfig(t *testing.T) KVConfig {
	t.Helper()

	cfg := DefaultKVConfig(t.TempDir())
	cfg.Badger.GCInterval = 0
	return cfg
}
