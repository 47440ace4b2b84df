package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// OpenFunc opens a KVEngine for cfg.
type OpenFunc func(cfg KVConfig, logger *slog.Logger) (KVEngine, error)

// HandleOption configures a Handle.
type HandleOption func(*Handle)

// WithOpener replaces the engine constructor. The default opens Badger.
func WithOpener(open OpenFunc) HandleOption {
	return func(h *Handle) {
		h.open = open
	}
}

// WithHandleLogger sets the logger passed to the engine.
func WithHandleLogger(logger *slog.Logger) HandleOption {
	return func(h *Handle) {
		h.logger = logger
	}
}

// Handle owns the single engine for one namespace.
//
// The engine is opened on the first Engine call and every later call returns
// the same instance. Configuration is captured by NewHandle and cannot change
// afterwards. Build one Handle at process start and share it.
type Handle struct {
	cfg    KVConfig
	open   OpenFunc
	logger *slog.Logger

	mu     sync.Mutex
	engine KVEngine
	opened int
}

// NewHandle creates a handle for cfg. Nothing is opened yet.
func NewHandle(cfg KVConfig, opts ...HandleOption) *Handle {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}

	h := &Handle{
		cfg:    cfg,
		open:   openBadger,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func openBadger(cfg KVConfig, logger *slog.Logger) (KVEngine, error) {
	e, err := NewBadgerEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Engine returns the live engine, opening it on first use.
func (h *Handle) Engine() (KVEngine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine != nil {
		return h.engine, nil
	}

	e, err := h.open(h.cfg, h.logger)
	if err != nil {
		return nil, fmt.Errorf("open storage namespace %q: %w", h.cfg.Namespace, err)
	}
	h.engine = e
	h.opened++
	return e, nil
}

// Current returns the engine if it is open, without opening it.
func (h *Handle) Current() KVEngine {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine
}

// Namespace returns the namespace id the handle is bound to.
func (h *Handle) Namespace() string {
	return h.cfg.Namespace
}

// Opened returns how many engines this handle has created.
func (h *Handle) Opened() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opened
}

// Close closes the engine if open. The next Engine call opens a new one,
// which gives tests a clean reopen over the same directory.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine == nil {
		return nil
	}
	err := h.engine.Close()
	h.engine = nil
	return err
}

// Stats returns engine statistics, or nil if the engine is not open.
func (h *Handle) Stats(ctx context.Context) (*KVStats, error) {
	e := h.Current()
	if e == nil {
		return nil, nil
	}
	return e.Stats(ctx)
}
