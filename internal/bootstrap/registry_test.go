package bootstrap

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/yndnr/appcore-go/internal/apiclient"
	"github.com/yndnr/appcore-go/internal/storage"
)

func countingFactory(n *atomic.Int32) apiclient.Factory {
	return func(s storage.Storage, url string) (*apiclient.Client, error) {
		n.Add(1)
		return apiclient.New(s, url)
	}
}

func TestRegistry_AccessBeforeBootstrap(t *testing.T) {
	r := New(storage.NewMemoryStore(), "http://localhost:3000")

	if r.Initialized() {
		t.Error("new registry should be uninitialized")
	}
	if _, err := r.APIClient(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("APIClient() error = %v, want ErrNotInitialized", err)
	}
	if r.Storage() == nil {
		t.Error("Storage() should be available before Bootstrap")
	}

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrNotInitialized) {
			t.Errorf("MustAPIClient() panic = %v, want ErrNotInitialized", rec)
		}
	}()
	r.MustAPIClient()
}

func TestRegistry_BootstrapOnce(t *testing.T) {
	var built atomic.Int32
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	store := storage.NewMemoryStore()
	r := New(store, "api.local", WithClientFactory(countingFactory(&built)), WithLogger(logger))

	if err := r.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	first, err := r.APIClient()
	if err != nil {
		t.Fatal(err)
	}
	if first.BaseURL() != "http://api.local" {
		t.Errorf("BaseURL() = %q", first.BaseURL())
	}

	if err := r.Bootstrap(); err != nil {
		t.Fatalf("second Bootstrap() error = %v", err)
	}
	second := r.MustAPIClient()

	if first != second {
		t.Error("client should be identical across Bootstrap calls")
	}
	if built.Load() != 1 {
		t.Errorf("factory called %d times, want 1", built.Load())
	}
	if !strings.Contains(logs.String(), "app already initialized") {
		t.Errorf("expected re-initialization warning, logs:\n%s", logs.String())
	}
	if r.Storage() != storage.Storage(store) {
		t.Error("Storage() should return the injected store")
	}
}

func TestRegistry_ConcurrentBootstrap(t *testing.T) {
	var built atomic.Int32
	r := New(storage.NewMemoryStore(), "api.local",
		WithClientFactory(countingFactory(&built)),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Bootstrap(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if built.Load() != 1 {
		t.Errorf("factory called %d times, want 1", built.Load())
	}
}

func TestRegistry_FailedBootstrap(t *testing.T) {
	r := New(storage.NewMemoryStore(), "")

	if err := r.Bootstrap(); !errors.Is(err, apiclient.ErrEmptyBaseURL) {
		t.Fatalf("Bootstrap() error = %v, want ErrEmptyBaseURL", err)
	}
	if r.Initialized() {
		t.Error("failed Bootstrap must leave the registry uninitialized")
	}
	if _, err := r.APIClient(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("APIClient() error = %v, want ErrNotInitialized", err)
	}
}

type bootstrapCounter struct{ n int }

func (b *bootstrapCounter) RecordBootstrap() { b.n++ }

func TestRegistry_Recorder(t *testing.T) {
	rec := &bootstrapCounter{}
	r := New(storage.NewMemoryStore(), "api.local", WithRecorder(rec),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	r.Bootstrap()
	r.Bootstrap()

	if rec.n != 1 {
		t.Errorf("RecordBootstrap called %d times, want 1", rec.n)
	}
}
