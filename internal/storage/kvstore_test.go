package storage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/yndnr/appcore-go/pkg/crypto/adaptive"
)

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordStorageOp(op, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[op+"/"+result]++
}

func (r *countingRecorder) get(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}

func TestKVStore_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	s := NewKVStore(newMemHandle(t), WithRecorder(rec), WithLogger(discardLogger()))

	if err := s.SetString("k", "v"); err != nil {
		t.Fatal(err)
	}
	s.GetString("k")
	s.GetString("missing")
	if err := s.SetString("", "v"); err == nil {
		t.Fatal("expected ErrEmptyKey")
	}

	checks := map[string]int{
		"set_string/ok":    1,
		"get_string/ok":    1,
		"get_string/miss":  1,
		"set_string/error": 1,
	}
	for key, want := range checks {
		if got := rec.get(key); got != want {
			t.Errorf("%s = %d, want %d", key, got, want)
		}
	}
}

func TestKVStore_SealedValues(t *testing.T) {
	key := make([]byte, 32)
	c, err := adaptive.New(key)
	if err != nil {
		t.Fatal(err)
	}

	h := newMemHandle(t)
	s := NewKVStore(h, WithCipher(c), WithLogger(discardLogger()))
	ctx := context.Background()

	if err := s.SetString("a", "secret"); err != nil {
		t.Fatal(err)
	}

	engine, err := h.Engine()
	if err != nil {
		t.Fatal(err)
	}
	raw, err := engine.Get(ctx, []byte("a"))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) == string(encodeString("secret")) {
		t.Fatal("value should be sealed at rest")
	}

	t.Run("moved value does not open", func(t *testing.T) {
		if err := engine.Set(ctx, []byte("b"), raw); err != nil {
			t.Fatal(err)
		}
		if _, ok := s.GetString("b"); ok {
			t.Error("value copied under another key should read absent")
		}
		if !s.Contains("b") {
			t.Error("Contains should still see the raw key")
		}
	})

	t.Run("tampered value reads absent", func(t *testing.T) {
		bad := append([]byte(nil), raw...)
		bad[len(bad)-1] ^= 0x01
		if err := engine.Set(ctx, []byte("a"), bad); err != nil {
			t.Fatal(err)
		}
		if _, ok := s.GetString("a"); ok {
			t.Error("tampered value should read absent")
		}
	})
}

func TestKVStore_EngineUnavailable(t *testing.T) {
	boom := errors.New("no engine")
	h := NewHandle(KVConfig{InMemory: true}, WithOpener(func(KVConfig, *slog.Logger) (KVEngine, error) {
		return nil, boom
	}))
	s := NewKVStore(h, WithLogger(discardLogger()))

	if err := s.SetString("k", "v"); !errors.Is(err, boom) {
		t.Errorf("SetString() error = %v, want %v", err, boom)
	}
	if err := s.Delete("k"); !errors.Is(err, boom) {
		t.Errorf("Delete() error = %v, want %v", err, boom)
	}
	if err := s.ClearAll(); !errors.Is(err, boom) {
		t.Errorf("ClearAll() error = %v, want %v", err, boom)
	}
	if _, ok := s.GetString("k"); ok {
		t.Error("GetString() should report absent")
	}
	if s.Contains("k") {
		t.Error("Contains() should be false")
	}
	if keys := s.AllKeys(); len(keys) != 0 {
		t.Errorf("AllKeys() = %v, want empty", keys)
	}
}

func TestKVStore_DurableAcrossRestart(t *testing.T) {
	cfg := newDiskConfig(t)

	first := NewHandle(cfg, WithHandleLogger(discardLogger()))
	s := NewKVStore(first)
	if err := s.SetNumber("launches", 3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetObject("profile", profile{Name: "rui"}); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := NewHandle(cfg, WithHandleLogger(discardLogger()))
	defer second.Close()
	restarted := NewKVStore(second)

	if n, ok := restarted.GetNumber("launches"); !ok || n != 3 {
		t.Errorf("GetNumber() = (%v, %v), want (3, true)", n, ok)
	}
	if p, ok := GetObject[profile](restarted, "profile"); !ok || p.Name != "rui" {
		t.Errorf("GetObject() = (%+v, %v)", p, ok)
	}
}
