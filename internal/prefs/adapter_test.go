package prefs

import (
	"testing"

	"github.com/yndnr/appcore-go/internal/storage"
)

func TestAdapter_RoundTrip(t *testing.T) {
	a := NewAdapter(storage.NewMemoryStore())

	if _, ok := a.GetItem("k"); ok {
		t.Fatal("GetItem() on empty storage should report no snapshot")
	}

	if err := a.SetItem("k", "v"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	if got, ok := a.GetItem("k"); !ok || got != "v" {
		t.Errorf("GetItem() = %q, %v; want \"v\", true", got, ok)
	}

	if err := a.SetItem("k", "w"); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.GetItem("k"); got != "w" {
		t.Errorf("GetItem() after overwrite = %q, want \"w\"", got)
	}

	if err := a.RemoveItem("k"); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if _, ok := a.GetItem("k"); ok {
		t.Error("GetItem() after RemoveItem should report no snapshot")
	}
	if err := a.RemoveItem("k"); err != nil {
		t.Errorf("RemoveItem() on missing key error = %v", err)
	}
}

func TestAdapter_SharesStorageNamespace(t *testing.T) {
	s := storage.NewMemoryStore()
	a := NewAdapter(s)

	if err := a.SetItem(StorageKey, `{"state":{},"version":0}`); err != nil {
		t.Fatal(err)
	}
	if !s.Contains(StorageKey) {
		t.Error("snapshot should be visible through the underlying storage")
	}
}
