package prefs

import "github.com/yndnr/appcore-go/internal/storage"

// StateStorage is the string-level persistence contract a Store writes
// through. GetItem reports false when no snapshot exists.
type StateStorage interface {
	GetItem(name string) (string, bool)
	SetItem(name, value string) error
	RemoveItem(name string) error
}

// Adapter exposes a storage.Storage as a StateStorage.
type Adapter struct {
	store storage.Storage
}

var _ StateStorage = (*Adapter)(nil)

// NewAdapter wraps store.
func NewAdapter(store storage.Storage) *Adapter {
	return &Adapter{store: store}
}

// GetItem returns the snapshot stored under name.
func (a *Adapter) GetItem(name string) (string, bool) {
	return a.store.GetString(name)
}

// SetItem overwrites the snapshot stored under name.
func (a *Adapter) SetItem(name, value string) error {
	return a.store.SetString(name, value)
}

// RemoveItem deletes the snapshot. Removing a missing snapshot is not an error.
func (a *Adapter) RemoveItem(name string) error {
	return a.store.Delete(name)
}
