package storage

import (
	"github.com/yndnr/appcore-go/pkg/cmap"
)

// MemoryStore is an in-process Storage. It applies the same typing and
// absence rules as KVStore and is meant for tests and ephemeral runs.
type MemoryStore struct {
	items *cmap.Map[string, []byte]
}

var _ Storage = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cmap.New[string, []byte]()}
}

func (m *MemoryStore) SetString(key, value string) error {
	return m.set(key, encodeString(value))
}

func (m *MemoryStore) GetString(key string) (string, bool) {
	raw, ok := m.items.Get(key)
	if !ok {
		return "", false
	}
	return decodeString(raw)
}

func (m *MemoryStore) SetNumber(key string, value float64) error {
	return m.set(key, encodeNumber(value))
}

func (m *MemoryStore) GetNumber(key string) (float64, bool) {
	raw, ok := m.items.Get(key)
	if !ok {
		return 0, false
	}
	return decodeNumber(raw)
}

func (m *MemoryStore) SetBoolean(key string, value bool) error {
	return m.set(key, encodeBool(value))
}

func (m *MemoryStore) GetBoolean(key string) (bool, bool) {
	raw, ok := m.items.Get(key)
	if !ok {
		return false, false
	}
	return decodeBool(raw)
}

func (m *MemoryStore) SetObject(key string, value any) error {
	text, err := marshalObject(value)
	if err != nil {
		return err
	}
	return m.set(key, encodeString(text))
}

func (m *MemoryStore) Delete(key string) error {
	m.items.Delete(key)
	return nil
}

func (m *MemoryStore) Contains(key string) bool {
	return m.items.Has(key)
}

func (m *MemoryStore) AllKeys() []string {
	return m.items.Keys()
}

func (m *MemoryStore) ClearAll() error {
	m.items.Clear()
	return nil
}

func (m *MemoryStore) set(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.items.Set(key, value)
	return nil
}
