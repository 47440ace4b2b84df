package storage

import (
	"encoding/json"
	"errors"
)

// DefaultNamespace scopes the engine's on-disk directory.
const DefaultNamespace = "app-storage"

var (
	// ErrKeyNotFound is returned by KVEngine.Get for missing keys.
	ErrKeyNotFound = errors.New("key not found")

	// ErrClosed is returned by a KVEngine after Close.
	ErrClosed = errors.New("kv engine closed")

	// ErrEmptyKey is returned when writing under an empty key.
	ErrEmptyKey = errors.New("storage: key must not be empty")
)

// Storage is typed key-value access over a single namespace.
//
// Getters report absence through their second result and never return
// errors. Setters replace whatever was stored under the key, regardless of
// its previous type.
type Storage interface {
	SetString(key, value string) error
	GetString(key string) (string, bool)

	SetNumber(key string, value float64) error
	GetNumber(key string) (float64, bool)

	SetBoolean(key string, value bool) error
	GetBoolean(key string) (bool, bool)

	// SetObject stores value as JSON text. Read it back with GetObject.
	SetObject(key string, value any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	Contains(key string) bool

	// AllKeys returns every stored key exactly once, in no particular order.
	AllKeys() []string

	// ClearAll removes every key in the namespace.
	ClearAll() error
}

// GetObject decodes the JSON object stored under key.
//
// It reports false when the key is missing, holds a non-string value, or
// holds text that does not decode into T.
func GetObject[T any](s Storage, key string) (T, bool) {
	var v T

	raw, ok := s.GetString(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// marshalObject is shared by the Storage implementations.
func marshalObject(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
