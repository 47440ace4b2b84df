package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yndnr/appcore-go/pkg/crypto/adaptive"
)

// Operation results reported to a Recorder.
const (
	ResultOK    = "ok"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Recorder receives one call per storage operation.
type Recorder interface {
	RecordStorageOp(op, result string)
}

// KVStoreOption configures a KVStore.
type KVStoreOption func(*KVStore)

// WithCipher seals every stored value. The key name is bound as additional
// data, so a value copied under another key will not open.
func WithCipher(c adaptive.Cipher) KVStoreOption {
	return func(s *KVStore) {
		s.cipher = c
	}
}

// WithRecorder reports operation outcomes to r.
func WithRecorder(r Recorder) KVStoreOption {
	return func(s *KVStore) {
		s.recorder = r
	}
}

// WithLogger sets the logger used for swallowed read faults.
func WithLogger(logger *slog.Logger) KVStoreOption {
	return func(s *KVStore) {
		s.logger = logger
	}
}

// KVStore implements Storage on the engine owned by a Handle.
type KVStore struct {
	handle   *Handle
	cipher   adaptive.Cipher
	recorder Recorder
	logger   *slog.Logger
}

var _ Storage = (*KVStore)(nil)

// NewKVStore creates a store over h. The engine opens on first access.
func NewKVStore(h *Handle, opts ...KVStoreOption) *KVStore {
	s := &KVStore{
		handle: h,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns the underlying engine handle.
func (s *KVStore) Handle() *Handle {
	return s.handle
}

func (s *KVStore) SetString(key, value string) error {
	return s.write("set_string", key, encodeString(value))
}

func (s *KVStore) GetString(key string) (string, bool) {
	raw, ok := s.read("get_string", key)
	if !ok {
		return "", false
	}
	return decodeString(raw)
}

func (s *KVStore) SetNumber(key string, value float64) error {
	return s.write("set_number", key, encodeNumber(value))
}

func (s *KVStore) GetNumber(key string) (float64, bool) {
	raw, ok := s.read("get_number", key)
	if !ok {
		return 0, false
	}
	return decodeNumber(raw)
}

func (s *KVStore) SetBoolean(key string, value bool) error {
	return s.write("set_boolean", key, encodeBool(value))
}

func (s *KVStore) GetBoolean(key string) (bool, bool) {
	raw, ok := s.read("get_boolean", key)
	if !ok {
		return false, false
	}
	return decodeBool(raw)
}

func (s *KVStore) SetObject(key string, value any) error {
	text, err := marshalObject(value)
	if err != nil {
		s.record("set_object", ResultError)
		return err
	}
	return s.write("set_object", key, encodeString(text))
}

func (s *KVStore) Delete(key string) error {
	e, err := s.handle.Engine()
	if err != nil {
		s.record("delete", ResultError)
		return err
	}
	if err := e.Delete(context.Background(), []byte(key)); err != nil {
		s.record("delete", ResultError)
		return err
	}
	s.record("delete", ResultOK)
	return nil
}

func (s *KVStore) Contains(key string) bool {
	e, err := s.handle.Engine()
	if err != nil {
		s.readFault("contains", key, err)
		return false
	}
	found, err := e.Has(context.Background(), []byte(key))
	if err != nil {
		s.readFault("contains", key, err)
		return false
	}
	if found {
		s.record("contains", ResultOK)
	} else {
		s.record("contains", ResultMiss)
	}
	return found
}

func (s *KVStore) AllKeys() []string {
	e, err := s.handle.Engine()
	if err != nil {
		s.readFault("all_keys", "", err)
		return []string{}
	}
	keys, err := e.Keys(context.Background(), nil)
	if err != nil {
		s.readFault("all_keys", "", err)
		return []string{}
	}
	s.record("all_keys", ResultOK)
	if keys == nil {
		keys = []string{}
	}
	return keys
}

func (s *KVStore) ClearAll() error {
	e, err := s.handle.Engine()
	if err != nil {
		s.record("clear_all", ResultError)
		return err
	}
	if err := e.DropAll(context.Background()); err != nil {
		s.record("clear_all", ResultError)
		return err
	}
	s.record("clear_all", ResultOK)
	return nil
}

func (s *KVStore) write(op, key string, value []byte) error {
	if key == "" {
		s.record(op, ResultError)
		return ErrEmptyKey
	}

	e, err := s.handle.Engine()
	if err != nil {
		s.record(op, ResultError)
		return err
	}

	if s.cipher != nil {
		value, err = s.cipher.Encrypt(value, []byte(key))
		if err != nil {
			s.record(op, ResultError)
			return err
		}
	}

	if err := e.Set(context.Background(), []byte(key), value); err != nil {
		s.record(op, ResultError)
		return err
	}
	s.record(op, ResultOK)
	return nil
}

// read returns the decrypted, still tagged value. Every failure is reported
// as absent.
func (s *KVStore) read(op, key string) ([]byte, bool) {
	if key == "" {
		s.record(op, ResultMiss)
		return nil, false
	}

	e, err := s.handle.Engine()
	if err != nil {
		s.readFault(op, key, err)
		return nil, false
	}

	raw, err := e.Get(context.Background(), []byte(key))
	if errors.Is(err, ErrKeyNotFound) {
		s.record(op, ResultMiss)
		return nil, false
	}
	if err != nil {
		s.readFault(op, key, err)
		return nil, false
	}

	if s.cipher != nil {
		raw, err = s.cipher.Decrypt(raw, []byte(key))
		if err != nil {
			s.readFault(op, key, err)
			return nil, false
		}
	}

	s.record(op, ResultOK)
	return raw, true
}

func (s *KVStore) readFault(op, key string, err error) {
	s.record(op, ResultError)
	s.logger.Warn("storage read failed, treating as absent",
		"op", op,
		"storage_key", key,
		"error", err)
}

func (s *KVStore) record(op, result string) {
	if s.recorder != nil {
		s.recorder.RecordStorageOp(op, result)
	}
}
