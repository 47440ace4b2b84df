package config

import (
	"crypto/tls"

	"github.com/yndnr/appcore-go/internal/infra/tlsroots"
	"github.com/yndnr/appcore-go/internal/storage"
	"github.com/yndnr/appcore-go/internal/telemetry/logger"
	"github.com/yndnr/appcore-go/pkg/crypto/adaptive"
)

// KVConfig returns the engine configuration for the storage section.
func (c *AppConfig) KVConfig() storage.KVConfig {
	kv := storage.DefaultKVConfig(c.Storage.DataDir)
	if c.Storage.Namespace != "" {
		kv.Namespace = c.Storage.Namespace
	}
	kv.InMemory = c.Storage.InMemory
	if kv.InMemory {
		kv.Dir = ""
	}
	kv.Badger.SyncWrites = c.Storage.SyncWrites
	kv.Badger.GCInterval = c.Storage.GCInterval
	return kv
}

// Cipher returns the value cipher, or nil when no key is configured.
// 32 byte keys use the architecture's preferred AEAD; shorter keys use AES-GCM.
func (c *AppConfig) Cipher() (adaptive.Cipher, error) {
	if c.Storage.EncryptionKey == "" {
		return nil, nil
	}
	key, err := decodeKey(c.Storage.EncryptionKey)
	if err != nil {
		return nil, err
	}
	if len(key) == 32 {
		return adaptive.New(key)
	}
	return adaptive.NewWithType(key, adaptive.CipherAESGCM)
}

// LoggerConfig returns the logger configuration for the log section.
func (c *AppConfig) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	return lc
}

// TLSConfig returns the API client TLS settings, or nil for the defaults.
func (c *AppConfig) TLSConfig() (*tls.Config, error) {
	return tlsroots.ClientConfig(c.API.CAFile)
}
