package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/yndnr/appcore-go/internal/telemetry/logger"
)

var (
	ErrBaseURLRequired   = errors.New("api.base_url is required")
	ErrDataDirRequired   = errors.New("storage.data_dir is required unless storage.in_memory is set")
	ErrInvalidKey        = errors.New("storage.encryption_key must be hex encoding 16, 24 or 32 bytes")
	ErrInvalidLogLevel   = errors.New("log.level must be one of debug, info, warn, error")
	ErrInvalidLogFormat  = errors.New("log.format must be text or json")
	ErrInvalidGCInterval = errors.New("storage.gc_interval must not be negative")
)

// Verify validates the configuration.
func Verify(cfg *AppConfig) error {
	if cfg.API.BaseURL == "" {
		return ErrBaseURLRequired
	}
	if cfg.API.CAFile != "" {
		if _, err := os.Stat(cfg.API.CAFile); err != nil {
			return fmt.Errorf("api.ca_file: %w", err)
		}
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return fmt.Errorf("metrics.addr: %w", err)
		}
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if !cfg.InMemory && cfg.DataDir == "" {
		return ErrDataDirRequired
	}
	if cfg.GCInterval < 0 {
		return ErrInvalidGCInterval
	}
	if cfg.EncryptionKey != "" {
		if _, err := decodeKey(cfg.EncryptionKey); err != nil {
			return err
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Format)
	}
	return nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	default:
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(key))
	}
}
