package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/appcore-go/internal/storage"
)

// Default returns the configuration used when no source overrides a value.
func Default() *AppConfig {
	return &AppConfig{
		API: APISection{
			BaseURL: "http://localhost:3000",
		},
		Storage: StorageSection{
			DataDir:    defaultDataDir(),
			Namespace:  storage.DefaultNamespace,
			SyncWrites: true,
			GCInterval: 10 * time.Minute,
		},
		Log: LogSection{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "appcore")
	}
	return ".appcore"
}
