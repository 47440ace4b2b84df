package config

import "time"

// AppConfig is the root configuration for appcore.
type AppConfig struct {
	API     APISection     `koanf:"api" json:"api" yaml:"api"`
	Storage StorageSection `koanf:"storage" json:"storage" yaml:"storage"`
	Log     LogSection     `koanf:"log" json:"log" yaml:"log"`
	Metrics MetricsSection `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// APISection configures the remote API client.
type APISection struct {
	BaseURL string `koanf:"base_url" json:"base_url" yaml:"base_url"`

	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string `koanf:"ca_file" json:"ca_file" yaml:"ca_file"`
}

// StorageSection configures the local key-value store.
type StorageSection struct {
	DataDir    string        `koanf:"data_dir" json:"data_dir" yaml:"data_dir"`
	Namespace  string        `koanf:"namespace" json:"namespace" yaml:"namespace"`
	InMemory   bool          `koanf:"in_memory" json:"in_memory" yaml:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes" json:"sync_writes" yaml:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval" json:"gc_interval" yaml:"gc_interval"`

	// EncryptionKey is a hex encoded AES key (16, 24 or 32 bytes). Empty
	// stores values in the clear.
	EncryptionKey string `koanf:"encryption_key" json:"encryption_key" yaml:"encryption_key"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}

// MetricsSection configures the Prometheus endpoint. An empty Addr disables it.
type MetricsSection struct {
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`
}
