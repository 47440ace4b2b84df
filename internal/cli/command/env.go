package command

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/appcore-go/internal/cli/output"
	"github.com/yndnr/appcore-go/internal/config"
	"github.com/yndnr/appcore-go/internal/infra/confloader"
	"github.com/yndnr/appcore-go/internal/storage"
	"github.com/yndnr/appcore-go/internal/telemetry/logger"
	"github.com/yndnr/appcore-go/internal/telemetry/metric"
)

const (
	envKey = "env"

	// sharedKey marks an app run inside the shell, which must not close the
	// shell's storage.
	sharedKey = "shared"
)

// Env is the per-invocation dependency set.
type Env struct {
	Config  *config.AppConfig
	Logger  *slog.Logger
	Metrics *metric.Registry

	configFile string
	overrides  map[string]any
	format     output.Format
	out        io.Writer

	mu     sync.Mutex
	handle *storage.Handle
	store  *storage.KVStore
}

func newEnv(c *cli.Context) (*Env, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}

	env := &Env{
		configFile: c.String("config"),
		overrides:  flagOverrides(c),
		format:     format,
		out:        c.App.Writer,
	}

	cfg, err := env.loadConfig()
	if err != nil {
		return nil, err
	}
	env.Config = cfg

	lc := cfg.LoggerConfig()
	lc.Output = c.App.ErrWriter
	env.Logger = logger.New(lc)
	logger.SetDefault(env.Logger)

	env.Metrics = metric.NewRegistry()
	return env, nil
}

// flagOverrides maps explicitly set global flags onto configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("data-dir") {
		m["storage.data_dir"] = c.String("data-dir")
	}
	if c.IsSet("in-memory") {
		m["storage.in_memory"] = c.Bool("in-memory")
	}
	if c.IsSet("log-level") {
		m["log.level"] = c.String("log-level")
	}
	if c.IsSet("base-url") {
		m["api.base_url"] = c.String("base-url")
	}
	return m
}

// loadConfig reads defaults, file, environment and flags, in that order of
// increasing priority.
func (e *Env) loadConfig() (*config.AppConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(e.overrides)}
	if e.configFile != "" {
		opts = append(opts, confloader.WithConfigFile(e.configFile))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Storage returns the process-wide store, building it on first use.
// The engine itself opens lazily on the first operation.
func (e *Env) Storage() (*storage.KVStore, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store != nil {
		return e.store, nil
	}

	cipher, err := e.Config.Cipher()
	if err != nil {
		return nil, err
	}

	e.handle = storage.NewHandle(e.Config.KVConfig(), storage.WithHandleLogger(e.Logger))
	opts := []storage.KVStoreOption{
		storage.WithLogger(e.Logger),
		storage.WithRecorder(e.Metrics),
	}
	if cipher != nil {
		opts = append(opts, storage.WithCipher(cipher))
	}
	e.store = storage.NewKVStore(e.handle, opts...)
	return e.store, nil
}

// Engine returns the opened engine behind Storage.
func (e *Env) Engine() (storage.KVEngine, error) {
	s, err := e.Storage()
	if err != nil {
		return nil, err
	}
	return s.Handle().Engine()
}

// Close releases the storage handle if one was built.
func (e *Env) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle == nil {
		return nil
	}
	return e.handle.Close()
}

// Print writes data in the selected output format.
func (e *Env) Print(data any) error {
	return output.NewFormatter(e.format).Format(e.out, data)
}

func getEnv(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env, nil
	}
	return nil, fmt.Errorf("command environment not initialized")
}
