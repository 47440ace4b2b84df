package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/appcore-go/internal/infra/confloader"
	"github.com/yndnr/appcore-go/internal/infra/shutdown"
	"github.com/yndnr/appcore-go/internal/prefs"
	"github.com/yndnr/appcore-go/internal/telemetry/logger"
	"github.com/yndnr/appcore-go/internal/telemetry/metric"
)

const shutdownTimeout = 10 * time.Second

// RunCommand returns the run command.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Start the app core and keep it running until interrupted",
		Action: runHost,
	}
}

// runHost performs the startup sequence the app shell depends on: storage
// open, preferences hydrated, dependencies bootstrapped. It then serves
// metrics and watches the config file until a signal arrives.
func runHost(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	log := env.Logger

	s, err := env.Storage()
	if err != nil {
		return err
	}
	if _, err := s.Handle().Engine(); err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	store := prefs.New(prefs.NewAdapter(s), prefs.WithLogger(log))

	reg, err := newRegistry(env)
	if err != nil {
		return err
	}
	if err := reg.Bootstrap(); err != nil {
		return err
	}

	h := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(log))
	h.OnShutdown("storage", func(context.Context) error {
		return env.Close()
	})

	if addr := env.Config.Metrics.Addr; addr != "" {
		env.Metrics.MustRegister(metric.NewEngineCollector(s.Handle().Stats))
		srv, err := serveMetrics(addr, env)
		if err != nil {
			return err
		}
		h.OnShutdown("metrics", srv.Shutdown)
	}

	if env.configFile != "" {
		w, err := confloader.NewWatcher(env.configFile, confloader.WithWatcherLogger(log))
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		w.OnChange(func(string) { env.reload() })
		w.StartAsync()
		h.OnShutdown("config-watcher", func(context.Context) error {
			return w.Stop()
		})
	}

	p := store.Preferences()
	log.Info("appcore ready",
		"namespace", s.Handle().Namespace(),
		"theme", p.Theme,
		"language", p.Language,
		"api_base_url", reg.MustAPIClient().BaseURL(),
	)

	if err := h.Wait(c.Context); err != nil {
		return err
	}
	log.Info("appcore stopped")
	return nil
}

func serveMetrics(addr string, env *Env) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", env.Metrics.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		env.Logger.Info("metrics listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			env.Logger.Error("metrics server error", "error", err)
		}
	}()
	return srv, nil
}

// reload re-reads the configuration and applies the log level. Other
// settings need a restart. Only the config watcher calls it.
func (e *Env) reload() {
	cfg, err := e.loadConfig()
	if err != nil {
		e.Logger.Warn("ignoring configuration change", "error", err)
		return
	}
	if cfg.Log.Level != e.Config.Log.Level {
		logger.SetLevel(cfg.Log.Level)
		e.Logger.Info("log level changed", "from", e.Config.Log.Level, "to", cfg.Log.Level)
	}
	e.Config.Log.Level = cfg.Log.Level
}
