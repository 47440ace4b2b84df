package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/appcore-go/internal/apiclient"
	"github.com/yndnr/appcore-go/internal/bootstrap"
	"github.com/yndnr/appcore-go/internal/storage"
	"github.com/yndnr/appcore-go/internal/telemetry/logger"
)

// BootstrapCommand returns the bootstrap command.
func BootstrapCommand() *cli.Command {
	return &cli.Command{
		Name:  "bootstrap",
		Usage: "Initialize the app dependencies and print the API client settings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "token",
				Usage: "Store an API bearer token",
			},
			&cli.StringFlag{
				Name:  "ping",
				Usage: "GET this path with the bootstrapped client",
			},
		},
		Action: runBootstrap,
	}
}

// newRegistry builds the registry over the env's storage, with API client
// metrics wired to the env's registry.
func newRegistry(env *Env) (*bootstrap.Registry, error) {
	s, err := env.Storage()
	if err != nil {
		return nil, err
	}

	tlsCfg, err := env.Config.TLSConfig()
	if err != nil {
		return nil, err
	}

	factory := func(st storage.Storage, baseURL string) (*apiclient.Client, error) {
		return apiclient.New(st, baseURL,
			apiclient.WithRecorder(env.Metrics),
			apiclient.WithTLSConfig(tlsCfg),
		)
	}
	return bootstrap.New(s, env.Config.API.BaseURL,
		bootstrap.WithLogger(env.Logger),
		bootstrap.WithClientFactory(factory),
		bootstrap.WithRecorder(env.Metrics),
	), nil
}

type bootstrapView struct {
	BaseURL    string `json:"base_url" yaml:"base_url"`
	Namespace  string `json:"namespace" yaml:"namespace"`
	PingStatus int    `json:"ping_status,omitempty" yaml:"ping_status,omitempty"`
}

func runBootstrap(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	reg, err := newRegistry(env)
	if err != nil {
		return err
	}

	if err := reg.Bootstrap(); err != nil {
		return err
	}
	client, err := reg.APIClient()
	if err != nil {
		return err
	}
	if token := c.String("token"); token != "" {
		if err := client.SetToken(token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
	}

	view := bootstrapView{
		BaseURL:   client.BaseURL(),
		Namespace: env.Config.KVConfig().Namespace,
	}

	if path := c.String("ping"); path != "" {
		ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
		defer cancel()
		ctx = logger.WithLogger(ctx, env.Logger.With("command", "bootstrap"))

		resp, err := client.Get(ctx, path)
		if err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		view.PingStatus = resp.StatusCode
		if err := apiclient.ParseResponse(resp, nil); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
	}

	return env.Print(view)
}
