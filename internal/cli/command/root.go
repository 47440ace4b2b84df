package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/appcore-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "appcore",
		Usage:   "Local storage, preferences and bootstrap for the app core",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			KVCommand(),
			PrefsCommand(),
			BootstrapCommand(),
			RunCommand(),
			ShellCommand(),
			VersionCommand(),
		},
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			if c.Args().First() == "version" {
				return nil
			}
			if _, shared := c.App.Metadata[envKey]; shared {
				return nil
			}
			env, err := newEnv(c)
			if err != nil {
				return err
			}
			c.App.Metadata[envKey] = env
			return nil
		},
		After: func(c *cli.Context) error {
			env, ok := c.App.Metadata[envKey].(*Env)
			if !ok || c.App.Metadata[sharedKey] == true {
				return nil
			}
			if err := env.Close(); err != nil {
				return fmt.Errorf("close storage: %w", err)
			}
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"APPCORE_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Storage data directory",
		},
		&cli.BoolFlag{
			Name:  "in-memory",
			Usage: "Keep storage in memory (nothing is persisted)",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "API base URL",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}
