package command

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/appcore-go/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Run commands interactively over one open store",
		Description: "Global flags given to shell apply to every command; flags typed at\n" +
			"the prompt only affect that command's own options.",
		Action: runShell,
	}
}

func runShell(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}

	history := repl.NewHistory(historyFile(env), repl.DefaultHistorySize)
	if err := history.Load(); err != nil {
		env.Logger.Warn("could not load shell history", "error", err)
	}

	exec := func(ctx context.Context, args []string) error {
		if args[0] == "shell" {
			return errors.New("already in a shell")
		}
		sub := App()
		sub.Writer = c.App.Writer
		sub.ErrWriter = c.App.ErrWriter
		sub.Metadata[envKey] = env
		sub.Metadata[sharedKey] = true
		sub.ExitErrHandler = func(*cli.Context, error) {}
		return sub.RunContext(ctx, append([]string{"appcore"}, args...))
	}

	r := repl.New(c.App.Reader, c.App.Writer, exec,
		repl.WithPrompt("appcore> "),
		repl.WithHistory(history),
	)
	if err := r.Run(c.Context); err != nil {
		return err
	}

	if err := history.Save(); err != nil {
		env.Logger.Warn("could not save shell history", "error", err)
	}
	return nil
}

func historyFile(env *Env) string {
	if env.Config.Storage.InMemory || env.Config.Storage.DataDir == "" {
		return ""
	}
	return filepath.Join(env.Config.Storage.DataDir, "shell_history")
}
