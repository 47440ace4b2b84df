package command

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/appcore-go/internal/cli/output"
	"github.com/yndnr/appcore-go/internal/prefs"
)

// PrefsCommand returns the prefs subcommand group.
func PrefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Show and change persisted preferences",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the preference record",
				Action: prefsShow,
			},
			{
				Name:      "theme",
				Usage:     "Set the theme (light, dark)",
				ArgsUsage: "THEME",
				Action:    prefsTheme,
			},
			{
				Name:      "language",
				Usage:     "Set the language (pt-BR, en-US)",
				ArgsUsage: "LANGUAGE",
				Action:    prefsLanguage,
			},
			{
				Name:      "onboarding",
				Usage:     "Mark onboarding as completed or not",
				ArgsUsage: "true|false",
				Action:    prefsOnboarding,
			},
			{
				Name:   "reset",
				Usage:  "Restore default preferences",
				Action: prefsReset,
			},
			{
				Name:   "clear",
				Usage:  "Remove the persisted preference record",
				Action: prefsClear,
			},
		},
	}
}

type stateView prefs.State

func (v stateView) Table() *output.Table {
	t := &output.Table{Headers: []string{"THEME", "LANGUAGE", "ONBOARDING"}}
	t.AddRow(string(v.Theme), string(v.Language), strconv.FormatBool(v.OnboardingCompleted))
	return t
}

func openPrefs(c *cli.Context) (*Env, *prefs.Store, error) {
	env, err := getEnv(c)
	if err != nil {
		return nil, nil, err
	}
	s, err := env.Storage()
	if err != nil {
		return nil, nil, err
	}
	return env, prefs.New(prefs.NewAdapter(s), prefs.WithLogger(env.Logger)), nil
}

func printState(env *Env, store *prefs.Store) error {
	return env.Print(stateView(store.State()))
}

func prefsShow(c *cli.Context) error {
	env, store, err := openPrefs(c)
	if err != nil {
		return err
	}
	return printState(env, store)
}

func prefsTheme(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	theme, err := prefs.ParseTheme(c.Args().First())
	if err != nil {
		return err
	}
	env, store, err := openPrefs(c)
	if err != nil {
		return err
	}
	if err := store.SetTheme(theme); err != nil {
		return err
	}
	return printState(env, store)
}

func prefsLanguage(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	lang, err := prefs.ParseLanguage(c.Args().First())
	if err != nil {
		return err
	}
	env, store, err := openPrefs(c)
	if err != nil {
		return err
	}
	if err := store.SetLanguage(lang); err != nil {
		return err
	}
	return printState(env, store)
}

func prefsOnboarding(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	done, err := strconv.ParseBool(c.Args().First())
	if err != nil {
		return err
	}
	env, store, err := openPrefs(c)
	if err != nil {
		return err
	}
	if err := store.SetOnboardingCompleted(done); err != nil {
		return err
	}
	return printState(env, store)
}

func prefsReset(c *cli.Context) error {
	env, store, err := openPrefs(c)
	if err != nil {
		return err
	}
	if err := store.Reset(); err != nil {
		return err
	}
	return printState(env, store)
}

func prefsClear(c *cli.Context) error {
	_, store, err := openPrefs(c)
	if err != nil {
		return err
	}
	return store.ClearStorage()
}
