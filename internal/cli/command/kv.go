package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/appcore-go/internal/cli/output"
	"github.com/yndnr/appcore-go/internal/storage"
)

// Value types accepted by kv get/set.
const (
	typeAuto   = "auto"
	typeString = "string"
	typeNumber = "number"
	typeBool   = "bool"
	typeJSON   = "json"
)

// KVCommand returns the kv subcommand group.
func KVCommand() *cli.Command {
	typeFlag := func(def string) cli.Flag {
		return &cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Value type: string, number, bool, json",
			Value:   def,
		}
	}

	return &cli.Command{
		Name:  "kv",
		Usage: "Read and write raw storage keys",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print the value stored under KEY",
				ArgsUsage: "KEY",
				Flags:     []cli.Flag{typeFlag(typeAuto)},
				Action:    kvGet,
			},
			{
				Name:      "set",
				Usage:     "Store VALUE under KEY",
				ArgsUsage: "KEY VALUE",
				Flags:     []cli.Flag{typeFlag(typeString)},
				Action:    kvSet,
			},
			{
				Name:      "del",
				Aliases:   []string{"delete", "rm"},
				Usage:     "Delete KEY",
				ArgsUsage: "KEY",
				Action:    kvDel,
			},
			{
				Name:      "has",
				Usage:     "Report whether KEY exists",
				ArgsUsage: "KEY",
				Action:    kvHas,
			},
			{
				Name:  "keys",
				Usage: "List stored keys",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "Only keys starting with prefix"},
				},
				Action: kvKeys,
			},
			{
				Name:  "clear",
				Usage: "Delete every key in the namespace",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm"},
				},
				Action: kvClear,
			},
			{
				Name:      "backup",
				Usage:     "Write a full backup of the namespace to FILE",
				ArgsUsage: "FILE",
				Action:    kvBackup,
			},
			{
				Name:      "restore",
				Usage:     "Replace the namespace with the backup in FILE",
				ArgsUsage: "FILE",
				Action:    kvRestore,
			},
			{
				Name:   "stats",
				Usage:  "Show engine statistics",
				Action: kvStats,
			},
			{
				Name:   "gc",
				Usage:  "Run value log garbage collection",
				Action: kvGC,
			},
		},
	}
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("expected %d argument(s), got %d\nusage: %s %s",
			n, c.NArg(), c.Command.HelpName, c.Command.ArgsUsage)
	}
	return nil
}

func kvGet(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	s, err := env.Storage()
	if err != nil {
		return err
	}

	key := c.Args().First()
	value, ok, err := readValue(s, key, c.String("type"))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrKeyNotFound, key)
	}
	return env.Print(value)
}

// readValue reads key as typ. Auto tries string, number then bool.
func readValue(s storage.Storage, key, typ string) (any, bool, error) {
	switch typ {
	case typeString:
		v, ok := s.GetString(key)
		return v, ok, nil
	case typeNumber:
		v, ok := s.GetNumber(key)
		return v, ok, nil
	case typeBool:
		v, ok := s.GetBoolean(key)
		return v, ok, nil
	case typeJSON:
		v, ok := storage.GetObject[any](s, key)
		return v, ok, nil
	case typeAuto, "":
		if v, ok := s.GetString(key); ok {
			return v, true, nil
		}
		if v, ok := s.GetNumber(key); ok {
			return v, true, nil
		}
		if v, ok := s.GetBoolean(key); ok {
			return v, true, nil
		}
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("unknown value type %q", typ)
	}
}

func kvSet(c *cli.Context) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	s, err := env.Storage()
	if err != nil {
		return err
	}

	key, raw := c.Args().Get(0), c.Args().Get(1)
	switch typ := c.String("type"); typ {
	case typeString:
		err = s.SetString(key, raw)
	case typeNumber:
		f, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			return fmt.Errorf("parse number: %w", perr)
		}
		err = s.SetNumber(key, f)
	case typeBool:
		b, perr := strconv.ParseBool(raw)
		if perr != nil {
			return fmt.Errorf("parse bool: %w", perr)
		}
		err = s.SetBoolean(key, b)
	case typeJSON:
		var v any
		if perr := json.Unmarshal([]byte(raw), &v); perr != nil {
			return fmt.Errorf("parse json: %w", perr)
		}
		err = s.SetObject(key, v)
	default:
		return fmt.Errorf("unknown value type %q", typ)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func kvDel(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	s, err := env.Storage()
	if err != nil {
		return err
	}
	return s.Delete(c.Args().First())
}

func kvHas(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	s, err := env.Storage()
	if err != nil {
		return err
	}
	return env.Print(s.Contains(c.Args().First()))
}

func kvKeys(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	s, err := env.Storage()
	if err != nil {
		return err
	}

	prefix := c.String("prefix")
	keys := make([]string, 0)
	for _, k := range s.AllKeys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return env.Print(keys)
}

func kvClear(c *cli.Context) error {
	if !c.Bool("yes") {
		return errors.New("refusing to clear storage without --yes")
	}
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	s, err := env.Storage()
	if err != nil {
		return err
	}
	return s.ClearAll()
}

func kvBackup(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	engine, err := env.Engine()
	if err != nil {
		return err
	}

	f, err := os.Create(c.Args().First())
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if err := engine.Backup(c.Context, f); err != nil {
		f.Close()
		return fmt.Errorf("backup: %w", err)
	}
	return f.Close()
}

func kvRestore(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	engine, err := env.Engine()
	if err != nil {
		return err
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	if err := engine.Restore(c.Context, f); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

type statsView struct {
	Namespace    string `json:"namespace" yaml:"namespace"`
	TotalKeys    uint64 `json:"total_keys" yaml:"total_keys"`
	TotalSize    uint64 `json:"total_size" yaml:"total_size"`
	LSMSize      uint64 `json:"lsm_size" yaml:"lsm_size"`
	ValueLogSize uint64 `json:"value_log_size" yaml:"value_log_size"`
	GCRewrites   uint64 `json:"gc_rewrites" yaml:"gc_rewrites"`
}

func (v statsView) Table() *output.Table {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("namespace", v.Namespace)
	t.AddRow("total_keys", strconv.FormatUint(v.TotalKeys, 10))
	t.AddRow("total_size", strconv.FormatUint(v.TotalSize, 10))
	t.AddRow("lsm_size", strconv.FormatUint(v.LSMSize, 10))
	t.AddRow("value_log_size", strconv.FormatUint(v.ValueLogSize, 10))
	t.AddRow("gc_rewrites", strconv.FormatUint(v.GCRewrites, 10))
	return t
}

func kvStats(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	engine, err := env.Engine()
	if err != nil {
		return err
	}

	st, err := engine.Stats(c.Context)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return env.Print(statsView{
		Namespace:    env.Config.KVConfig().Namespace,
		TotalKeys:    st.TotalKeys,
		TotalSize:    st.TotalSize,
		LSMSize:      st.LSMSize,
		ValueLogSize: st.ValueLogSize,
		GCRewrites:   st.GCRewrites,
	})
}

func kvGC(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	engine, err := env.Engine()
	if err != nil {
		return err
	}

	rewrites, err := engine.GC(c.Context)
	if err != nil {
		return fmt.Errorf("gc: %w", err)
	}
	return env.Print(map[string]any{"rewrites": rewrites})
}
