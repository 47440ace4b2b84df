package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/appcore-go/internal/cli/output"
	"github.com/yndnr/appcore-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			format, err := output.ParseFormat(c.String("output"))
			if err != nil {
				return err
			}
			return output.NewFormatter(format).Format(c.App.Writer, versionView(buildinfo.Get()))
		},
	}
}

type versionView buildinfo.Info

func (v versionView) Table() *output.Table {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("version", v.Version)
	t.AddRow("commit", v.Commit)
	t.AddRow("build_time", v.BuildTime)
	t.AddRow("go_version", v.GoVersion)
	t.AddRow("platform", v.Platform)
	return t
}
