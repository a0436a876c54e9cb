package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/staticweb-go/internal/cli/output"
	serverconfig "github.com/yndnr/staticweb-go/internal/server/config"
)

// CheckConfigCommand returns the check-config command. It runs the same
// loading and verification as staticweb-server, including STATICWEB_
// environment overrides and certificate presence.
func CheckConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "check-config",
		Usage:     "Load and verify a server configuration file",
		ArgsUsage: "[FILE]",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			cfg, err := serverconfig.Load(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("configuration invalid: %v", err), 1)
			}

			t := &output.Table{Headers: []string{"KEY", "VALUE"}}
			summary := serverconfig.Summary(cfg)
			for i := 0; i+1 < len(summary); i += 2 {
				t.AddRow(fmt.Sprint(summary[i]), fmt.Sprint(summary[i+1]))
			}

			_, format, err := formatter(c)
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				fmt.Fprintln(c.App.Writer, "configuration OK")
				return t.Render(c.App.Writer)
			}
			m := make(map[string]string, len(t.Rows))
			for _, row := range t.Rows {
				m[row[0]] = row[1]
			}
			return render(c, m)
		},
	}
}
