package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/staticweb-go/internal/cli/config"
	"github.com/yndnr/staticweb-go/internal/cli/output"
	"github.com/yndnr/staticweb-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "staticweb-cli",
		Usage:   "staticweb companion tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ProbeCommand(),
			CheckConfigCommand(),
			GenCertCommand(),
			VersionCommand(),
		},
		Before:      loadCLIConfig,
		HideVersion: true,
	}
}

const cliConfigKey = "cliConfig"

// loadCLIConfig reads the defaults file and applies it to global flags the
// user did not set.
func loadCLIConfig(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[cliConfigKey] = cfg

	if !c.IsSet("output") && cfg.Output != "" {
		return c.Set("output", cfg.Output)
	}
	return nil
}

// cliConfig returns the loaded defaults, or the built-in defaults when
// Before did not run.
func cliConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[cliConfigKey].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI defaults file (default ~/.staticweb/cli.yaml)",
			EnvVars: []string{"STATICWEB_CLI_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			EnvVars: []string{"STATICWEB_CLI_OUTPUT"},
			Value:   "table",
		},
	}
}

// formatter returns the formatter selected by the global --output flag.
func formatter(c *cli.Context) (output.Formatter, output.Format, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, "", cli.Exit(err.Error(), 2)
	}
	return output.NewFormatter(format), format, nil
}

// render writes data to the app's writer in the selected format.
func render(c *cli.Context, data any) error {
	f, _, err := formatter(c)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, data)
}

// VersionCommand prints build information.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			f, format, err := formatter(c)
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				_, err := fmt.Fprintf(c.App.Writer, "staticweb-cli %s\n", buildinfo.String())
				return err
			}
			return f.Format(c.App.Writer, buildinfo.Get())
		},
	}
}
