package command

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/staticweb-go/internal/cli/connection"
	"github.com/yndnr/staticweb-go/internal/cli/output"
	"github.com/yndnr/staticweb-go/internal/infra/buildinfo"
)

// ProbeCommand returns the probe command.
func ProbeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Send one request and show the raw reply",
		ArgsUsage: "ADDRESS [TARGET]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tls",
				Usage: "Perform a TLS handshake before the request",
			},
			&cli.BoolFlag{
				Name:    "insecure",
				Aliases: []string{"k"},
				Usage:   "Skip certificate verification",
			},
			&cli.StringFlag{
				Name:  "ca-file",
				Usage: "PEM bundle used to verify the server certificate",
			},
			&cli.StringFlag{
				Name:  "server-name",
				Usage: "TLS server name (defaults to the address host)",
			},
			&cli.StringFlag{
				Name:  "tls-max",
				Usage: "Highest TLS version to offer: 1.0, 1.1, 1.2 or 1.3",
			},
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"X"},
				Usage:   "Request method",
				Value:   "GET",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host header (defaults to the address)",
			},
			&cli.BoolFlag{
				Name:  "no-host",
				Usage: "Omit the Host header",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Request body, sent with a Content-Length",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Bound on the whole exchange",
				Value: 10 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "body",
				Usage: "Print a text body after the headers (table output)",
			},
		},
		Action: probeAction,
	}
}

func probeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("probe: ADDRESS is required", 2)
	}
	opts, err := probeOptions(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	res, err := connection.Probe(c.Context, opts)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	f, format, err := formatter(c)
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return f.Format(c.App.Writer, res)
	}
	return renderProbe(c, res)
}

func probeOptions(c *cli.Context) (connection.Options, error) {
	defaults := cliConfig(c)
	addr := c.Args().Get(0)
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return connection.Options{}, fmt.Errorf("probe: invalid address %q: %v", addr, err)
	}

	opts := connection.Options{
		Address:    addr,
		TLS:        c.Bool("tls"),
		ServerName: c.String("server-name"),
		Insecure:   c.Bool("insecure") || defaults.Insecure,
		Method:     c.String("method"),
		Target:     c.Args().Get(1),
		Host:       c.String("host"),
		Body:       c.String("data"),
		UserAgent:  "staticweb-cli/" + buildinfo.Version,
		Timeout:    c.Duration("timeout"),
	}
	if !c.IsSet("timeout") && defaults.Timeout > 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.Host == "" {
		opts.Host = addr
	}
	if c.Bool("no-host") {
		opts.Host = ""
	}

	if v := c.String("tls-max"); v != "" {
		version, err := parseTLSVersion(v)
		if err != nil {
			return connection.Options{}, err
		}
		opts.MaxTLSVersion = version
	}

	path := c.String("ca-file")
	if path == "" {
		path = defaults.CAFile
	}
	if path != "" {
		pem, err := os.ReadFile(path)
		if err != nil {
			return connection.Options{}, fmt.Errorf("probe: read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return connection.Options{}, fmt.Errorf("probe: no certificates in %s", path)
		}
		opts.RootCAs = pool
	}
	return opts, nil
}

func parseTLSVersion(s string) (uint16, error) {
	switch s {
	case "1.0":
		return tls.VersionTLS10, nil
	case "1.1":
		return tls.VersionTLS11, nil
	case "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	}
	return 0, fmt.Errorf("probe: unknown TLS version %q", s)
}

func renderProbe(c *cli.Context, res *connection.Result) error {
	w := c.App.Writer

	summary := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	summary.AddRow("address", res.Address)
	summary.AddRow("transport", res.Transport)
	if res.TLSVersion != "" {
		summary.AddRow("tls", res.TLSVersion+" "+res.CipherSuite)
	}
	if res.Notice != "" {
		summary.AddRow("notice", res.Notice)
	} else {
		summary.AddRow("status", strconv.Itoa(res.Status)+" "+res.Reason)
		summary.AddRow("content_length", strconv.Itoa(res.ContentLength))
		summary.AddRow("body_bytes", strconv.Itoa(res.BodyBytes))
	}
	summary.AddRow("duration", res.Duration)
	if err := summary.Render(w); err != nil {
		return err
	}

	if len(res.Headers) > 0 {
		headers := &output.Table{Headers: []string{"HEADER", "VALUE"}}
		for _, h := range res.Headers {
			headers.AddRow(h.Name, h.Value)
		}
		fmt.Fprintln(w)
		if err := headers.Render(w); err != nil {
			return err
		}
	}

	if c.Bool("body") && res.Body != "" {
		fmt.Fprintf(w, "\n%s\n", res.Body)
	}
	return nil
}
