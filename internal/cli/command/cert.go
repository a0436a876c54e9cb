package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/staticweb-go/internal/infra/tlspolicy"
)

// GenCertCommand returns the gen-cert command.
func GenCertCommand() *cli.Command {
	return &cli.Command{
		Name:  "gen-cert",
		Usage: "Write a self-signed certificate pair for local testing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "cert",
				Usage: "Certificate output path",
				Value: "fullchain.pem",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "Private key output path",
				Value: "privkey.pem",
			},
			&cli.StringSliceFlag{
				Name:  "host",
				Usage: "DNS name or IP the certificate is valid for (repeatable)",
				Value: cli.NewStringSlice("localhost", "127.0.0.1"),
			},
			&cli.DurationFlag{
				Name:  "valid-for",
				Usage: "Validity period",
				Value: 365 * 24 * time.Hour,
			},
		},
		Action: func(c *cli.Context) error {
			certFile, keyFile := c.String("cert"), c.String("key")
			if err := tlspolicy.WriteSelfSigned(certFile, keyFile, c.StringSlice("host"), c.Duration("valid-for")); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			_, err := fmt.Fprintf(c.App.Writer, "wrote %s and %s\n", certFile, keyFile)
			return err
		},
	}
}
