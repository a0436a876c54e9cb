// Package command provides CLI command definitions for staticweb-cli.
//
// Commands:
//
//	probe         send one request to a staticweb server and show the reply
//	check-config  load and verify a server configuration file
//	gen-cert      write a self-signed certificate pair for local testing
//	version       print build information
package command
