// Package main provides the entry point for staticweb-cli.
//
// staticweb-cli probes a running staticweb server over raw sockets,
// verifies server configuration files and generates development
// certificates.
//
// Usage:
//
//	staticweb-cli probe 127.0.0.1:80 /
//	staticweb-cli probe --tls --ca-file fullchain.pem localhost:443 /index.html
//	staticweb-cli check-config /etc/staticweb/config.yaml
//	staticweb-cli gen-cert --host localhost --host 127.0.0.1
package main
