// Package main provides the entry point for staticweb-server.
//
// The server listens on two ports:
//
//   - the plaintext port, which redirects every GET to HTTPS
//   - the TLS port, which serves files from the web root
//
// Usage:
//
//	staticweb-server [flags]
//	staticweb-server -config /etc/staticweb/config.yaml
//
// Configuration comes from defaults, the optional YAML file and STATICWEB_
// environment variables, in that order. A missing certificate or key file
// aborts startup before any socket is opened.
package main
