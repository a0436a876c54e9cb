// Package logger provides structured logging for staticweb.
//
// It configures log/slog for JSON (default) or text output:
//
//   - logger.go: handler construction and dynamic level
//   - context.go: per-connection logger and connection ID propagation
//   - sanitize.go: escaping of client-supplied values
//
// Values that come off the wire (request line, target, user agent, POST
// body) are escaped and truncated before they reach the sink, so a client
// cannot inject fake log records.
package logger
