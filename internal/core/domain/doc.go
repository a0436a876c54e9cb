// Package domain defines the error taxonomy for staticweb.
//
// Every failure in the per-connection pipeline is reported as an *Error
// carrying one of five kinds:
//
//   - transport: accept, handshake, read and write failures
//   - protocol: malformed request line, bad Content-Length, limits
//   - resource: path outside the web root or missing file
//   - method: any method other than GET
//   - startup: missing certificate/key, invalid configuration
//
// Only startup errors are fatal. Everything else is isolated to the one
// connection that produced it.
package domain
