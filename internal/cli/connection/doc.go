// Package connection provides the raw-socket probe client for staticweb-cli.
//
// The probe speaks just enough HTTP/1.1 to exercise a staticweb server:
// it sends one request, then reads the status line, the headers in wire
// order and the Content-Length body. A reply that is not HTTP (the bare
// diagnostic notices) is reported verbatim.
package connection
