package webserver

import (
	"bufio"
	"net"
	"sync/atomic"
	"time"
)

// Transport tells whether a connection arrived on the plaintext or the
// TLS port.
type Transport int

const (
	// TransportPlain is the plaintext port.
	TransportPlain Transport = iota
	// TransportSecure is the TLS port after a completed handshake.
	TransportSecure
)

// String returns the transport name used in logs and metric labels.
func (t Transport) String() string {
	switch t {
	case TransportPlain:
		return "plain"
	case TransportSecure:
		return "tls"
	default:
		return "unknown"
	}
}

// Conn is one client connection. It is owned by a single goroutine.
type Conn struct {
	// stream is the duplex byte stream: the TCP socket, or the TLS
	// session layered on it.
	stream    net.Conn
	br        *bufio.Reader
	bw        *bufio.Writer
	transport Transport

	closed atomic.Bool
}

func newConn(stream net.Conn, transport Transport) *Conn {
	return &Conn{
		stream:    stream,
		br:        bufio.NewReader(stream),
		bw:        bufio.NewWriter(stream),
		transport: transport,
	}
}

// Close closes the stream. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.stream.Close()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.stream.RemoteAddr()
}

// Transport returns the port kind the connection arrived on.
func (c *Conn) Transport() Transport {
	return c.transport
}

func (c *Conn) setReadTimeout(d time.Duration) {
	if d > 0 {
		_ = c.stream.SetReadDeadline(time.Now().Add(d))
	}
}

func (c *Conn) setWriteTimeout(d time.Duration) {
	if d > 0 {
		_ = c.stream.SetWriteDeadline(time.Now().Add(d))
	}
}
