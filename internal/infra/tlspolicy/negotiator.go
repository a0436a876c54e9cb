package tlspolicy

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"time"

	"github.com/yndnr/staticweb-go/internal/core/domain"
)

// Negotiator performs the server side of the TLS handshake on an
// already-accepted connection.
type Negotiator struct {
	policy  Policy
	config  *tls.Config
	timeout time.Duration
}

// NewNegotiator creates a negotiator. A zero timeout lets a handshake
// stall for as long as the peer keeps the socket open.
func NewNegotiator(policy Policy, src CertificateSource, timeout time.Duration) *Negotiator {
	return &Negotiator{
		policy:  policy,
		config:  policy.ServerConfig(src),
		timeout: timeout,
	}
}

// Negotiate runs the handshake on raw. On failure the returned error wraps
// domain.ErrHandshakeFailed and the caller must close raw; nothing may be
// read from or written to it.
func (n *Negotiator) Negotiate(ctx context.Context, raw net.Conn) (*tls.Conn, error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	tc := tls.Server(raw, n.config)
	if err := tc.HandshakeContext(ctx); err != nil {
		return nil, domain.ErrHandshakeFailed.WithCause(err)
	}

	state := tc.ConnectionState()
	if !n.policy.Permits(state) {
		return nil, domain.ErrHandshakeFailed.WithDetails(
			"negotiated " + VersionName(state.Version) + " " + tls.CipherSuiteName(state.CipherSuite) + " outside policy")
	}
	return tc, nil
}

// IsBenign reports whether a handshake failure is routine background
// noise on a public port: scanners that hang up, plaintext sent to the
// TLS port, or an alert from the peer. Policy mismatches are not benign.
func IsBenign(err error) bool {
	if domain.IsDisconnect(err) || domain.IsTimeout(err) {
		return true
	}
	var rhe tls.RecordHeaderError
	if errors.As(err, &rhe) {
		return true
	}
	var alert tls.AlertError
	if errors.As(err, &alert) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
