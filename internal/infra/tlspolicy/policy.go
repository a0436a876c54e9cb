package tlspolicy

import (
	"crypto/tls"
	"slices"
)

// Policy is the allow-list applied to every TLS handshake.
type Policy struct {
	versions []uint16
	// suites12 is enforced by crypto/tls for TLS 1.2 handshakes.
	suites12 []uint16
	// suites13 cannot be restricted in crypto/tls; it documents the
	// suites TLS 1.3 may negotiate and is checked after the handshake.
	suites13 []uint16
	curves   []tls.CurveID
}

// Default returns the server policy: TLS 1.2 and 1.3 with AEAD suites only.
func Default() Policy {
	return Policy{
		versions: []uint16{tls.VersionTLS12, tls.VersionTLS13},
		suites12: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		},
		suites13: []uint16{
			tls.TLS_AES_256_GCM_SHA384,
			tls.TLS_CHACHA20_POLY1305_SHA256,
			tls.TLS_AES_128_GCM_SHA256,
		},
		curves: []tls.CurveID{tls.X25519, tls.CurveP256, tls.CurveP384},
	}
}

// Versions returns the allowed protocol versions.
func (p Policy) Versions() []uint16 {
	return slices.Clone(p.versions)
}

// CipherSuites returns every allowed cipher suite, TLS 1.2 first.
func (p Policy) CipherSuites() []uint16 {
	return append(slices.Clone(p.suites12), p.suites13...)
}

// Permits reports whether a completed handshake stayed inside the policy.
func (p Policy) Permits(state tls.ConnectionState) bool {
	if !slices.Contains(p.versions, state.Version) {
		return false
	}
	if state.Version == tls.VersionTLS13 {
		return slices.Contains(p.suites13, state.CipherSuite)
	}
	return slices.Contains(p.suites12, state.CipherSuite)
}

// ServerConfig builds the tls.Config for the policy. Certificates are
// fetched from src on every handshake so a reloading source takes effect
// without restarting the listener.
func (p Policy) ServerConfig(src CertificateSource) *tls.Config {
	return &tls.Config{
		GetCertificate:   src.GetCertificate,
		MinVersion:       slices.Min(p.versions),
		MaxVersion:       slices.Max(p.versions),
		CipherSuites:     slices.Clone(p.suites12),
		CurvePreferences: slices.Clone(p.curves),
		ClientAuth:       tls.NoClientCert,
		NextProtos:       []string{"http/1.1"},
	}
}

// VersionName returns a readable protocol version for logs.
func VersionName(v uint16) string {
	switch v {
	case tls.VersionTLS10:
		return "TLS1.0"
	case tls.VersionTLS11:
		return "TLS1.1"
	case tls.VersionTLS12:
		return "TLS1.2"
	case tls.VersionTLS13:
		return "TLS1.3"
	default:
		return "unknown"
	}
}
