package tlspolicy

import (
	"crypto/tls"
	"fmt"
	"os"
)

// CertificateSource supplies the server certificate for a handshake.
type CertificateSource interface {
	GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error)
}

// KeyPair is a certificate chain and private key loaded once.
type KeyPair struct {
	cert *tls.Certificate
}

// LoadKeyPair reads a PEM certificate chain and PEM private key from disk.
func LoadKeyPair(certFile, keyFile string) (*KeyPair, error) {
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("tlspolicy: read cert file %s: %w", certFile, err)
	}
	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlspolicy: read key file %s: %w", keyFile, err)
	}
	return ParseKeyPair(certPEM, keyPEM)
}

// ParseKeyPair builds a KeyPair from PEM blobs.
func ParseKeyPair(certPEM, keyPEM []byte) (*KeyPair, error) {
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("tlspolicy: parse key pair: %w", err)
	}
	return &KeyPair{cert: &cert}, nil
}

// GetCertificate implements CertificateSource.
func (k *KeyPair) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return k.cert, nil
}
