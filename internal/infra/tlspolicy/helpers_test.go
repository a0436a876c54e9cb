package tlspolicy

import (
	"path/filepath"
	"testing"
	"time"
)

// writeTestKeyPair writes a fresh self-signed pair into dir.
func writeTestKeyPair(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	certFile = filepath.Join(dir, "fullchain.pem")
	keyFile = filepath.Join(dir, "privkey.pem")
	if err := WriteSelfSigned(certFile, keyFile, []string{"localhost", "127.0.0.1"}, time.Hour); err != nil {
		t.Fatalf("WriteSelfSigned() error = %v", err)
	}
	return certFile, keyFile
}

func testKeyPair(t *testing.T) *KeyPair {
	t.Helper()

	certPEM, keyPEM, err := SelfSigned([]string{"localhost"}, time.Hour)
	if err != nil {
		t.Fatalf("SelfSigned() error = %v", err)
	}
	kp, err := ParseKeyPair(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("ParseKeyPair() error = %v", err)
	}
	return kp
}
