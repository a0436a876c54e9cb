package tlspolicy

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWatcher(t *testing.T) {
	certFile, keyFile := writeTestKeyPair(t, t.TempDir())

	w, err := NewWatcher(certFile, keyFile, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	cert, err := w.GetCertificate(nil)
	if err != nil || cert == nil {
		t.Fatalf("GetCertificate() = %v, %v", cert, err)
	}
}

func TestNewWatcher_InvalidCert(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "fullchain.pem")
	keyFile := filepath.Join(dir, "privkey.pem")
	os.WriteFile(certFile, []byte("invalid"), 0o644)
	os.WriteFile(keyFile, []byte("invalid"), 0o600)

	if _, err := NewWatcher(certFile, keyFile, WithLogger(quietLogger())); err == nil {
		t.Error("NewWatcher() expected error for invalid certificate")
	}
}

func TestNewWatcher_NonexistentFiles(t *testing.T) {
	if _, err := NewWatcher("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Error("NewWatcher() expected error for nonexistent files")
	}
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir)

	w, err := NewWatcher(certFile, keyFile, WithLogger(quietLogger()), WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.settle = 10 * time.Millisecond
	w.StartAsync()
	defer w.Stop()

	before, _ := w.GetCertificate(nil)

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeTestKeyPair(t, dir)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		after, _ := w.GetCertificate(nil)
		if !bytes.Equal(after.Certificate[0], before.Certificate[0]) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("certificate was not reloaded after the files changed")
}

func TestWatcher_FailedReloadKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir)

	w, err := NewWatcher(certFile, keyFile, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	before, _ := w.GetCertificate(nil)

	os.WriteFile(certFile, []byte("garbage"), 0o644)
	if err := w.reload(); err == nil {
		t.Fatal("reload() expected error for garbage certificate")
	}

	after, _ := w.GetCertificate(nil)
	if after != before {
		t.Error("failed reload replaced the serving certificate")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	certFile, keyFile := writeTestKeyPair(t, t.TempDir())

	w, err := NewWatcher(certFile, keyFile, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
