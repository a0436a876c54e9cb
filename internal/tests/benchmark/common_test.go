package benchmark

import (
	"bytes"
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/yndnr/staticweb-go/internal/infra/tlspolicy"
	"github.com/yndnr/staticweb-go/internal/server/static"
	"github.com/yndnr/staticweb-go/internal/server/webserver"
	"github.com/yndnr/staticweb-go/internal/telemetry/logger"
)

// FileSizes are the body sizes served in the end-to-end benchmarks.
var FileSizes = []int{1 << 10, 64 << 10, 1 << 20}

// newWebRoot writes index.html and one binary file per entry in FileSizes.
func newWebRoot(b *testing.B) string {
	b.Helper()
	root := b.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), bytes.Repeat([]byte("<p>staticweb</p>\n"), 64), 0o644); err != nil {
		b.Fatal(err)
	}
	for _, size := range FileSizes {
		data := make([]byte, size)
		rand.Read(data)
		if err := os.WriteFile(filepath.Join(root, blobName(size)), data, 0o644); err != nil {
			b.Fatal(err)
		}
	}
	return root
}

func blobName(size int) string {
	return "blob-" + byteSize(size) + ".bin"
}

func byteSize(n int) string {
	switch {
	case n >= 1<<20:
		return strconv.Itoa(n>>20) + "MiB"
	case n >= 1<<10:
		return strconv.Itoa(n>>10) + "KiB"
	default:
		return strconv.Itoa(n) + "B"
	}
}

// startServer runs a web server on loopback ports for the benchmark.
func startServer(b *testing.B, root string) *webserver.Server {
	b.Helper()

	resolver, err := static.New(root)
	if err != nil {
		b.Fatal(err)
	}
	certPEM, keyPEM, err := tlspolicy.SelfSigned([]string{"localhost", "127.0.0.1"}, time.Hour)
	if err != nil {
		b.Fatal(err)
	}
	kp, err := tlspolicy.ParseKeyPair(certPEM, keyPEM)
	if err != nil {
		b.Fatal(err)
	}

	cfg := webserver.DefaultConfig()
	cfg.PlainAddress = "127.0.0.1:0"
	cfg.TLSAddress = "127.0.0.1:0"
	cfg.ReadTimeout = 5 * time.Second
	cfg.WriteTimeout = 5 * time.Second

	srv, err := webserver.New(cfg, tlspolicy.NewNegotiator(tlspolicy.Default(), kp, 5*time.Second), resolver, nil, logger.Discard())
	if err != nil {
		b.Fatal(err)
	}
	if err := srv.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv
}
