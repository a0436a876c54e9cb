// Package buildinfo exposes build-time version information for staticweb.
//
// Values are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/staticweb-go/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/staticweb-go/internal/infra/buildinfo.Commit=abc123"
package buildinfo
