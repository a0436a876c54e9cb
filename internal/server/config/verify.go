package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yndnr/staticweb-go/internal/core/domain"
)

// Verify validates the configuration. A missing certificate or key file
// yields domain.ErrCertificateMissing; every other problem wraps
// domain.ErrInvalidConfig.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Static.Root) == "" {
		return invalid("static.root is required")
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return nil
}

// VerifyCertificates checks that the certificate and key files exist.
// It runs before any socket is opened.
func VerifyCertificates(tls *TLSConfig) error {
	for _, path := range []string{tls.CertFile, tls.KeyFile} {
		if path == "" {
			return domain.ErrCertificateMissing.WithDetails("path is empty")
		}
		info, err := os.Stat(path)
		if err != nil {
			return domain.ErrCertificateMissing.WithDetails(path).WithCause(err)
		}
		if info.IsDir() {
			return domain.ErrCertificateMissing.WithDetails(path + " is a directory")
		}
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Plain.Addr == "" {
		return invalid("server.plain.addr is required")
	}
	if cfg.TLS.Addr == "" {
		return invalid("server.tls.addr is required")
	}
	if cfg.Plain.Addr == cfg.TLS.Addr {
		return invalid("server.plain.addr and server.tls.addr must differ")
	}
	if err := VerifyCertificates(&cfg.TLS); err != nil {
		return err
	}

	t := cfg.Timeouts
	if t.Handshake < 0 || t.Read < 0 || t.Write < 0 {
		return invalid("server.timeouts must not be negative")
	}

	l := cfg.Limits
	if l.MaxLineBytes <= 0 || l.MaxHeaderLines <= 0 || l.MaxBodyLogBytes <= 0 {
		return invalid("server.limits must be positive")
	}

	r := cfg.RateLimit
	if r.PerIP < 0 || r.Burst < 0 {
		return invalid("server.rate_limit must not be negative")
	}
	if r.PerIP > 0 && r.TrackedIPs <= 0 {
		return invalid("server.rate_limit.tracked_ips must be positive when rate limiting is enabled")
	}

	if cfg.ShutdownTimeout < 0 {
		return invalid("server.shutdown_timeout must not be negative")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
		return nil
	default:
		return invalid(fmt.Sprintf("log.format %q is not one of json, text", cfg.Format))
	}
}

func invalid(msg string) error {
	return domain.ErrInvalidConfig.WithCause(errors.New(msg))
}
