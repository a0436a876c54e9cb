package config

import "time"

// ServerConfig is the root configuration for staticweb-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Static  StaticSection  `koanf:"static"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the two listeners and the connection pipeline.
type ServerSection struct {
	Plain           PlainConfig     `koanf:"plain"`
	TLS             TLSConfig       `koanf:"tls"`
	Timeouts        TimeoutConfig   `koanf:"timeouts"`
	Limits          LimitConfig     `koanf:"limits"`
	RateLimit       RateLimitConfig `koanf:"rate_limit"`
	ShutdownTimeout time.Duration   `koanf:"shutdown_timeout"`
}

// PlainConfig configures the plaintext listener. Every GET on it is
// redirected to HTTPS.
type PlainConfig struct {
	Addr string `koanf:"addr"`
}

// TLSConfig configures the TLS listener and its certificate pair.
type TLSConfig struct {
	Addr     string `koanf:"addr"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
	// Reload swaps in a new certificate pair when the PEM files change.
	Reload bool `koanf:"reload"`
}

// TimeoutConfig bounds how long a single connection may stall.
// Zero disables the corresponding deadline.
type TimeoutConfig struct {
	Handshake time.Duration `koanf:"handshake"`
	Read      time.Duration `koanf:"read"`
	Write     time.Duration `koanf:"write"`
}

// LimitConfig bounds the request the parser is willing to read.
type LimitConfig struct {
	MaxLineBytes    int `koanf:"max_line_bytes"`
	MaxHeaderLines  int `koanf:"max_header_lines"`
	MaxBodyLogBytes int `koanf:"max_body_log_bytes"`
}

// RateLimitConfig throttles new connections per remote IP.
// PerIP of 0 disables rate limiting.
type RateLimitConfig struct {
	PerIP      float64 `koanf:"per_ip"`
	Burst      int     `koanf:"burst"`
	TrackedIPs int     `koanf:"tracked_ips"`
}

// StaticSection configures the web root.
type StaticSection struct {
	Root string `koanf:"root"`
}

// MetricsSection configures the Prometheus listener. Empty Addr disables it.
type MetricsSection struct {
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Summary returns the configuration as slog key/value pairs for the
// startup log line.
func Summary(cfg *ServerConfig) []any {
	return []any{
		"plain_addr", cfg.Server.Plain.Addr,
		"tls_addr", cfg.Server.TLS.Addr,
		"cert_file", cfg.Server.TLS.CertFile,
		"cert_reload", cfg.Server.TLS.Reload,
		"web_root", cfg.Static.Root,
		"read_timeout", cfg.Server.Timeouts.Read.String(),
		"rate_limit_per_ip", cfg.Server.RateLimit.PerIP,
		"metrics_addr", cfg.Metrics.Addr,
	}
}
