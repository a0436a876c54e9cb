package config

import "time"

// Default configuration values.
const (
	DefaultPlainAddr = ":80"
	DefaultTLSAddr   = ":443"
	DefaultCertFile  = "/etc/staticweb/tls/fullchain.pem"
	DefaultKeyFile   = "/etc/staticweb/tls/privkey.pem"
	DefaultWebRoot   = "/var/www/staticweb"

	DefaultHandshakeTimeout = 10 * time.Second
	DefaultReadTimeout      = 30 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second

	DefaultMaxLineBytes    = 8 * 1024
	DefaultMaxHeaderLines  = 100
	DefaultMaxBodyLogBytes = 64 * 1024

	DefaultTrackedIPs = 10000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Plain: PlainConfig{
				Addr: DefaultPlainAddr,
			},
			TLS: TLSConfig{
				Addr:     DefaultTLSAddr,
				CertFile: DefaultCertFile,
				KeyFile:  DefaultKeyFile,
			},
			Timeouts: TimeoutConfig{
				Handshake: DefaultHandshakeTimeout,
				Read:      DefaultReadTimeout,
				Write:     DefaultWriteTimeout,
			},
			Limits: LimitConfig{
				MaxLineBytes:    DefaultMaxLineBytes,
				MaxHeaderLines:  DefaultMaxHeaderLines,
				MaxBodyLogBytes: DefaultMaxBodyLogBytes,
			},
			RateLimit: RateLimitConfig{
				TrackedIPs: DefaultTrackedIPs,
			},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Static: StaticSection{
			Root: DefaultWebRoot,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
