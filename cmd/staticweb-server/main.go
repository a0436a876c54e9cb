package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/yndnr/staticweb-go/internal/infra/buildinfo"
	"github.com/yndnr/staticweb-go/internal/infra/confloader"
	"github.com/yndnr/staticweb-go/internal/infra/shutdown"
	"github.com/yndnr/staticweb-go/internal/infra/tlspolicy"
	"github.com/yndnr/staticweb-go/internal/server/config"
	"github.com/yndnr/staticweb-go/internal/server/static"
	"github.com/yndnr/staticweb-go/internal/server/webserver"
	"github.com/yndnr/staticweb-go/internal/telemetry/logger"
	"github.com/yndnr/staticweb-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("staticweb-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	log.Info("starting staticweb-server",
		append([]any{"version", buildinfo.Version, "commit", buildinfo.Commit, "config", *configFile},
			config.Summary(cfg)...)...)

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	certs, err := initCertificates(cfg, log, shutdownHandler)
	if err != nil {
		return fmt.Errorf("init certificates: %w", err)
	}

	resolver, err := static.New(cfg.Static.Root)
	if err != nil {
		return fmt.Errorf("init web root: %w", err)
	}

	var metrics *metric.Registry
	if cfg.Metrics.Addr != "" {
		metrics = metric.NewRegistry()
		startMetrics(metrics, cfg.Metrics.Addr, log, shutdownHandler)
	}

	negotiator := tlspolicy.NewNegotiator(tlspolicy.Default(), certs, cfg.Server.Timeouts.Handshake)
	srv, err := webserver.New(webConfig(cfg), negotiator, resolver, metrics, log)
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		return err
	}
	shutdownHandler.OnShutdown("web", func(ctx context.Context) error {
		log.Info("shutting down web server")
		return srv.Shutdown(ctx)
	})

	if *configFile != "" {
		watchConfig(*configFile, log, shutdownHandler)
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	return config.Load(configFile)
}

// initCertificates loads the key pair, watching the files for renewal
// when server.tls.reload is set.
func initCertificates(cfg *config.ServerConfig, log *slog.Logger, h *shutdown.Handler) (tlspolicy.CertificateSource, error) {
	tlsCfg := cfg.Server.TLS
	if !tlsCfg.Reload {
		return tlspolicy.LoadKeyPair(tlsCfg.CertFile, tlsCfg.KeyFile)
	}

	w, err := tlspolicy.NewWatcher(tlsCfg.CertFile, tlsCfg.KeyFile, tlspolicy.WithLogger(log))
	if err != nil {
		return nil, err
	}
	w.StartAsync()
	h.OnShutdown("certificate watcher", func(context.Context) error {
		w.Stop()
		return nil
	})
	return w, nil
}

func startMetrics(reg *metric.Registry, addr string, log *slog.Logger, h *shutdown.Handler) {
	srv := reg.NewServer(addr)
	go func() {
		log.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	h.OnShutdown("metrics", srv.Shutdown)
}

// watchConfig re-applies the log level when the configuration file
// changes. Listener addresses, certificates and the web root need a
// restart.
func watchConfig(path string, log *slog.Logger, h *shutdown.Handler) {
	w, err := confloader.NewWatcher(path, confloader.WithWatcherLogger(log))
	if err != nil {
		log.Warn("configuration watcher disabled", "error", err)
		return
	}
	w.OnChange(func(string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Error("configuration reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	h.OnShutdown("config watcher", func(context.Context) error {
		return w.Stop()
	})
}

func webConfig(cfg *config.ServerConfig) *webserver.Config {
	s := cfg.Server
	return &webserver.Config{
		PlainAddress: s.Plain.Addr,
		TLSAddress:   s.TLS.Addr,
		ReadTimeout:  s.Timeouts.Read,
		WriteTimeout: s.Timeouts.Write,
		Limits: webserver.Limits{
			MaxLineBytes:    s.Limits.MaxLineBytes,
			MaxHeaderLines:  s.Limits.MaxHeaderLines,
			MaxBodyLogBytes: s.Limits.MaxBodyLogBytes,
		},
		RatePerIP:  s.RateLimit.PerIP,
		RateBurst:  s.RateLimit.Burst,
		TrackedIPs: s.RateLimit.TrackedIPs,
		ServerName: buildinfo.ServerName(),
	}
}
